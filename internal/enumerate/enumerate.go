// Package enumerate builds the task list for a batch from either a local
// directory listing or a remote bucket listing.
//
// Enumeration happens before any transfer starts; a failure here is fatal
// to the whole batch. The produced task order is deterministic
// (lexicographic by key) so callers and tests can rely on it, even though
// the dispatcher itself makes no ordering guarantees.
package enumerate

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
	batcherrors "github.com/input-output-hk/catalyst-forge-libs/aws/batch/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/internal/s3api"
)

// LocalDirectory lists the entries directly under dir and maps each regular
// file to an upload task whose key is the file's base name. Sub-directories
// and irregular entries are excluded, not traversed and not errors.
func LocalDirectory(fsys fs.Filesystem, container, dir string) ([]batchtypes.Task, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, batcherrors.NewBucketError("enumerate", container, batcherrors.ErrEnumeration).
			WithMessage(fmt.Sprintf("failed to resolve directory %s: %v", dir, err))
	}

	info, err := fsys.Stat(absDir)
	if err != nil {
		return nil, batcherrors.NewBucketError("enumerate", container, batcherrors.ErrEnumeration).
			WithMessage(fmt.Sprintf("failed to stat directory %s: %v", absDir, err))
	}
	if !info.IsDir() {
		return nil, batcherrors.NewBucketError("enumerate", container, batcherrors.ErrEnumeration).
			WithMessage(fmt.Sprintf("%s is not a directory", absDir))
	}

	entries, err := fsys.ReadDir(absDir)
	if err != nil {
		return nil, batcherrors.NewBucketError("enumerate", container, batcherrors.ErrEnumeration).
			WithMessage(fmt.Sprintf("failed to read directory %s: %v", absDir, err))
	}

	var tasks []batchtypes.Task
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		tasks = append(tasks, batchtypes.Task{
			Container: container,
			Key:       entry.Name(),
			LocalPath: filepath.Join(absDir, entry.Name()),
		})
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key < tasks[j].Key })
	return tasks, nil
}

// RemoteContainer lists all objects in container and maps each to a
// download task whose local path joins destDir with the object key.
// Listing is paginated and flattened; S3 returns keys in lexicographic
// order, which is preserved.
func RemoteContainer(
	ctx context.Context,
	client s3api.S3API,
	container, destDir string,
) ([]batchtypes.Task, error) {
	var tasks []batchtypes.Task
	var continuationToken *string

	for {
		select {
		case <-ctx.Done():
			return nil, batcherrors.NewBucketError("enumerate", container, batcherrors.ErrEnumeration).
				WithMessage(fmt.Sprintf("context cancelled during listing: %v", ctx.Err()))
		default:
		}

		input := &s3.ListObjectsV2Input{
			Bucket:            &container,
			ContinuationToken: continuationToken,
			MaxKeys:           aws.Int32(1000), // AWS default and maximum
		}

		result, err := client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, batcherrors.NewBucketError("enumerate", container, batcherrors.ErrEnumeration).
				WithMessage(fmt.Sprintf("failed to list objects: %v", err))
		}

		for _, obj := range result.Contents {
			if obj.Key == nil {
				continue
			}
			tasks = append(tasks, batchtypes.Task{
				Container: container,
				Key:       *obj.Key,
				LocalPath: filepath.Join(destDir, *obj.Key),
			})
		}

		if result.IsTruncated == nil || !*result.IsTruncated {
			break
		}
		continuationToken = result.NextContinuationToken
	}

	return tasks, nil
}
