// Package batch provides the public batch transfer API.
package batch

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/internal/dispatch"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/internal/enumerate"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/internal/transfer"
)

// UploadDirectory uploads every regular file directly under dir to the
// container, one object per file, keyed by base name. Sub-directories are
// not traversed.
//
// The container is created if it does not exist. Enumeration or container
// creation failures are fatal and return before any transfer starts; once
// dispatch begins, each file's failure is isolated and reported through
// the returned Outcome, never as an error.
//
// Returns:
//   - *Outcome: One Result per enumerated file, mixing successes and failures
//   - error: Non-nil only when the batch could not start
//
// Errors:
//   - ErrInvalidInput: If container or dir is empty
//   - ErrEnumeration: If dir does not exist or cannot be listed
//   - Network errors or AWS SDK errors from container creation
//
// Example:
//
//	outcome, err := client.UploadDirectory(ctx, "backups", "/var/backups",
//	    batch.WithTransferConcurrency(8),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("uploaded %d, failed %d\n", outcome.Succeeded(), outcome.Failed())
func (c *Client) UploadDirectory(
	ctx context.Context,
	container, dir string,
	opts ...batchtypes.TransferOption,
) (*batchtypes.Outcome, error) {
	if container == "" {
		return nil, errors.NewError("uploadDirectory", errors.ErrInvalidInput).
			WithMessage("container name cannot be empty")
	}
	if dir == "" {
		return nil, errors.NewError("uploadDirectory", errors.ErrInvalidInput).
			WithBucket(container).
			WithMessage("directory path cannot be empty")
	}

	start := time.Now()

	if err := c.ensureContainer(ctx, container); err != nil {
		return nil, err
	}

	tasks, err := enumerate.LocalDirectory(c.fs, container, dir)
	if err != nil {
		return nil, err
	}

	tr := transfer.New(c.s3Client, c.fs)
	results := dispatch.Run(ctx, tasks, c.batchConcurrency(opts), tr.Put)
	return aggregate(results, time.Since(start)), nil
}

// DownloadDirectory downloads every object in the container into destDir,
// one file per object, named by object key. The destination directory must
// already exist.
//
// Listing failures are fatal and return before any transfer starts; once
// dispatch begins, each object's failure is isolated and reported through
// the returned Outcome, never as an error.
//
// Returns:
//   - *Outcome: One Result per listed object, mixing successes and failures
//   - error: Non-nil only when the batch could not start
//
// Errors:
//   - ErrInvalidInput: If container or destDir is empty
//   - ErrEnumeration: If the container cannot be listed
func (c *Client) DownloadDirectory(
	ctx context.Context,
	container, destDir string,
	opts ...batchtypes.TransferOption,
) (*batchtypes.Outcome, error) {
	if container == "" {
		return nil, errors.NewError("downloadDirectory", errors.ErrInvalidInput).
			WithMessage("container name cannot be empty")
	}
	if destDir == "" {
		return nil, errors.NewError("downloadDirectory", errors.ErrInvalidInput).
			WithBucket(container).
			WithMessage("destination directory cannot be empty")
	}

	start := time.Now()

	tasks, err := enumerate.RemoteContainer(ctx, c.s3Client, container, destDir)
	if err != nil {
		return nil, err
	}

	tr := transfer.New(c.s3Client, c.fs)
	results := dispatch.Run(ctx, tasks, c.batchConcurrency(opts), tr.Get)
	return aggregate(results, time.Since(start)), nil
}

// batchConcurrency resolves the concurrency for one batch call:
// per-call option first, then the client-level default.
func (c *Client) batchConcurrency(opts []batchtypes.TransferOption) int {
	cfg := &batchtypes.TransferOptionConfig{
		Concurrency: c.concurrency,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Concurrency < 1 {
		return DefaultConcurrency()
	}
	return cfg.Concurrency
}

// ensureContainer creates the container if it does not already exist.
// Creation happens once, before any task runs, and a failure here is
// fatal to the batch.
func (c *Client) ensureContainer(ctx context.Context, container string) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(container),
	})
	if err == nil {
		return nil
	}

	_, err = c.s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(container),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if stderrors.As(err, &owned) || stderrors.As(err, &exists) {
			return nil
		}
		return errors.NewBucketError("createContainer", container, err)
	}
	return nil
}

// aggregate reduces the per-task results into the caller-visible outcome.
// It performs no I/O and cannot fail.
func aggregate(results []batchtypes.Result, duration time.Duration) *batchtypes.Outcome {
	return &batchtypes.Outcome{
		Results:  results,
		Duration: duration,
	}
}
