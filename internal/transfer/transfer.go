// Package transfer executes the single-object operations behind each batch
// task: uploading one local file to S3 and downloading one object to a
// local file.
//
// All local I/O goes through the filesystem abstraction so tests can run
// against an in-memory filesystem.
package transfer

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
	batcherrors "github.com/input-output-hk/catalyst-forge-libs/aws/batch/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/internal/s3api"
)

// sniffLen bounds how much of a file is read for content-type detection.
const sniffLen = 3072

// Transferer performs single-object transfers through the S3 client and
// the filesystem abstraction. It is stateless per call and safe for
// concurrent use by multiple workers.
type Transferer struct {
	s3Client s3api.S3API
	fsys     fs.Filesystem
}

// New creates a new Transferer.
func New(s3Client s3api.S3API, fsys fs.Filesystem) *Transferer {
	return &Transferer{
		s3Client: s3Client,
		fsys:     fsys,
	}
}

// Put uploads the task's local file to its container and key.
func (t *Transferer) Put(ctx context.Context, task batchtypes.Task) error {
	file, err := t.fsys.Open(task.LocalPath)
	if err != nil {
		return batcherrors.NewObjectError("put", task.Container, task.Key, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return batcherrors.NewObjectError("put", task.Container, task.Key, err)
	}

	contentType, err := detectContentType(file)
	if err != nil {
		return batcherrors.NewObjectError("put", task.Container, task.Key, err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(task.Container),
		Key:           aws.String(task.Key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	}

	if _, err := t.s3Client.PutObject(ctx, input); err != nil {
		return batcherrors.NewObjectError("put", task.Container, task.Key, err)
	}
	return nil
}

// Get downloads the task's object into its local path. The destination
// directory must already exist; parent directories are not created.
func (t *Transferer) Get(ctx context.Context, task batchtypes.Task) error {
	input := &s3.GetObjectInput{
		Bucket: aws.String(task.Container),
		Key:    aws.String(task.Key),
	}

	output, err := t.s3Client.GetObject(ctx, input)
	if err != nil {
		if isObjectNotFound(err) {
			return batcherrors.NewObjectError("get", task.Container, task.Key, batcherrors.ErrObjectNotFound)
		}
		return batcherrors.NewObjectError("get", task.Container, task.Key, err)
	}
	defer output.Body.Close()

	file, err := t.fsys.Create(task.LocalPath)
	if err != nil {
		return batcherrors.NewObjectError("get", task.Container, task.Key, err)
	}

	if _, err := io.Copy(file, output.Body); err != nil {
		file.Close()
		return batcherrors.NewObjectError("get", task.Container, task.Key, err)
	}

	if err := file.Close(); err != nil {
		return batcherrors.NewObjectError("get", task.Container, task.Key, err)
	}
	return nil
}

// detectContentType sniffs the content type from the file's leading bytes
// and rewinds the file for the subsequent upload.
func detectContentType(file fs.File) (string, error) {
	header := make([]byte, sniffLen)
	n, err := file.Read(header)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return mimetype.Detect(header[:n]).String(), nil
}

// isObjectNotFound checks if an error from GetObject indicates a missing key.
func isObjectNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
