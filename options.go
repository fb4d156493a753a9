// Package batch provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package batch

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing.
func WithEndpoint(endpoint string) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed
// S3 requests. Default is 3 retries. Set to 0 to disable retries.
func WithMaxRetries(maxRetries int) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual S3 operations. A transfer
// that exceeds it fails like any other per-item failure; it does not
// abort the batch. Default is no timeout (0).
func WithTimeout(timeout time.Duration) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the client-level default for the number of
// transfers in flight. Default is half the available hardware parallelism.
func WithConcurrency(concurrency int) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
// Use this when you need fine-grained control over AWS SDK configuration.
func WithAWSConfig(config *aws.Config) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithFilesystem sets a custom filesystem implementation for file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) batchtypes.Option {
	return func(c *batchtypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithTransferConcurrency sets the number of transfers in flight for a
// single UploadDirectory or DownloadDirectory call, overriding the
// client-level default.
func WithTransferConcurrency(concurrency int) batchtypes.TransferOption {
	return func(c *batchtypes.TransferOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}
