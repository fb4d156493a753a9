// Package batch provides client initialization and configuration.
//
// The Client provides a high-level interface for batch-transferring the
// contents of a local directory to or from an S3 bucket, with bounded
// concurrency and per-item failure isolation.
package batch

import (
	"context"
	"net/http"
	"runtime"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/internal/s3api"
)

// DefaultConcurrency returns the default number of transfers in flight:
// half the available hardware parallelism, never less than one. It is
// computed from the environment at call time, not cached.
func DefaultConcurrency() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// Client represents a batch transfer client with configurable options.
// It is safe for concurrent use; the underlying S3 client and filesystem
// are shared read-only across batch workers.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// concurrency is the client-level default for transfers in flight
	concurrency int

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem
}

// New creates a new batch client with the provided options.
// It loads AWS credentials using the default credential chain
// and applies the specified configuration options.
//
// Example:
//
//	client, err := batch.New(
//	    batch.WithRegion("us-west-2"),
//	    batch.WithConcurrency(8),
//	)
func New(opts ...batchtypes.Option) (*Client, error) {
	clientCfg := &batchtypes.ClientConfig{
		MaxRetries:  3,                    // Default retry count
		Timeout:     0,                    // No timeout by default
		Concurrency: DefaultConcurrency(), // Half the hardware parallelism
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		cfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	// Apply region from options if specified, otherwise ensure a region is set
	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	// Handle custom HTTP client for timeout
	if clientCfg.Timeout > 0 {
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)

	// Initialize filesystem - use provided one or default to OS filesystem
	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	return &Client{
		s3Client:    s3Client,
		concurrency: clientCfg.Concurrency,
		fs:          filesystem,
	}, nil
}

// NewWithClient creates a new batch client with a custom S3API
// implementation. This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...batchtypes.Option) *Client {
	clientCfg := &batchtypes.ClientConfig{
		Concurrency: DefaultConcurrency(),
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		filesystem = billy.NewOSFS("/") // Default to OS filesystem
	}

	return &Client{
		s3Client:    s3Client,
		concurrency: clientCfg.Concurrency,
		fs:          filesystem,
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed
// after creation. It must not be called while a batch is running.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.fs = filesystem
}
