package batch

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/internal/testutil"
)

func TestDefaultConcurrency(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultConcurrency(), 1)
}

func TestNewWithCustomAWSConfig(t *testing.T) {
	client, err := New(
		WithAWSConfig(&aws.Config{Region: "eu-west-1"}),
		WithEndpoint("http://localhost:9000"),
		WithForcePathStyle(true),
		WithTimeout(30*time.Second),
		WithConcurrency(4),
	)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, 4, client.concurrency)
	assert.NotNil(t, client.fs)
}

func TestNewWithClientDefaults(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})
	require.NotNil(t, client)
	assert.Equal(t, DefaultConcurrency(), client.concurrency)
	assert.NotNil(t, client.fs)
}

func TestSetFilesystem(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})
	fsys := billy.NewInMemoryFS()

	client.SetFilesystem(fsys)
	assert.Equal(t, fsys, client.fs)
}

func TestClientOptions(t *testing.T) {
	tests := []struct {
		name   string
		option batchtypes.Option
		check  func(t *testing.T, cfg *batchtypes.ClientConfig)
	}{
		{
			name:   "region",
			option: WithRegion("us-west-2"),
			check: func(t *testing.T, cfg *batchtypes.ClientConfig) {
				assert.Equal(t, "us-west-2", cfg.Region)
			},
		},
		{
			name:   "endpoint",
			option: WithEndpoint("http://localhost:4566"),
			check: func(t *testing.T, cfg *batchtypes.ClientConfig) {
				assert.Equal(t, "http://localhost:4566", cfg.Endpoint)
			},
		},
		{
			name:   "max retries",
			option: WithMaxRetries(5),
			check: func(t *testing.T, cfg *batchtypes.ClientConfig) {
				assert.Equal(t, 5, cfg.MaxRetries)
			},
		},
		{
			name:   "concurrency",
			option: WithConcurrency(8),
			check: func(t *testing.T, cfg *batchtypes.ClientConfig) {
				assert.Equal(t, 8, cfg.Concurrency)
			},
		},
		{
			name:   "non-positive concurrency ignored",
			option: WithConcurrency(0),
			check: func(t *testing.T, cfg *batchtypes.ClientConfig) {
				assert.Zero(t, cfg.Concurrency)
			},
		},
		{
			name:   "force path style",
			option: WithForcePathStyle(true),
			check: func(t *testing.T, cfg *batchtypes.ClientConfig) {
				assert.True(t, cfg.ForcePathStyle)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &batchtypes.ClientConfig{}
			tt.option(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestTransferConcurrencyOption(t *testing.T) {
	cfg := &batchtypes.TransferOptionConfig{Concurrency: 2}

	WithTransferConcurrency(6)(cfg)
	assert.Equal(t, 6, cfg.Concurrency)

	WithTransferConcurrency(0)(cfg)
	assert.Equal(t, 6, cfg.Concurrency)
}
