// Package batchtypes provides shared type definitions for the batch module.
package batchtypes

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// Task describes one object transfer: a single object within a container
// paired with the local file it is uploaded from or downloaded to.
// Tasks are immutable once created; exactly one Task exists per
// (container, key) pair within a batch.
type Task struct {
	// Container is the bucket holding the object
	Container string `json:"container"`

	// Key is the object key within the container
	Key string `json:"key"`

	// LocalPath is the local file associated with the object
	LocalPath string `json:"local_path"`
}

// Result records the outcome of executing one Task.
// Exactly one Result is produced per submitted Task; Err is non-nil
// if and only if Success is false.
type Result struct {
	// Container is copied from the originating task
	Container string `json:"container"`

	// Key is copied from the originating task
	Key string `json:"key"`

	// LocalPath is copied from the originating task
	LocalPath string `json:"local_path"`

	// Success reports whether the transfer completed
	Success bool `json:"success"`

	// Err is the captured failure, nil on success
	Err error `json:"-"`

	// Duration is how long the transfer took
	Duration time.Duration `json:"duration"`
}

// FailureDetail returns the captured failure message, or the empty
// string for a successful result.
func (r Result) FailureDetail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// MarshalJSON renders the captured error as a message string so that
// results stay serializable for logging and reporting consumers.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		alias
		FailureDetail string `json:"failure_detail,omitempty"`
	}{
		alias:         alias(r),
		FailureDetail: r.FailureDetail(),
	})
}

// Outcome is the aggregated, caller-visible result of one batch.
type Outcome struct {
	// Results holds one entry per enumerated task, in completion order
	Results []Result `json:"results"`

	// Duration is the wall-clock time of the whole batch
	Duration time.Duration `json:"duration"`
}

// Succeeded returns the number of successful transfers.
func (o *Outcome) Succeeded() int {
	n := 0
	for _, r := range o.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed transfers.
func (o *Outcome) Failed() int {
	return len(o.Results) - o.Succeeded()
}

// Failures returns the results of the failed transfers only.
func (o *Outcome) Failures() []Result {
	var failed []Result
	for _, r := range o.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// FirstErr returns the error of the first failed result, or nil when
// every transfer succeeded. Useful as a quick gate for callers that do
// not inspect individual results.
func (o *Outcome) FirstErr() error {
	for _, r := range o.Results {
		if !r.Success {
			return r.Err
		}
	}
	return nil
}

// Configuration types for functional options

// ClientConfig holds configuration for the batch client.
type ClientConfig struct {
	Region          string
	Endpoint        string
	MaxRetries      int
	Timeout         time.Duration
	Concurrency     int
	ForcePathStyle  bool
	CustomAWSConfig *aws.Config
	Filesystem      fs.Filesystem // Filesystem abstraction for file operations
}

// TransferOptionConfig holds per-batch configuration applied via
// functional options on UploadDirectory and DownloadDirectory.
type TransferOptionConfig struct {
	Concurrency int
}

// Option is a functional option for configuring the batch client.
type (
	Option func(*ClientConfig)
	// TransferOption is a functional option for configuring a single batch call.
	TransferOption func(*TransferOptionConfig)
)
