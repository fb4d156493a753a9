// Package dispatch provides tests for the dispatch package.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
)

func makeTasks(n int) []batchtypes.Task {
	tasks := make([]batchtypes.Task, n)
	for i := range tasks {
		tasks[i] = batchtypes.Task{
			Container: "test-bucket",
			Key:       fmt.Sprintf("object-%03d", i),
			LocalPath: fmt.Sprintf("/tmp/object-%03d", i),
		}
	}
	return tasks
}

// resultsByKey indexes results by key and fails the test on duplicates.
func resultsByKey(t *testing.T, results []batchtypes.Result) map[string]batchtypes.Result {
	t.Helper()
	byKey := make(map[string]batchtypes.Result, len(results))
	for _, r := range results {
		if _, dup := byKey[r.Key]; dup {
			t.Fatalf("duplicate result for key %s", r.Key)
		}
		byKey[r.Key] = r
	}
	return byKey
}

func TestRunOneResultPerTask(t *testing.T) {
	const taskCount = 25

	for _, concurrency := range []int{1, 2, 7, taskCount} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			tasks := makeTasks(taskCount)

			results := Run(context.Background(), tasks, concurrency,
				func(ctx context.Context, task batchtypes.Task) error {
					return nil
				})

			if len(results) != taskCount {
				t.Fatalf("expected %d results, got %d", taskCount, len(results))
			}
			byKey := resultsByKey(t, results)
			for _, task := range tasks {
				r, ok := byKey[task.Key]
				if !ok {
					t.Fatalf("missing result for key %s", task.Key)
				}
				if !r.Success {
					t.Errorf("expected success for %s, got failure: %v", task.Key, r.Err)
				}
				if r.Container != task.Container || r.LocalPath != task.LocalPath {
					t.Errorf("result for %s lost task fields: %+v", task.Key, r)
				}
			}
		})
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	tasks := makeTasks(10)
	failing := map[string]bool{
		"object-002": true,
		"object-005": true,
		"object-009": true,
	}

	results := Run(context.Background(), tasks, 3,
		func(ctx context.Context, task batchtypes.Task) error {
			if failing[task.Key] {
				return errors.New("simulated transfer failure")
			}
			return nil
		})

	if len(results) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(results))
	}
	for key, r := range resultsByKey(t, results) {
		if failing[key] {
			if r.Success {
				t.Errorf("expected failure for %s", key)
			}
			if r.FailureDetail() == "" {
				t.Errorf("expected failure detail for %s", key)
			}
		} else {
			if !r.Success {
				t.Errorf("expected success for %s, got: %v", key, r.Err)
			}
			if r.Err != nil {
				t.Errorf("successful result for %s carries error: %v", key, r.Err)
			}
		}
	}
}

func TestRunEmptyInput(t *testing.T) {
	results := Run(context.Background(), nil, 4,
		func(ctx context.Context, task batchtypes.Task) error {
			t.Fatal("operation must not run for empty input")
			return nil
		})

	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRunClampsConcurrency(t *testing.T) {
	for _, concurrency := range []int{0, -3} {
		tasks := makeTasks(5)

		results := Run(context.Background(), tasks, concurrency,
			func(ctx context.Context, task batchtypes.Task) error {
				return nil
			})

		if len(results) != len(tasks) {
			t.Fatalf("concurrency %d: expected %d results, got %d",
				concurrency, len(tasks), len(results))
		}
	}
}

func TestRunContainsPanics(t *testing.T) {
	tasks := makeTasks(6)

	results := Run(context.Background(), tasks, 2,
		func(ctx context.Context, task batchtypes.Task) error {
			if task.Key == "object-003" {
				panic("boom")
			}
			return nil
		})

	if len(results) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(results))
	}
	r := resultsByKey(t, results)["object-003"]
	if r.Success {
		t.Fatal("expected panicking task to fail")
	}
	if r.FailureDetail() == "" {
		t.Fatal("expected failure detail for panicking task")
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	const limit = 3
	tasks := makeTasks(20)

	var inFlight, maxInFlight int64
	results := Run(context.Background(), tasks, limit,
		func(ctx context.Context, task batchtypes.Task) error {
			current := atomic.AddInt64(&inFlight, 1)
			for {
				observed := atomic.LoadInt64(&maxInFlight)
				if current <= observed || atomic.CompareAndSwapInt64(&maxInFlight, observed, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return nil
		})

	if len(results) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(results))
	}
	if observed := atomic.LoadInt64(&maxInFlight); observed > limit {
		t.Fatalf("observed %d operations in flight, limit is %d", observed, limit)
	}
}

func TestRunStampsDurations(t *testing.T) {
	results := Run(context.Background(), makeTasks(3), 3,
		func(ctx context.Context, task batchtypes.Task) error {
			time.Sleep(time.Millisecond)
			return nil
		})

	for _, r := range results {
		if r.Duration <= 0 {
			t.Errorf("expected positive duration for %s, got %v", r.Key, r.Duration)
		}
	}
}
