// Package dispatch handles the parallel execution of transfer tasks.
// This includes managing concurrency limits and isolating per-task failures.
//
// A fixed pool of workers pulls tasks from a shared queue; each task yields
// exactly one result regardless of how its operation ends. One task's
// failure never aborts the batch or its sibling tasks.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/aws/batch/batchtypes"
)

// Operation executes the single-object transfer for one task. A non-nil
// return marks the task's result as failed; it is never propagated
// past the task boundary.
type Operation func(ctx context.Context, task batchtypes.Task) error

// Run executes one operation per task with at most concurrency operations
// in flight, blocking until every task has completed or failed.
//
// Every input task yields exactly one output result; results arrive in
// completion order, which is unspecified. A non-positive concurrency is
// clamped to 1 so a misconfigured caller still gets a serial batch
// instead of a rejected one.
func Run(
	ctx context.Context,
	tasks []batchtypes.Task,
	concurrency int,
	op Operation,
) []batchtypes.Result {
	if len(tasks) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	queue := make(chan batchtypes.Task)
	results := make(chan batchtypes.Result)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				results <- execute(ctx, task, op)
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, task := range tasks {
			queue <- task
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]batchtypes.Result, 0, len(tasks))
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}

// execute runs op for one task and converts its outcome into a Result.
// A panic inside op is contained here so it cannot take down the worker
// or lose the task's result.
func execute(ctx context.Context, task batchtypes.Task, op Operation) (res batchtypes.Result) {
	start := time.Now()
	res = batchtypes.Result{
		Container: task.Container,
		Key:       task.Key,
		LocalPath: task.LocalPath,
		Success:   true,
	}

	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Err = fmt.Errorf("task panicked: %v", r)
		}
		res.Duration = time.Since(start)
	}()

	if err := op(ctx, task); err != nil {
		res.Success = false
		res.Err = err
	}
	return res
}
