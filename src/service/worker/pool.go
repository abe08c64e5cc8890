// Package worker runs per-file tasks on a bounded pool of goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrNotStarted marks items that were never started because the context
// ended first.
var ErrNotStarted = errors.New("not started before deadline")

// Limit resolves a configured worker count; zero or less means one worker
// per CPU.
func Limit(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// Run calls task for every index in [0, n) with at most limit tasks in
// flight. A failing task does not stop the others. The returned slice holds
// each item's error (nil on success) at the item's index; a panicking task
// is reported as an error for its item. complete is false when the context
// ended before every item started.
func Run(ctx context.Context, n, limit int, task func(ctx context.Context, i int) error) (errs []error, complete bool) {
	errs = make([]error, n)
	if n == 0 {
		return errs, true
	}

	var g errgroup.Group
	g.SetLimit(Limit(limit))

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			for j := i; j < n; j++ {
				errs[j] = ErrNotStarted
			}
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				errs[i] = ErrNotStarted
				return nil
			}
			errs[i] = safeCall(ctx, i, task)
			return nil
		})
	}
	_ = g.Wait()

	complete = true
	for _, err := range errs {
		if errors.Is(err, ErrNotStarted) {
			complete = false
			break
		}
	}
	return errs, complete
}

func safeCall(ctx context.Context, i int, task func(ctx context.Context, i int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(ctx, i)
}
