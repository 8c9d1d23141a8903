// Package simultaneously runs a batch of callbacks in parallel and waits for
// every one of them to finish. Panics inside callbacks are recovered and
// reported as errors, so one misbehaving callback cannot take the process
// down before the join completes.
package simultaneously

import (
	"context"
	"errors"
	"sync"
)

// ErrPanicRecovered is the base error for panic recovery.
var ErrPanicRecovered = errors.New("recovered from panic")

// Do runs the given functions in parallel and returns the errors encountered.
// See DoCtx for more information.
func Do(maxConcurrent int, f ...func(ctx context.Context) error) error {
	return DoCtx(context.Background(), maxConcurrent, f...)
}

// DoCtx runs the given functions in parallel and waits for all of them.
// If no error is encountered, it returns nil. On the first error the shared
// context is canceled; callbacks that have not started yet are skipped and
// report the context error instead. Callbacks that are already running are
// expected to check the context themselves if they care.
//
// If maxConcurrent is less than 1, every function gets its own goroutine
// immediately and nothing is queued.
func DoCtx(ctx context.Context, maxConcurrent int, callback ...func(ctx context.Context) error) error {
	exec := newDefaultExecutor(maxConcurrent)
	defer exec.Close()

	return DoCtxWithExecutor(ctx, exec, callback...)
}

// DoCtxWithExecutor is DoCtx with the scheduling delegated to exec.
// The executor is not closed; its lifecycle belongs to the caller.
func DoCtxWithExecutor(ctx context.Context, exec Executor, callback ...func(ctx context.Context) error) error {
	if len(callback) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)

	var cancelOnce sync.Once
	defer cancelOnce.Do(cancel)

	grp := newGroup(exec, len(callback), &cancelOnce, cancel)

	grp.launchAll(ctx, callback)
	errs := grp.collectResults(len(callback))
	grp.cleanup()

	return combineErrors(errs)
}

// combineErrors returns a single error from a slice of errors.
func combineErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
