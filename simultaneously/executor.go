package simultaneously

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/alitto/pond/v2"
	"go.uber.org/atomic"
)

// ErrExecutorClosed is reported to done for callbacks given to a closed executor.
var ErrExecutorClosed = errors.New("executor is closed")

// Executor schedules callbacks. done is called exactly once per callback with
// the callback's result (or the reason it never ran).
type Executor interface {
	GoContext(ctx context.Context, fn func(context.Context) error, done func(error))
	Go(fn func(context.Context) error, done func(error))
	Close() error
}

type defaultExecutor struct {
	maxConcurrent int
	sem           chan struct{} // nil when unbounded
	closed        *atomic.Bool
}

// NewDefaultExecutor returns an executor that runs each callback on its own
// goroutine. With maxConcurrent >= 1 at most that many run at a time and
// GoContext blocks until a slot frees up; below 1 there is no limit.
func NewDefaultExecutor(maxConcurrent int) Executor { //nolint:ireturn
	return newDefaultExecutor(maxConcurrent)
}

func newDefaultExecutor(maxConcurrent int) *defaultExecutor {
	exec := &defaultExecutor{
		maxConcurrent: maxConcurrent,
		closed:        atomic.NewBool(false),
	}

	if maxConcurrent >= 1 {
		exec.sem = make(chan struct{}, maxConcurrent)

		for range maxConcurrent {
			exec.sem <- struct{}{}
		}
	}

	return exec
}

func (d *defaultExecutor) Go(fn func(context.Context) error, done func(error)) {
	d.GoContext(context.Background(), fn, done)
}

func (d *defaultExecutor) GoContext(ctx context.Context, callback func(context.Context) error, done func(error)) {
	if d.closed.Load() {
		done(ErrExecutorClosed)

		return
	}

	if d.sem == nil {
		go func() {
			done(executeCallback(ctx, callback))
		}()

		return
	}

	select {
	case <-ctx.Done():
		done(ctx.Err())

		return
	case <-d.sem:
	}

	go func() {
		err := executeCallback(ctx, callback)

		// Return the slot before done so a joined batch leaves every slot free.
		d.sem <- struct{}{}

		done(err)
	}()
}

// Close stops the executor from accepting new callbacks. Callbacks already
// handed over still run to completion.
func (d *defaultExecutor) Close() error {
	d.closed.Store(true)

	return nil
}

type pondExecutor struct {
	pool pond.Pool
}

// NewPondExecutor returns an executor backed by a pond worker pool. The pool
// is owned by the caller: Close on the executor leaves it running.
func NewPondExecutor(pool pond.Pool) Executor { //nolint:ireturn
	return &pondExecutor{pool: pool}
}

func (p *pondExecutor) Go(fn func(context.Context) error, done func(error)) {
	p.GoContext(context.Background(), fn, done)
}

func (p *pondExecutor) GoContext(ctx context.Context, callback func(context.Context) error, done func(error)) {
	task := p.pool.SubmitErr(func() error {
		return executeCallback(ctx, callback)
	})

	// Wait also reports tasks the pool refused, e.g. after StopAndWait.
	go func() {
		done(task.Wait())
	}()
}

func (p *pondExecutor) Close() error {
	return nil
}

// executeCallback runs fn unless ctx is already finished, converting a panic
// into an error.
//
//nolint:contextcheck
func executeCallback(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	defer recoverPanic(&err)

	err = fn(ctx)

	return
}

func recoverPanic(err *error) {
	r := recover()
	if r == nil {
		return
	}

	var panicErr error
	if e, ok := r.(error); ok {
		panicErr = fmt.Errorf("%w: %w\n%s", ErrPanicRecovered, e, debug.Stack())
	} else {
		panicErr = fmt.Errorf("%w: %v\n%s", ErrPanicRecovered, r, debug.Stack())
	}

	if *err != nil {
		*err = combineErrors([]error{panicErr, *err})
	} else {
		*err = panicErr
	}
}
