package simultaneously

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultExecutor(t *testing.T) {
	t.Parallel()

	exec := newDefaultExecutor(5)
	defer exec.Close()

	assert.Equal(t, 5, exec.maxConcurrent)
	assert.Equal(t, 5, cap(exec.sem))
	assert.False(t, exec.closed.Load())
}

func TestNewDefaultExecutor_Unbounded(t *testing.T) {
	t.Parallel()

	exec := newDefaultExecutor(0)
	defer exec.Close()

	assert.Nil(t, exec.sem)
}

func TestDefaultExecutor_Go(t *testing.T) {
	t.Parallel()

	exec := NewDefaultExecutor(2)
	defer exec.Close()

	var executed atomic.Bool

	done := make(chan error, 1)

	exec.Go(func(ctx context.Context) error {
		executed.Store(true)

		return nil
	}, func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, executed.Load())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for callback")
	}
}

func TestDefaultExecutor_CloseTwice(t *testing.T) {
	t.Parallel()

	exec := newDefaultExecutor(1)

	require.NoError(t, exec.Close())
	require.NoError(t, exec.Close())
	assert.True(t, exec.closed.Load())
}

func TestPondExecutor_RunsCallbacks(t *testing.T) {
	t.Parallel()

	pool := pond.NewPool(4)
	defer pool.StopAndWait()

	var counter atomic.Int32

	increment := func(ctx context.Context) error {
		counter.Add(1)

		return nil
	}

	err := DoCtxWithExecutor(t.Context(), NewPondExecutor(pool), increment, increment, increment)

	require.NoError(t, err)
	assert.Equal(t, int32(3), counter.Load())
}

func TestPondExecutor_RecoversPanic(t *testing.T) {
	t.Parallel()

	pool := pond.NewPool(2)
	defer pool.StopAndWait()

	err := DoCtxWithExecutor(t.Context(), NewPondExecutor(pool),
		func(ctx context.Context) error {
			panic(errTestPanic)
		},
	)

	require.ErrorIs(t, err, ErrPanicRecovered)
	require.ErrorIs(t, err, errTestPanic)
}

func TestDefaultExecutor_SlotsFreeOnceJoined(t *testing.T) {
	t.Parallel()

	exec := newDefaultExecutor(2)
	defer exec.Close()

	noop := func(ctx context.Context) error { return nil }
	failing := func(ctx context.Context) error { return errTest }

	err := DoCtxWithExecutor(t.Context(), exec, noop, failing, noop, noop, failing)
	require.ErrorIs(t, err, errTest)

	assert.Len(t, exec.sem, 2)
}

func TestDefaultExecutor_ClosedReportsError(t *testing.T) {
	t.Parallel()

	exec := NewDefaultExecutor(1)
	require.NoError(t, exec.Close())

	var ran atomic.Bool

	done := make(chan error, 1)

	exec.Go(func(ctx context.Context) error {
		ran.Store(true)

		return nil
	}, func(err error) {
		done <- err
	})

	require.ErrorIs(t, <-done, ErrExecutorClosed)
	assert.False(t, ran.Load())
}

func TestDoCtx_BoundedBatchesBackToBack(t *testing.T) {
	t.Parallel()

	for range 200 {
		err := DoCtx(t.Context(), 3,
			func(ctx context.Context) error { return nil },
			func(ctx context.Context) error { panic(errTestPanic) },
			func(ctx context.Context) error { return errTest },
			func(ctx context.Context) error { return nil },
		)

		require.Error(t, err)
	}
}
