package sleepsort

import (
	"testing"
	"time"

	"github.com/amp-labs/eepsort/channels"
	"github.com/amp-labs/eepsort/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestWorker(clk clock, unit time.Duration) *worker {
	return &worker{
		unit:   unit,
		clock:  clk,
		tracer: noop.NewTracerProvider().Tracer("test"),
	}
}

func requirePanicErrorIs(t *testing.T, target error, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")

		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		require.ErrorIs(t, err, target)
	}()

	fn()
}

func TestWorker_SleepsOnceWhenOnTime(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	producer, output := channels.New[optional.Value[int64]](1)

	newTestWorker(clk, time.Microsecond).run(t.Context(), 250, producer)

	assert.Equal(t, []time.Duration{250 * time.Microsecond}, clk.Sleeps())
	assert.Equal(t, optional.Some(int64(250)), <-output)
}

func TestWorker_CompensatesForEarlyWakeup(t *testing.T) {
	t.Parallel()

	// The first sleep comes back 30µs short, the top-up another 10µs short.
	clk := newFakeClock(30*time.Microsecond, 10*time.Microsecond)
	producer, output := channels.New[optional.Value[int64]](1)

	newTestWorker(clk, time.Microsecond).run(t.Context(), 100, producer)

	assert.Equal(t, []time.Duration{
		100 * time.Microsecond,
		30 * time.Microsecond,
		10 * time.Microsecond,
	}, clk.Sleeps())
	assert.Equal(t, optional.Some(int64(100)), <-output)
}

func TestWorker_ZeroSendsImmediately(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	producer, output := channels.New[optional.Value[int64]](1)

	newTestWorker(clk, time.Second).run(t.Context(), 0, producer)

	assert.Equal(t, []time.Duration{0}, clk.Sleeps())
	assert.Equal(t, optional.Some(int64(0)), <-output)
}

func TestWorker_SendsExactlyOnce(t *testing.T) {
	t.Parallel()

	producer, output := channels.New[optional.Value[int64]](2)

	newTestWorker(newFakeClock(), time.Millisecond).run(t.Context(), 4, producer)
	require.NoError(t, producer.Close())

	var received []optional.Value[int64]
	for v := range output {
		received = append(received, v)
	}

	assert.Equal(t, []optional.Value[int64]{optional.Some(int64(4))}, received)
}

func TestWorker_NegativeValuePanics(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	producer, _ := channels.New[optional.Value[int64]](1)

	requirePanicErrorIs(t, ErrInvalidDuration, func() {
		newTestWorker(clk, time.Millisecond).run(t.Context(), -1, producer)
	})

	assert.Empty(t, clk.Sleeps(), "an invalid value must not sleep")
}

func TestWorker_ClosedHandlePanics(t *testing.T) {
	t.Parallel()

	producer, _ := channels.New[optional.Value[int64]](1)
	require.NoError(t, producer.Close())

	requirePanicErrorIs(t, ErrChannelClosed, func() {
		newTestWorker(newFakeClock(), time.Millisecond).run(t.Context(), 1, producer)
	})
}

func TestWorker_RealClockSleepsAtLeastTarget(t *testing.T) {
	t.Parallel()

	producer, output := channels.New[optional.Value[int64]](1)
	start := time.Now()

	newTestWorker(wallClock{}, time.Millisecond).run(t.Context(), 15, producer)

	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Equal(t, optional.Some(int64(15)), <-output)
}
