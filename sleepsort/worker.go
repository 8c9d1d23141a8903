package sleepsort

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/eepsort/channels"
	"github.com/amp-labs/eepsort/logger"
	"github.com/amp-labs/eepsort/optional"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// worker is the delay worker shared by every goroutine of one sort. It holds
// no per-value state.
type worker struct {
	unit   time.Duration
	clock  clock
	tracer trace.Tracer
}

// run sleeps for value units and then reports value on out, exactly once.
// An invalid value or a closed out handle panics: both mean the caller broke
// the protocol, and the join turns the panic into ErrWorkerFailed.
func (w *worker) run(ctx context.Context, value int64, out *channels.Producer[optional.Value[int64]]) {
	start := w.clock.Now()

	target, err := ToDuration(value, w.unit)
	if err != nil {
		panic(err)
	}

	workersStarted.Inc()

	ctx, span := w.tracer.Start(ctx, "sleepsort.worker",
		trace.WithAttributes(
			attribute.Int64("sleepsort.value", value),
			attribute.Int64("sleepsort.target_ns", target.Nanoseconds()),
		))
	defer span.End()

	w.clock.Sleep(target)

	// Sleep guarantees "at least" on most platforms but not all of them.
	// Keep topping up until the full target has really passed.
	elapsed := w.clock.Since(start)

	compensations := 0
	for elapsed < target {
		w.clock.Sleep(target - elapsed)
		compensations++
		elapsed = w.clock.Since(start)
	}

	compensationsTotal.Add(float64(compensations))
	oversleepSeconds.Observe((elapsed - target).Seconds())

	span.SetAttributes(
		attribute.Int64("sleepsort.elapsed_ns", elapsed.Nanoseconds()),
		attribute.Int("sleepsort.compensations", compensations),
	)

	logger.Get(ctx).Debug("delay worker woke up",
		"value", value,
		"target", target,
		"elapsed", elapsed,
		"compensations", compensations)

	if err := out.Send(optional.Some(value)); err != nil {
		panic(fmt.Errorf("%w: value %d: %w", ErrChannelClosed, value, err))
	}
}
