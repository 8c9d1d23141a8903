package sleepsort

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/eepsort/channels"
	"github.com/amp-labs/eepsort/logger"
	"github.com/amp-labs/eepsort/optional"
	"github.com/amp-labs/eepsort/should"
	"github.com/amp-labs/eepsort/simultaneously"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Sort is SortCtx with a background context.
func Sort(values []int64, opts ...Option) ([]int64, error) {
	return SortCtx(context.Background(), values, opts...)
}

// MustSort is Sort for callers that treat any failure as fatal. It panics
// with the error Sort would have returned.
func MustSort(values []int64, opts ...Option) []int64 {
	sorted, err := Sort(values, opts...)
	if err != nil {
		panic(err)
	}

	return sorted
}

// SortCtx returns values in the order their delay workers woke up, which is
// ascending as long as the values are far enough apart for the timer.
// Duplicates are all kept; their relative order is unspecified.
//
// Every value is checked before any worker starts, so an invalid input
// returns ErrInvalidDuration without sleeping. A worker that fails after it
// started fails the whole sort with ErrWorkerFailed. Once started, workers
// run to completion: ctx carries logging and tracing, not cancellation.
func SortCtx(ctx context.Context, values []int64, opts ...Option) ([]int64, error) {
	cfg := newConfig(opts...)
	started := time.Now()

	ctx = logger.WithSortId(ctx, uuid.NewString())

	ctx, span := cfg.tracer().Start(ctx, "sleepsort.Sort",
		trace.WithAttributes(
			attribute.Int("sleepsort.count", len(values)),
			attribute.String("sleepsort.unit", cfg.unit.String()),
		))
	defer span.End()

	log := logger.Get(ctx)

	if err := validate(values, cfg.unit); err != nil {
		sortsTotal.WithLabelValues(outcomeInvalidInput).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")

		return nil, err
	}

	// One slot per value: workers never block on send, even though nobody
	// reads until every worker has been joined.
	root, results := channels.New[optional.Value[int64]](len(values))

	dw := &worker{
		unit:   cfg.unit,
		clock:  cfg.clock,
		tracer: cfg.tracer(),
	}

	callbacks := make([]func(context.Context) error, 0, len(values))

	for _, value := range values {
		// Clone here, not inside the goroutine, so the count of live
		// handles never drops to zero while workers are still pending.
		handle, err := root.Clone()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrChannelClosed, err)
		}

		callbacks = append(callbacks, func(ctx context.Context) error {
			defer should.Close(handle, "failed to release result handle")

			dw.run(ctx, value, handle)

			return nil
		})
	}

	// Give up the orchestrator's own handle. From here on the channel closes
	// as soon as the last worker closes its clone.
	should.Close(root, "failed to release result handle")

	log.Debug("spawning delay workers", "count", len(values), "unit", cfg.unit)

	if err := join(ctx, cfg, callbacks); err != nil {
		sortsTotal.WithLabelValues(outcomeWorkerFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "worker failed")

		return nil, fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	}

	sorted := Collect(results)

	sortsTotal.WithLabelValues(outcomeOK).Inc()
	log.Debug("sort complete", "count", len(sorted), "elapsed", time.Since(started))

	return sorted, nil
}

// join starts every callback at once and blocks until all of them returned.
func join(ctx context.Context, cfg *config, callbacks []func(context.Context) error) error {
	if cfg.pool != nil {
		return simultaneously.DoCtxWithExecutor(ctx, simultaneously.NewPondExecutor(cfg.pool), callbacks...)
	}

	return simultaneously.DoCtx(ctx, 0, callbacks...)
}
