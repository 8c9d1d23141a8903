package sleepsort

import (
	"time"

	"github.com/alitto/pond/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/amp-labs/eepsort/sleepsort"

// Option configures a single sort.
type Option func(*config)

type config struct {
	unit           time.Duration
	pool           pond.Pool
	tracerProvider trace.TracerProvider
	clock          clock
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		unit:  DefaultUnit,
		clock: wallClock{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

func (c *config) tracer() trace.Tracer { //nolint:ireturn
	if c.tracerProvider != nil {
		return c.tracerProvider.Tracer(tracerName)
	}

	return otel.Tracer(tracerName)
}

// WithUnit sets how long one step of a value sleeps. Non-positive units are
// ignored. Larger units make the ordering more reliable and the sort slower.
func WithUnit(unit time.Duration) Option {
	return func(c *config) {
		if unit > 0 {
			c.unit = unit
		}
	}
}

// WithPool runs the delay workers on a caller-owned pond pool instead of
// plain goroutines. The pool must be able to run every value of the input at
// the same time; a queued worker starts its sleep late and lands out of order.
func WithPool(pool pond.Pool) Option {
	return func(c *config) {
		c.pool = pool
	}
}

// WithTracerProvider sets where spans go. Without it the global provider is used.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = provider
	}
}

func withClock(clk clock) Option {
	return func(c *config) {
		c.clock = clk
	}
}
