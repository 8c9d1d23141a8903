// Package channels provides a multi-producer channel whose producer side can be
// cloned. Each clone is an independent handle; the underlying channel is closed
// once every handle has been closed, so the consumer sees end-of-input only
// after the last producer is done.
package channels

import (
	"errors"

	"go.uber.org/atomic"
)

// ErrProducerClosed is returned when a closed handle is used to send or clone.
var ErrProducerClosed = errors.New("producer handle is closed")

// shared is the state common to every handle of one channel.
type shared[T any] struct {
	ch   chan T
	live *atomic.Int64
}

// Producer is one sending handle of a reference-counted channel.
// A single handle must not be used from multiple goroutines at once;
// call Clone to give each goroutine its own.
type Producer[T any] struct {
	shared *shared[T]
	closed *atomic.Bool
}

// New creates a channel with the given buffer size and returns its first
// producer handle along with the receive side. A size below zero is treated
// as zero (unbuffered).
func New[T any](size int) (*Producer[T], <-chan T) {
	if size < 0 {
		size = 0
	}

	s := &shared[T]{
		ch:   make(chan T, size),
		live: atomic.NewInt64(1),
	}

	return &Producer[T]{
		shared: s,
		closed: atomic.NewBool(false),
	}, s.ch
}

// Clone returns a new handle to the same channel. The channel stays open
// until the clone is closed as well.
func (p *Producer[T]) Clone() (*Producer[T], error) {
	if p.closed.Load() {
		return nil, ErrProducerClosed
	}

	p.shared.live.Inc()

	return &Producer[T]{
		shared: p.shared,
		closed: atomic.NewBool(false),
	}, nil
}

// Send delivers v on the channel, blocking while the buffer is full.
func (p *Producer[T]) Send(v T) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	p.shared.ch <- v

	return nil
}

// Close releases this handle. When the last live handle is released the
// underlying channel is closed. Calling Close more than once is a no-op.
func (p *Producer[T]) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	if p.shared.live.Dec() == 0 {
		close(p.shared.ch)
	}

	return nil
}

// Live reports how many handles of this channel are still open.
func (p *Producer[T]) Live() int64 {
	return p.shared.live.Load()
}
