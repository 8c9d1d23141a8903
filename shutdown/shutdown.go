// Package shutdown ties process termination to a context. The eepsort binary
// flushes telemetry through hooks registered here, whether it stops because a
// signal arrived or because logger.Fatal asked it to.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mut     sync.Mutex     //nolint:gochecknoglobals
	hooks   []func()       //nolint:gochecknoglobals
	channel chan os.Signal //nolint:gochecknoglobals
)

// BeforeShutdown registers a hook that runs before the shutdown context is
// canceled. Hooks run in registration order, at most once.
func BeforeShutdown(h func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, h)
}

// Shutdown starts the shutdown programmatically. Without SetupHandler it
// only runs the hooks.
func Shutdown() {
	mut.Lock()
	ch := channel
	mut.Unlock()

	if ch == nil {
		cleanup()

		return
	}

	select {
	case ch <- os.Interrupt:
	default:
		// A shutdown is already pending.
	}
}

// SetupHandler listens for SIGINT and SIGTERM and returns a context that is
// canceled, after the hooks ran, once either arrives.
func SetupHandler() context.Context {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	mut.Lock()
	channel = ch
	mut.Unlock()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sig := <-ch

		signal.Stop(ch)

		mut.Lock()
		channel = nil
		mut.Unlock()

		slog.Warn("Received " + sig.String() + ", shutting down...")

		cleanup()
		cancel()
	}()

	return ctx
}

func cleanup() {
	mut.Lock()
	pending := hooks
	hooks = nil
	mut.Unlock()

	for _, h := range pending {
		h()
	}
}
