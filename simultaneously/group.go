package simultaneously

import (
	"context"
	"sync"
)

// group tracks one batch of callbacks from launch to join.
type group struct {
	exec       Executor
	cancelOnce *sync.Once
	cancel     context.CancelFunc
	errorChan  chan error    // sized to the batch so done callbacks never block
	doneChan   chan struct{} // sized to the batch so done callbacks never block
	waitGroup  sync.WaitGroup
}

func newGroup(exec Executor, size int, cancelOnce *sync.Once, cancel context.CancelFunc) *group {
	return &group{
		exec:       exec,
		cancelOnce: cancelOnce,
		cancel:     cancel,
		errorChan:  make(chan error, size),
		doneChan:   make(chan struct{}, size),
	}
}

// launchAll hands every callback to the executor. The first failure cancels
// the shared context.
func (g *group) launchAll(ctx context.Context, callbacks []func(context.Context) error) {
	for _, fn := range callbacks {
		g.waitGroup.Add(1)
		g.exec.GoContext(ctx, fn, func(err error) {
			defer g.waitGroup.Done()

			if err != nil {
				g.cancelOnce.Do(g.cancel)

				g.errorChan <- err
			} else {
				g.doneChan <- struct{}{}
			}
		})
	}
}

// collectResults blocks until exactly count callbacks have reported.
func (g *group) collectResults(count int) []error {
	var errs []error

	for range count {
		select {
		case err := <-g.errorChan:
			errs = append(errs, err)
		case <-g.doneChan:
		}
	}

	return errs
}

// cleanup must only run after collectResults has drained the batch.
func (g *group) cleanup() {
	g.waitGroup.Wait()

	close(g.errorChan)
	close(g.doneChan)
}
