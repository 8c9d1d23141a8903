package sleepsort

import (
	"sync"
	"time"
)

// fakeClock advances only when slept on. Each entry in undershoot is how much
// shorter than requested the matching Sleep call turns out to be.
type fakeClock struct {
	mu         sync.Mutex
	now        time.Time
	undershoot []time.Duration
	sleeps     []time.Duration
}

func newFakeClock(undershoot ...time.Duration) *fakeClock {
	return &fakeClock{
		now:        time.Unix(1_700_000_000, 0),
		undershoot: undershoot,
	}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Since(t time.Time) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now.Sub(t)
}

func (f *fakeClock) Sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sleeps = append(f.sleeps, d)

	var short time.Duration
	if len(f.undershoot) > 0 {
		short = f.undershoot[0]
		f.undershoot = f.undershoot[1:]
	}

	f.now = f.now.Add(d - short)
}

func (f *fakeClock) Sleeps() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Duration(nil), f.sleeps...)
}
