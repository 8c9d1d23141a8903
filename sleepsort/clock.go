package sleepsort

import "time"

type clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

func (wallClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (wallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
