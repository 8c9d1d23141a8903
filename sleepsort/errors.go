package sleepsort

import "errors"

var (
	// ErrInvalidDuration means a value cannot be turned into a sleep: it is
	// negative, or multiplying it by the time unit overflows time.Duration.
	ErrInvalidDuration = errors.New("value is not a valid sleep duration")

	// ErrChannelClosed means a worker tried to report into a result channel
	// that had already been released.
	ErrChannelClosed = errors.New("result channel closed before worker reported")

	// ErrWorkerFailed means at least one worker terminated abnormally.
	ErrWorkerFailed = errors.New("delay worker failed")
)
