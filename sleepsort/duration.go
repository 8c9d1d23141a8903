package sleepsort

import (
	"fmt"
	"math"
	"time"
)

// DefaultUnit is how long one step of an input value sleeps unless WithUnit
// says otherwise.
const DefaultUnit = time.Millisecond

// ToDuration converts a value into the sleep it stands for. A non-positive
// unit falls back to DefaultUnit.
func ToDuration(value int64, unit time.Duration) (time.Duration, error) {
	if unit <= 0 {
		unit = DefaultUnit
	}

	if value < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidDuration, value)
	}

	if time.Duration(value) > time.Duration(math.MaxInt64)/unit {
		return 0, fmt.Errorf("%w: %d × %s overflows", ErrInvalidDuration, value, unit)
	}

	return time.Duration(value) * unit, nil
}

func validate(values []int64, unit time.Duration) error {
	for i, value := range values {
		if _, err := ToDuration(value, unit); err != nil {
			return fmt.Errorf("value at index %d: %w", i, err)
		}
	}

	return nil
}
