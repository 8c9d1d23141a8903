package sleepsort

import "github.com/amp-labs/eepsort/optional"

// Collect drains in, keeping values in the order they arrive. It stops at
// the first end-of-input marker (None) or when the channel is closed,
// whichever comes first, and never returns nil.
func Collect(in <-chan optional.Value[int64]) []int64 {
	results := make([]int64, 0, cap(in))

	for item := range in {
		value, ok := item.Get()
		if !ok {
			break
		}

		results = append(results, value)
	}

	return results
}
