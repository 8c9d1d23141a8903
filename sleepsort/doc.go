// Package sleepsort orders non-negative integers by time instead of by
// comparison. Every value gets its own goroutine, which sleeps for the value
// multiplied by a time unit and then reports the value on a shared channel.
// Values that wake up first are collected first.
//
// The ordering is only as good as the timer: two values closer together than
// the scheduler's jitter (times the unit) can come out in either order, and
// the running time grows with the largest value. It is a concurrency exercise,
// not a general-purpose sort.
//
// Basic usage:
//
//	sorted, err := sleepsort.Sort([]int64{3, 1, 2})
//	if err != nil {
//	    return err
//	}
//	// sorted == []int64{1, 2, 3}, after roughly 3ms
//
// The fan-out and fan-in work as follows:
//
//  1. Every value is validated before anything is spawned.
//  2. A result channel is created with one buffer slot per value. The
//     orchestrator clones one producer handle per worker and then closes its
//     own handle, so the channel closes exactly when the last worker is done.
//  3. All workers are joined. A worker that panics fails the whole sort.
//  4. The collector drains the channel until it is closed or until it sees
//     the end-of-input marker (optional.None).
package sleepsort
