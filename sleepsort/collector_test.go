package sleepsort

import (
	"testing"
	"time"

	"github.com/amp-labs/eepsort/optional"
	"github.com/stretchr/testify/assert"
)

func TestCollect_StopsWhenChannelCloses(t *testing.T) {
	t.Parallel()

	in := make(chan optional.Value[int64], 3)
	in <- optional.Some(int64(3))
	in <- optional.Some(int64(1))
	in <- optional.Some(int64(2))
	close(in)

	assert.Equal(t, []int64{3, 1, 2}, Collect(in))
}

func TestCollect_StopsAtEndOfInputMarker(t *testing.T) {
	t.Parallel()

	in := make(chan optional.Value[int64], 4)
	in <- optional.Some(int64(1))
	in <- optional.Some(int64(2))
	in <- optional.None[int64]()
	in <- optional.Some(int64(3))

	// The channel is never closed: the marker alone must end collection.
	done := make(chan []int64, 1)
	go func() {
		done <- Collect(in)
	}()

	select {
	case got := <-done:
		assert.Equal(t, []int64{1, 2}, got)
	case <-time.After(time.Second):
		t.Fatal("collector did not stop at the end-of-input marker")
	}
}

func TestCollect_KeepsZero(t *testing.T) {
	t.Parallel()

	in := make(chan optional.Value[int64], 2)
	in <- optional.Some(int64(0))
	in <- optional.Some(int64(0))
	close(in)

	assert.Equal(t, []int64{0, 0}, Collect(in))
}

func TestCollect_EmptyClosedChannel(t *testing.T) {
	t.Parallel()

	in := make(chan optional.Value[int64])
	close(in)

	got := Collect(in)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
