package pool

import "go.uber.org/atomic"

// liveCounter tracks the number of objects currently in existence for a
// Pool: queued plus leased. tryReserve is the single admission point
// under capacity; it is implemented as fetch-and-increment followed by a
// fetch-and-decrement compensation on overflow rather than a compare-
// and-swap loop, trading a transient, thread-local over-count for never
// retrying under contention.
type liveCounter struct {
	count    atomic.Int64
	capacity int64
}

func newLiveCounter(capacity int) *liveCounter {
	return &liveCounter{capacity: int64(capacity)}
}

// tryReserve admits one more live object if capacity allows, returning
// false (and leaving the count unchanged) otherwise.
func (c *liveCounter) tryReserve() bool {
	if c.count.Add(1) <= c.capacity {
		return true
	}
	c.count.Add(-1)
	return false
}

// release decrements the live count. Callers must pair every release
// with a prior successful tryReserve (directly, or via the reservation
// implicit in reusing an already-live queued Item).
func (c *liveCounter) release() {
	c.count.Add(-1)
}

func (c *liveCounter) snapshot() int {
	return int(c.count.Load())
}
