package pool

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// expiryManager is the expiring variant's single shared scheduler: one
// ttlcache instance per pool, keyed by each item's monotonic identity
// rather than its value, running one daemon janitor goroutine shared by
// every item's eviction task — the same mechanism the teacher's
// WorkerPoolManager used to age out whole worker pools, applied here at
// the grain of a single idle item.
//
// ttlcache v3 permits calling the cache's own methods from inside its
// OnEviction callback, so onExpire below can safely Delete the very key
// whose eviction triggered it (via item.consume -> cancel) without
// risking a re-entrant deadlock.
type expiryManager[A any] struct {
	pool  *Pool[A]
	cache *ttlcache.Cache[uint64, item[A]]
}

func newExpiryManager[A any](p *Pool[A], maxIdleTime time.Duration) *expiryManager[A] {
	cache := ttlcache.New(
		ttlcache.WithTTL[uint64, item[A]](maxIdleTime),
	)

	m := &expiryManager[A]{pool: p, cache: cache}
	cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, it *ttlcache.Item[uint64, item[A]]) {
		if reason != ttlcache.EvictionReasonExpired {
			return
		}
		m.onExpire(it.Key(), it.Value())
	})
	go cache.Start()

	return m
}

// schedule registers an eviction task for it, keyed by its identity so
// that a later, different item wrapping the same recycled value is never
// mistaken for this one.
func (m *expiryManager[A]) schedule(id uint64, it item[A]) {
	m.cache.Set(id, it, ttlcache.DefaultTTL)
}

// cancel removes the scheduled eviction task for id. Called whenever the
// item it names is consumed via any path (taken by a caller, drained, or
// evicted). Deleting an already-absent key is a silent no-op, which is
// what lets an eviction task and a concurrent take race safely.
func (m *expiryManager[A]) cancel(id uint64) {
	m.cache.Delete(id)
}

// onExpire runs when an item's idle timer lapses. It attempts to remove
// that exact item identity from the pool's idle queue; if a consumer
// already took it (or drain/close already cleared it), the removal fails
// and onExpire is a benign no-op rather than destroying a value a caller
// now holds.
func (m *expiryManager[A]) onExpire(id uint64, it item[A]) {
	if !m.pool.items.Remove(it) {
		return
	}
	it.destroy()
	if m.pool.cfg.metrics != nil {
		m.pool.cfg.metrics.recordEvicted()
		m.pool.cfg.metrics.observe(m.pool.Stats())
	}
	m.pool.cfg.logger.Debug().Uint64("item_id", id).Msg("genpool: item evicted after idle timeout")
}

// stop tears down the scheduler by stopping the cache's janitor goroutine,
// so no remaining entry expires afterwards. It does not delete entries
// itself; Close drains the queue first, and each drained item's destroy
// already cancelled its own eviction task.
func (m *expiryManager[A]) stop() {
	m.cache.Stop()
}
