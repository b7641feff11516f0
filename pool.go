// Package pool implements a generic, thread-safe object pool: clients
// acquire a Lease granting exclusive use of one pooled object, then
// release it for reuse or invalidate it for destruction. The pool
// amortizes construction cost by reusing a bounded population of live
// instances, creating new ones lazily up to capacity.
package pool

import (
	"sync"
	"time"

	"github.com/martopia/genpool/internal/queue"
	"github.com/martopia/genpool/internal/refcell"
	"go.uber.org/atomic"
)

// Pool manages a bounded population of live instances of A, handed out
// one at a time via Lease.
type Pool[A any] struct {
	capacity int
	factory  Factory[A]
	cfg      config[A]

	items  *queue.Queue[item[A]]
	live   *liveCounter
	closed atomic.Bool

	closeOnce sync.Once
	nextID    atomic.Uint64

	expiry *expiryManager[A] // nil selects the simple (non-expiring) variant
}

// unwrapOnce attempts to pull a usable value out of a polled Item. If the
// Item is no longer viable (its reference was reclaimed, or it failed the
// health check), its slot is released via destroy and the caller is told
// to try again rather than being handed a dead value.
func (p *Pool[A]) unwrapOnce(it item[A]) (A, bool) {
	if it.isViable() {
		return it.take(), true
	}
	it.destroy()
	var zero A
	return zero, false
}

// newItem wraps v in the Item variant appropriate for this pool: a plain
// item for the simple variant, or an identity-bearing expiringItem that
// schedules its own idle-eviction task once inserted.
func (p *Pool[A]) newItem(v A) item[A] {
	if p.expiry != nil {
		return newExpiringItem(p, v)
	}
	return newPlainItem(p, v)
}

func (p *Pool[A]) nextItemID() uint64 {
	return p.nextID.Inc()
}

// disposeCell disposes the value behind cell, if the runtime has not
// already reclaimed it, and releases the corresponding live-counter
// reservation. Used by an Item's destroy.
func (p *Pool[A]) disposeCell(cell refcell.Cell[A]) {
	v, ok := cell.Get()
	if ok {
		p.cfg.dispose(v)
	} else if p.cfg.metrics != nil {
		p.cfg.metrics.recordReclaimed()
	}
	p.live.release()
	if p.cfg.metrics != nil {
		p.cfg.metrics.recordDisposed()
		p.cfg.metrics.observe(p.Stats())
	}
	p.cfg.logger.Debug().Bool("reclaimed", !ok).Msg("genpool: item destroyed")
}

// destroyValue disposes v directly and releases its live-counter
// reservation. Used when a value is no longer wrapped in an Item — the
// Lease.Invalidate path, and the closed-pool branch of release.
func (p *Pool[A]) destroyValue(v A) {
	p.cfg.dispose(v)
	p.live.release()
	if p.cfg.metrics != nil {
		p.cfg.metrics.recordDisposed()
		p.cfg.metrics.observe(p.Stats())
	}
	p.cfg.logger.Debug().Msg("genpool: value disposed")
}

// returnValue implements Lease.Release's routing: reset and re-queue the
// value if the pool is open and has room, otherwise destroy it.
func (p *Pool[A]) returnValue(v A) {
	if p.closed.Load() {
		p.destroyValue(v)
		return
	}
	p.cfg.reset(v)
	it := p.newItem(v)
	if !p.items.Offer(it) {
		// Queue-full race: someone else filled the last slot between
		// our check of capacity and this insert. Destroy rather than
		// leak the reservation.
		p.destroyValue(v)
		return
	}
	it.onInserted()
	if p.cfg.metrics != nil {
		p.cfg.metrics.observe(p.Stats())
	}
}

func (p *Pool[A]) recordCreated() {
	if p.cfg.metrics != nil {
		p.cfg.metrics.recordCreated()
		p.cfg.metrics.observe(p.Stats())
	}
	p.cfg.logger.Debug().Msg("genpool: value created")
}

// Acquire returns a Lease, blocking indefinitely (but never past pool
// capacity) if no object is immediately available.
func (p *Pool[A]) Acquire() (*Lease[A], error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	if it, ok := p.items.Poll(); ok {
		if v, ok := p.unwrapOnce(it); ok {
			return newLease(p, v), nil
		}
		return p.Acquire()
	}

	if p.live.tryReserve() {
		v, err := p.factory()
		if err != nil {
			p.live.release()
			return nil, err
		}
		p.recordCreated()
		return newLease(p, v), nil
	}

	it := p.items.Take()
	if v, ok := p.unwrapOnce(it); ok {
		return newLease(p, v), nil
	}
	// The single blocking take produced a stale Item; restart the whole
	// algorithm rather than retrying the blocking wait directly, so a
	// now-freed capacity slot gets a chance via tryReserve first.
	return p.Acquire()
}

// TryAcquire returns a Lease without blocking, or (nil, nil) if doing so
// would require waiting.
func (p *Pool[A]) TryAcquire() (*Lease[A], error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	for {
		it, ok := p.items.Poll()
		if !ok {
			break
		}
		if v, ok := p.unwrapOnce(it); ok {
			return newLease(p, v), nil
		}
	}

	if p.live.tryReserve() {
		v, err := p.factory()
		if err != nil {
			p.live.release()
			return nil, err
		}
		p.recordCreated()
		return newLease(p, v), nil
	}

	return nil, nil
}

// TryAcquireWithin returns a Lease, blocking up to d if nothing is
// immediately available, or (nil, nil) if d elapses first. The duration
// bound applies only to the blocking wait, not to the non-blocking fast
// path that precedes it.
func (p *Pool[A]) TryAcquireWithin(d time.Duration) (*Lease[A], error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	for {
		it, ok := p.items.Poll()
		if !ok {
			break
		}
		if v, ok := p.unwrapOnce(it); ok {
			return newLease(p, v), nil
		}
	}

	if p.live.tryReserve() {
		v, err := p.factory()
		if err != nil {
			p.live.release()
			return nil, err
		}
		p.recordCreated()
		return newLease(p, v), nil
	}

	it, ok := p.items.PollWithin(d)
	if !ok {
		return nil, nil
	}
	if v, ok := p.unwrapOnce(it); ok {
		return newLease(p, v), nil
	}
	// One failed unwrap consumes the whole timeout budget; the timed
	// path never retries the blocking wait.
	return nil, nil
}

// Fill tops the pool up to capacity, constructing and idle-queuing
// objects until live reaches capacity or the factory errors.
func (p *Pool[A]) Fill() error {
	for {
		if p.closed.Load() {
			return ErrPoolClosed
		}
		if !p.live.tryReserve() {
			return nil
		}
		v, err := p.factory()
		if err != nil {
			p.live.release()
			return err
		}
		p.recordCreated()
		p.cfg.reset(v)
		it := p.newItem(v)
		if !p.items.Offer(it) {
			// Queue-full race with a concurrent release; destroy and
			// keep going, preserving the live/size relation.
			p.destroyValue(v)
			continue
		}
		it.onInserted()
		if p.cfg.metrics != nil {
			p.cfg.metrics.observe(p.Stats())
		}
	}
}

// Drain destroys every currently idle object, leaving leased objects
// untouched.
func (p *Pool[A]) Drain() {
	for {
		it, ok := p.items.Poll()
		if !ok {
			return
		}
		it.destroy()
	}
}

// Close transitions the pool to closed exactly once, draining idle
// objects and tearing down the expiring variant's scheduler. Subsequent
// acquisition operations fail with ErrPoolClosed; a Lease released after
// Close disposes its value instead of re-queuing it.
func (p *Pool[A]) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.Drain()
		if p.expiry != nil {
			p.expiry.stop()
		}
		p.cfg.logger.Debug().Msg("genpool: pool closed")
	})
}

// Size returns the current idle-queue length.
func (p *Pool[A]) Size() int { return p.items.Len() }

// Capacity returns the pool's configured maximum live-object count.
func (p *Pool[A]) Capacity() int { return p.capacity }

// Live returns the current number of objects in existence (idle plus
// leased).
func (p *Pool[A]) Live() int { return p.live.snapshot() }

// Leased returns Live() - Size(): the number of objects currently out
// with a caller.
func (p *Pool[A]) Leased() int { return p.Live() - p.Size() }

// Stats returns a point-in-time snapshot of the pool's population.
func (p *Pool[A]) Stats() Stats {
	return Stats{
		Size:     p.Size(),
		Live:     p.Live(),
		Leased:   p.Leased(),
		Capacity: p.capacity,
	}
}
