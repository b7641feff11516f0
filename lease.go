package pool

import (
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type leaseState int32

const (
	leaseActive leaseState = iota
	leaseReleased
	leaseInvalidated
)

// Lease is a one-shot handle to a pooled object. The object is visible
// through Get only while the Lease is Active; the first of Release or
// Invalidate transitions it out of Active, and every later call to
// either is a silent no-op.
type Lease[A any] struct {
	pool  *Pool[A]
	value A
	state atomic.Int32

	// id correlates this lease across log lines; it plays no role in
	// pool equality or identity semantics.
	id string
}

func newLease[A any](p *Pool[A], v A) *Lease[A] {
	return &Lease[A]{
		pool:  p,
		value: v,
		id:    uuid.NewString(),
	}
}

// ID returns the lease's log-correlation identifier.
func (l *Lease[A]) ID() string { return l.id }

// Get returns the leased value, or ErrLeaseConsumed once the lease has
// already been released or invalidated.
func (l *Lease[A]) Get() (A, error) {
	if leaseState(l.state.Load()) != leaseActive {
		var zero A
		return zero, ErrLeaseConsumed
	}
	return l.value, nil
}

// Release returns the object to the pool for reuse. If the pool is not
// closed, the object is reset and re-queued; otherwise (or if the
// re-queue races against a concurrently full queue) it is destroyed.
// A second call, or a call after Invalidate, is a no-op.
func (l *Lease[A]) Release() {
	if !l.state.CompareAndSwap(int32(leaseActive), int32(leaseReleased)) {
		return
	}
	l.pool.returnValue(l.value)
}

// Invalidate unconditionally destroys the object rather than returning it
// to the pool — use this when the object's invariants may have been
// corrupted by its last use. A second call, or a call after Release, is
// a no-op.
func (l *Lease[A]) Invalidate() {
	if !l.state.CompareAndSwap(int32(leaseActive), int32(leaseInvalidated)) {
		return
	}
	l.pool.destroyValue(l.value)
}

// Use calls f with the leased value and guarantees Release runs
// afterward on every exit path, including a panic or an error return
// from f. Consistent with the pool's documented "release-only" contract,
// Use does not invalidate the object when f returns an error: the error
// propagates to the caller, and the object is still considered fit for
// reuse.
func (l *Lease[A]) Use(f func(A) error) error {
	defer l.Release()
	v, err := l.Get()
	if err != nil {
		return err
	}
	return f(v)
}
