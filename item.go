package pool

import "github.com/martopia/genpool/internal/refcell"

// item is the unit stored in a Pool's idle queue: a reference cell over
// one pooled value, plus hooks a concrete variant uses to schedule or
// cancel side effects around queue membership. Two variants implement
// it: plainItem (no side effects) and expiringItem (schedules an idle-
// eviction task on insertion, cancels it on consumption).
//
// item values are always held and compared by pointer, never by value,
// so that the expiring variant's eviction task can key off an item's
// identity rather than the identity of the value it wraps — two
// successive insertions of the same recycled value must remain distinct
// items.
type item[A any] interface {
	// isViable reports whether the underlying reference is still
	// reachable and, if so, whether the contained value passes the
	// pool's health check. Side-effect-free.
	isViable() bool
	// take returns the contained value and runs consume. Callers must
	// only call take immediately after observing isViable true in the
	// same goroutine.
	take() A
	// destroy disposes the contained value (if still present),
	// releases its live-counter reservation, and runs consume.
	destroy()
	// onInserted runs exactly once, immediately after the item is
	// successfully offered into the queue.
	onInserted()
	// consume runs exactly once, when the item leaves the queue via
	// take or destroy.
	consume()
}

// plainItem backs the simple (non-expiring) pool variant; onInserted and
// consume are no-ops.
type plainItem[A any] struct {
	cell refcell.Cell[A]
	p    *Pool[A]
}

func newPlainItem[A any](p *Pool[A], v A) *plainItem[A] {
	return &plainItem[A]{
		cell: refcell.New(p.cfg.retention, v),
		p:    p,
	}
}

func (it *plainItem[A]) isViable() bool {
	v, ok := it.cell.Get()
	if !ok {
		return false
	}
	if it.p.cfg.healthCheck(v) {
		return true
	}
	if it.p.cfg.metrics != nil {
		it.p.cfg.metrics.recordHealthFail()
	}
	return false
}

func (it *plainItem[A]) take() A {
	v, _ := it.cell.Get()
	it.consume()
	return v
}

func (it *plainItem[A]) destroy() {
	it.p.disposeCell(it.cell)
	it.consume()
}

func (it *plainItem[A]) onInserted() {}
func (it *plainItem[A]) consume()    {}

// expiringItem additionally carries a monotonic identity used to key its
// scheduled eviction task, distinct from the identity of the value it
// wraps.
type expiringItem[A any] struct {
	plainItem[A]
	id uint64
}

func newExpiringItem[A any](p *Pool[A], v A) *expiringItem[A] {
	return &expiringItem[A]{
		plainItem: plainItem[A]{
			cell: refcell.New(p.cfg.retention, v),
			p:    p,
		},
		id: p.nextItemID(),
	}
}

func (it *expiringItem[A]) onInserted() {
	it.p.expiry.schedule(it.id, it)
}

// take and destroy are redeclared here, rather than inherited from
// plainItem through embedding, because Go embedding has no virtual
// dispatch: plainItem.take/destroy call it.consume() on the embedded
// plainItem receiver, which would always reach plainItem's no-op
// consume rather than expiringItem's. Redeclaring them routes their
// consume() call to this type's own method instead.
func (it *expiringItem[A]) take() A {
	v, _ := it.cell.Get()
	it.consume()
	return v
}

func (it *expiringItem[A]) destroy() {
	it.p.disposeCell(it.cell)
	it.consume()
}

func (it *expiringItem[A]) consume() {
	it.p.expiry.cancel(it.id)
}
