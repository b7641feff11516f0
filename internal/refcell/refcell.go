// Package refcell implements the pooled-value holder behind each Item: a
// Strong cell that always reports its value reachable, and Soft/Weak
// cells that let the Go runtime reclaim an idle value without the pool
// running an explicit eviction thread.
//
// Go's garbage collector draws no Java/Scala-style distinction between
// "soft" and "weak" references, so both modes are backed by the same
// runtime/weak mechanism here; Soft additionally holds a strong reference
// that it only relinquishes once the process looks to be under memory
// pressure, approximating "reclaim later than Weak, but still reclaim."
package refcell

import (
	"runtime"
	"runtime/weak"
	"sync/atomic"
	"time"
)

// Mode selects the retention policy for a Cell.
type Mode int

const (
	// Strong values are always reachable; the pool is the sole reason
	// they stay alive.
	Strong Mode = iota
	// Soft values may be reclaimed once the process is under memory
	// pressure.
	Soft
	// Weak values may be reclaimed as soon as nothing else holds a
	// strong reference to them.
	Weak
)

func (m Mode) String() string {
	switch m {
	case Strong:
		return "strong"
	case Soft:
		return "soft"
	case Weak:
		return "weak"
	default:
		return "unknown"
	}
}

// Cell holds one pooled value under a retention mode.
type Cell[A any] interface {
	// Get returns the held value and true if it is still reachable.
	Get() (A, bool)
}

// New constructs a Cell holding v under the given retention mode.
func New[A any](mode Mode, v A) Cell[A] {
	switch mode {
	case Weak:
		return newWeakCell(v)
	case Soft:
		return newSoftCell(v)
	default:
		return strongCell[A]{v: v}
	}
}

type box[A any] struct{ v A }

type strongCell[A any] struct{ v A }

func (c strongCell[A]) Get() (A, bool) { return c.v, true }

type weakCell[A any] struct {
	w weak.Pointer[box[A]]
}

func newWeakCell[A any](v A) *weakCell[A] {
	return &weakCell[A]{w: weak.Make(&box[A]{v: v})}
}

func (c *weakCell[A]) Get() (A, bool) {
	b := c.w.Value()
	if b == nil {
		var zero A
		return zero, false
	}
	return b.v, true
}

// softCell keeps a strong reference to its box until a sampled read of the
// process's heap usage crosses pressureThreshold, at which point it drops
// the strong reference (a one-way transition) and falls back to the same
// weak pointer a Weak cell uses.
type softCell[A any] struct {
	w     weak.Pointer[box[A]]
	boxed atomic.Pointer[box[A]]
}

func newSoftCell[A any](v A) *softCell[A] {
	b := &box[A]{v: v}
	c := &softCell[A]{w: weak.Make(b)}
	c.boxed.Store(b)
	return c
}

func (c *softCell[A]) Get() (A, bool) {
	if underPressure() {
		c.boxed.Store(nil)
	}
	if b := c.boxed.Load(); b != nil {
		return b.v, true
	}
	b := c.w.Value()
	if b == nil {
		var zero A
		return zero, false
	}
	return b.v, true
}

// pressureThreshold is the default heap-allocation ceiling, in bytes,
// above which Soft cells start relinquishing their strong reference.
// SetPressureThreshold overrides it process-wide.
var pressureThreshold uint64 = 512 << 20 // 512 MiB

// SetPressureThreshold configures the heap-allocation ceiling that Soft
// cells treat as memory pressure. It applies to every Soft cell in the
// process, mirroring the single shared signal the spec describes as a
// stand-in for a generational GC's own soft-reference policy.
func SetPressureThreshold(bytes uint64) {
	atomic.StoreUint64(&pressureThreshold, bytes)
}

const samplingInterval = 250 * time.Millisecond

var (
	lastSampleNanos int64
	pressureFlag    atomic.Bool
)

// underPressure reports whether the process's heap allocation currently
// exceeds pressureThreshold, sampling runtime.MemStats at most once per
// samplingInterval so Soft cell reads stay cheap.
func underPressure() bool {
	now := time.Now().UnixNano()
	last := atomic.LoadInt64(&lastSampleNanos)
	if now-last < int64(samplingInterval) {
		return pressureFlag.Load()
	}
	if !atomic.CompareAndSwapInt64(&lastSampleNanos, last, now) {
		return pressureFlag.Load()
	}
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	flag := stats.HeapAlloc > atomic.LoadUint64(&pressureThreshold)
	pressureFlag.Store(flag)
	return flag
}
