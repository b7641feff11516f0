package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainItemIsViableAndTake(t *testing.T) {
	p, err := New(1, counterFactory(new(int)))
	require.NoError(t, err)
	defer p.Close()

	it := newPlainItem[int](p, 7)
	assert.True(t, it.isViable())

	v := it.take()
	assert.Equal(t, 7, v)
}

func TestPlainItemFailsHealthCheckIsNotViable(t *testing.T) {
	p, err := New(1, counterFactory(new(int)),
		WithHealthCheck[int](func(int) bool { return false }),
	)
	require.NoError(t, err)
	defer p.Close()

	it := newPlainItem[int](p, 7)
	assert.False(t, it.isViable())
}

func TestPlainItemDestroyRunsDisposeAndReleasesLive(t *testing.T) {
	var disposed []int
	p, err := New(1, counterFactory(new(int)), WithDispose[int](func(v int) {
		disposed = append(disposed, v)
	}))
	require.NoError(t, err)
	defer p.Close()

	require.True(t, p.live.tryReserve())
	it := newPlainItem[int](p, 42)
	assert.Equal(t, 1, p.Live())

	it.destroy()
	assert.Equal(t, []int{42}, disposed)
	assert.Equal(t, 0, p.Live())
}

func TestPlainItemOnInsertedAndConsumeAreNoops(t *testing.T) {
	p, err := New(1, counterFactory(new(int)))
	require.NoError(t, err)
	defer p.Close()

	it := newPlainItem[int](p, 1)
	it.onInserted()
	it.consume()
	// still viable afterwards: no hook has any observable side effect
	assert.True(t, it.isViable())
}

func TestExpiringItemSchedulesOnInsertAndCancelsOnConsume(t *testing.T) {
	p, err := New(1, counterFactory(new(int)), WithMaxIdleTime[int](time.Hour))
	require.NoError(t, err)
	defer p.Close()

	require.True(t, p.live.tryReserve())
	it := newExpiringItem[int](p, 9)

	it.onInserted()
	assert.True(t, p.expiry.cache.Has(it.id))

	it.consume()
	assert.False(t, p.expiry.cache.Has(it.id))
}

func TestExpiringItemDestroyCancelsSchedule(t *testing.T) {
	var disposed []int
	p, err := New(1, counterFactory(new(int)),
		WithMaxIdleTime[int](time.Hour),
		WithDispose[int](func(v int) { disposed = append(disposed, v) }),
	)
	require.NoError(t, err)
	defer p.Close()

	require.True(t, p.live.tryReserve())
	it := newExpiringItem[int](p, 3)
	it.onInserted()

	it.destroy()
	assert.Equal(t, []int{3}, disposed)
	assert.False(t, p.expiry.cache.Has(it.id))
	assert.Equal(t, 0, p.Live())
}

func TestExpiringItemsFromSameValueHaveDistinctIdentity(t *testing.T) {
	p, err := New(2, counterFactory(new(int)), WithMaxIdleTime[int](time.Hour))
	require.NoError(t, err)
	defer p.Close()

	require.True(t, p.live.tryReserve())
	a := newExpiringItem[int](p, 5)
	b := newExpiringItem[int](p, 5)

	assert.NotEqual(t, a.id, b.id)
}

func TestPlainItemWeakCellIsViableBeforeCollection(t *testing.T) {
	p, err := New(1, counterFactory(new(int)), WithRetention[int](Weak))
	require.NoError(t, err)
	defer p.Close()

	it := newPlainItem[int](p, 11)
	// No GC cycle is forced here, so reclamation is not observed; this
	// only asserts that a freshly built weak cell reports viable before
	// any collection has run.
	assert.True(t, it.isViable())
}
