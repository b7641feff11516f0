package refcell

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrongCellAlwaysReachable(t *testing.T) {
	c := New[int](Strong, 42)
	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	runtime.GC()
	v, ok = c.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestWeakCellReclaimedOnceUnreferenced(t *testing.T) {
	c := New[string](Weak, "ephemeral")

	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, "ephemeral", v)

	// Force a collection cycle; nothing but the weak pointer refers to
	// the boxed value at this point, so it becomes eligible for
	// reclamation.
	for i := 0; i < 5 && ok; i++ {
		runtime.GC()
		_, ok = c.Get()
	}
	_, ok = c.Get()
	assert.False(t, ok, "weak cell should eventually report its value reclaimed")
}

func TestSoftCellSurvivesUntilPressureThresholdCrossed(t *testing.T) {
	SetPressureThreshold(^uint64(0))
	defer SetPressureThreshold(512 << 20)

	c := New[int](Soft, 7)
	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	runtime.GC()
	v, ok = c.Get()
	assert.True(t, ok, "soft cell should stay reachable below the pressure threshold")
	assert.Equal(t, 7, v)
}

func TestSoftCellDropsStrongRefUnderPressure(t *testing.T) {
	SetPressureThreshold(0)
	defer SetPressureThreshold(512 << 20)
	lastSampleNanos = 0

	c := New[int](Soft, 9)
	_, _ = c.Get() // samples pressure, observes threshold of 0, drops strong ref
	runtime.GC()
	_, ok := c.Get()
	assert.False(t, ok, "soft cell should behave like a weak cell once pressure is observed")
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "strong", Strong.String())
	assert.Equal(t, "soft", Soft.String())
	assert.Equal(t, "weak", Weak.String())
}
