package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickNewerThan(t *testing.T) {
	assert.True(t, Tick(10).newerThan(5))
	assert.False(t, Tick(5).newerThan(10))
	assert.False(t, Tick(5).newerThan(5))
}

func TestTickNewerThanWrapsAround(t *testing.T) {
	// Just past the 32-bit wrap point, 3 is still "newer" than the max value.
	max := Tick(^uint32(0))
	assert.True(t, Tick(3).newerThan(max))
	assert.False(t, max.newerThan(Tick(3)))
}

func TestTickAtLeastAsNewAs(t *testing.T) {
	assert.True(t, Tick(5).atLeastAsNewAs(5))
	assert.True(t, Tick(6).atLeastAsNewAs(5))
	assert.False(t, Tick(4).atLeastAsNewAs(5))
}

func TestTickAge(t *testing.T) {
	assert.EqualValues(t, 5, Tick(5).age(10))
	assert.EqualValues(t, 0, Tick(10).age(5), "future tick saturates age at 0")
}

func TestTickClampTo(t *testing.T) {
	now := Tick(1000)
	maxAge := Tick(100)
	assert.Equal(t, Tick(950), Tick(950).clampTo(now, maxAge))
	assert.Equal(t, now-maxAge, Tick(0).clampTo(now, maxAge), "stale ticks clamp to now-maxAge")
}

func TestTickArraySwapRemove(t *testing.T) {
	a := newTickArray(4)
	a.push(1)
	a.push(2)
	a.push(3)
	a.swapRemove(0)
	assert.Equal(t, 2, a.len())
	assert.Equal(t, Tick(3), a.get(0), "last element moved into the removed slot")
}

func TestTickArrayClampAll(t *testing.T) {
	a := newTickArray(2)
	a.push(0)
	a.push(900)
	a.clampAll(1000, 100)
	assert.Equal(t, Tick(900), a.get(0))
	assert.Equal(t, Tick(900), a.get(1))
}
