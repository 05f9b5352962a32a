package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentSetMarkUnmark(t *testing.T) {
	var s componentSet
	s.Mark(3)
	s.Mark(70) // forces a second word
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(70))
	assert.False(t, s.Has(4))

	s.Unmark(3)
	assert.False(t, s.Has(3))
	assert.True(t, s.Has(70))
}

func TestComponentSetContains(t *testing.T) {
	a := newComponentSet(1, 2, 65)
	b := newComponentSet(1, 2)
	c := newComponentSet(2, 200)

	assert.True(t, a.ContainsAll(b))
	assert.False(t, b.ContainsAll(a))
	assert.True(t, a.ContainsAny(c))
	assert.True(t, b.ContainsNone(newComponentSet(3, 4)))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(newComponentSet(65, 2, 1)))
}

func TestComponentSetCloneDoesNotAlias(t *testing.T) {
	original := newComponentSet(1, 2)
	clone := original.clone()
	clone.Mark(3)

	assert.False(t, original.Has(3), "mutating the clone must not mutate the source")
	assert.True(t, clone.Has(3))
}

func TestComponentSetSortedAndCount(t *testing.T) {
	s := newComponentSet(64, 0, 5, 2)
	assert.Equal(t, 4, s.count())
	assert.Equal(t, []ComponentID{0, 2, 5, 64}, s.sorted())
}

func TestComponentSetKeyStability(t *testing.T) {
	a := newComponentSet(1, 65, 130)
	b := newComponentSet(130, 1, 65)
	assert.Equal(t, a.key(), b.key())

	c := newComponentSet(1, 65)
	assert.NotEqual(t, a.key(), c.key())
}

func TestComponentSetKeyIgnoresTrailingZeroWords(t *testing.T) {
	grown := newComponentSet(0, 70)
	grown.Unmark(70) // clears the only bit in the second word, but words stays length 2

	fresh := newComponentSet(0)

	assert.True(t, grown.Equal(fresh))
	assert.Equal(t, fresh.key(), grown.key(), "a set shrunk back to {0} must key identically to one that never grew past word 0")
}
