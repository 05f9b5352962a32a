package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetParentAndParent(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	parent := w.Spawn(position.With(Position{X: 1}))
	child := w.Spawn(position.With(Position{X: 2}))

	err := w.SetParent(child, parent)
	assert.NoError(t, err)

	got, ok := w.Parent(child)
	assert.True(t, ok)
	assert.Equal(t, parent, got)
}

func TestSetParentRejectsReparentWithoutClear(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	parentA := w.Spawn(position.With(Position{}))
	parentB := w.Spawn(position.With(Position{}))
	child := w.Spawn(position.With(Position{}))

	assert.NoError(t, w.SetParent(child, parentA))

	err := w.SetParent(child, parentB)
	assert.Error(t, err)
	relErr, ok := err.(EntityRelationError)
	assert.True(t, ok)
	assert.Equal(t, child, relErr.Child)
	assert.Equal(t, parentA, relErr.Parent)

	got, _ := w.Parent(child)
	assert.Equal(t, parentA, got, "rejected re-parent must not overwrite the existing assignment")
}

func TestClearParentAllowsReparent(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	parentA := w.Spawn(position.With(Position{}))
	parentB := w.Spawn(position.With(Position{}))
	child := w.Spawn(position.With(Position{}))

	assert.NoError(t, w.SetParent(child, parentA))
	w.ClearParent(child)
	assert.NoError(t, w.SetParent(child, parentB))

	got, ok := w.Parent(child)
	assert.True(t, ok)
	assert.Equal(t, parentB, got)
}

func TestParentUnknownEntities(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	live := w.Spawn(position.With(Position{}))
	dead := w.Spawn(position.With(Position{}))
	w.Despawn(dead)

	err := w.SetParent(dead, live)
	assert.Error(t, err)
	_, ok := err.(EntityNotFoundError)
	assert.True(t, ok)

	err = w.SetParent(live, dead)
	assert.Error(t, err)
	_, ok = err.(EntityNotFoundError)
	assert.True(t, ok)
}

func TestParentClearedOnDespawn(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	parent := w.Spawn(position.With(Position{}))
	child := w.Spawn(position.With(Position{}))
	assert.NoError(t, w.SetParent(child, parent))

	w.Despawn(parent)

	_, ok := w.Parent(child)
	assert.False(t, ok, "a despawned parent no longer validates, mirroring the generational Contains check")
}
