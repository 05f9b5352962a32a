package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpawnAndGet(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	velocity := RegisterComponent[Velocity](w)

	e := w.Spawn(position.With(Position{X: 1, Y: 2}), velocity.With(Velocity{X: 3, Y: 4}))

	pos, ok := position.Get(w, e)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2}, *pos)

	vel, ok := velocity.Get(w, e)
	assert.True(t, ok)
	assert.Equal(t, Velocity{X: 3, Y: 4}, *vel)
}

func TestSpawnNReservesCapacity(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)

	entities := w.SpawnN(100, position.With(Position{X: 1}))
	assert.Len(t, entities, 100)

	seen := make(map[Entity]bool, 100)
	for _, e := range entities {
		assert.True(t, w.Contains(e))
		seen[e] = true
	}
	assert.Len(t, seen, 100, "every spawned entity must be distinct")
}

func TestDespawnIsIdempotent(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	e := w.Spawn(position.With(Position{}))

	assert.True(t, w.Despawn(e))
	assert.False(t, w.Contains(e))
	assert.False(t, w.Despawn(e), "despawning an already-dead handle returns false, not a panic")
}

func TestDespawnPatchesSwappedEntityLocation(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	e1 := w.Spawn(position.With(Position{X: 1}))
	e2 := w.Spawn(position.With(Position{X: 2}))
	e3 := w.Spawn(position.With(Position{X: 3}))

	w.Despawn(e1) // e3 (the last row) swaps into e1's vacated row

	p2, ok := position.Get(w, e2)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 2}, *p2)

	p3, ok := position.Get(w, e3)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 3}, *p3, "swapped entity's value follows it to its new row")
}

func TestInsertMovesToNewArchetype(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	velocity := RegisterComponent[Velocity](w)

	e := w.Spawn(position.With(Position{X: 1}))
	locBefore, _ := w.location(e)

	err := w.Insert(e, velocity.With(Velocity{X: 9}))
	assert.NoError(t, err)

	locAfter, _ := w.location(e)
	assert.NotEqual(t, locBefore.ArchetypeID, locAfter.ArchetypeID)

	pos, ok := position.Get(w, e)
	assert.True(t, ok, "pre-existing component survives the archetype move")
	assert.Equal(t, Position{X: 1}, *pos)

	vel, ok := velocity.Get(w, e)
	assert.True(t, ok)
	assert.Equal(t, Velocity{X: 9}, *vel)
}

func TestInsertExistingComponentOverwritesInPlace(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	e := w.Spawn(position.With(Position{X: 1}))
	locBefore, _ := w.location(e)

	err := w.Insert(e, position.With(Position{X: 42}))
	assert.NoError(t, err)

	locAfter, _ := w.location(e)
	assert.Equal(t, locBefore, locAfter, "overwriting an already-present component never moves the entity")

	pos, _ := position.Get(w, e)
	assert.Equal(t, Position{X: 42}, *pos)
}

func TestInsertUnknownEntity(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	e := w.Spawn(position.With(Position{}))
	w.Despawn(e)

	err := w.Insert(e, position.With(Position{X: 1}))
	assert.Error(t, err)
	_, ok := err.(EntityNotFoundError)
	assert.True(t, ok)
}

func TestRemoveReturnsValueAndMoves(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	velocity := RegisterComponent[Velocity](w)
	e := w.Spawn(position.With(Position{X: 1}), velocity.With(Velocity{X: 7}))

	value, err := Remove[Velocity](w, e)
	assert.NoError(t, err)
	assert.Equal(t, Velocity{X: 7}, value)

	_, ok := velocity.Get(w, e)
	assert.False(t, ok)
	pos, ok := position.Get(w, e)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 1}, *pos)
}

func TestRemoveComponentNotPresent(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	RegisterComponent[Velocity](w)
	e := w.Spawn(position.With(Position{}))

	_, err := Remove[Velocity](w, e)
	assert.Error(t, err)
	_, ok := err.(ComponentNotFoundError)
	assert.True(t, ok)
}

// TestSparseInsertSkipsTableMove exercises the Open Question decision
// recorded in DESIGN.md: adding a sparse-only component changes the
// entity's archetype but must not move its dense table row.
func TestSparseInsertSkipsTableMove(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	owner := RegisterComponent[Owner](w, Sparse)

	e := w.Spawn(position.With(Position{X: 1}))
	locBefore, _ := w.location(e)

	err := w.Insert(e, owner.With(Owner{Of: e}))
	assert.NoError(t, err)

	locAfter, _ := w.location(e)
	assert.NotEqual(t, locBefore.ArchetypeID, locAfter.ArchetypeID, "sparse component still changes the archetype")
	assert.Equal(t, locBefore.TableRow, locAfter.TableRow, "but never moves the dense table row")

	own, ok := owner.Get(w, e)
	assert.True(t, ok)
	assert.Equal(t, e, own.Of)
}

func TestInsertReturnsComponentExistsErrorButStillOverwrites(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	e := w.Spawn(position.With(Position{X: 1}))

	err := w.Insert(e, position.With(Position{X: 42}))
	assert.Error(t, err)
	_, ok := err.(ComponentExistsError)
	assert.True(t, ok)

	pos, _ := position.Get(w, e)
	assert.Equal(t, Position{X: 42}, *pos, "ComponentExistsError is informational; the overwrite still happens")
}

func TestInsertRejectedWhileWorldLocked(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	velocity := RegisterComponent[Velocity](w)
	e := w.Spawn(position.With(Position{X: 1}))

	bit := w.addLock()
	defer w.removeLock(bit)

	err := w.Insert(e, velocity.With(Velocity{X: 1}))
	assert.Error(t, err)
	_, ok := err.(LockedWorldError)
	assert.True(t, ok)

	_, ok = velocity.Get(w, e)
	assert.False(t, ok, "a rejected Insert must not mutate the entity")
}

func TestRemoveRejectedWhileWorldLocked(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	velocity := RegisterComponent[Velocity](w)
	e := w.Spawn(position.With(Position{X: 1}), velocity.With(Velocity{X: 7}))

	bit := w.addLock()
	defer w.removeLock(bit)

	_, err := Remove[Velocity](w, e)
	assert.Error(t, err)
	_, ok := err.(LockedWorldError)
	assert.True(t, ok)

	_, ok = velocity.Get(w, e)
	assert.True(t, ok, "a rejected Remove must not mutate the entity")
}

func TestCloneEntityCopiesDenseAndSparse(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	owner := RegisterComponent[Owner](w, Sparse)

	e := w.Spawn(position.With(Position{X: 3, Y: 4}))
	w.Insert(e, owner.With(Owner{Of: e}))

	clone, err := w.CloneEntity(e)
	assert.NoError(t, err)
	assert.NotEqual(t, e, clone)

	pos, ok := position.Get(w, clone)
	assert.True(t, ok)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)

	own, ok := owner.Get(w, clone)
	assert.True(t, ok)
	assert.Equal(t, e, own.Of)
}

func TestCloneEntityDenyBehaviorSkipsComponent(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	tag := RegisterComponent[Tag](w)
	info, _ := w.registry.info(tag.ID())
	info.Clone = CloneBehaviorDeny

	e := w.Spawn(position.With(Position{X: 1}), tag.With(Tag{}))
	clone, err := w.CloneEntity(e)
	assert.NoError(t, err)

	_, ok := tag.Get(w, clone)
	assert.False(t, ok, "a Deny-cloned component is never attached to the clone")
	_, ok = position.Get(w, clone)
	assert.True(t, ok)
}
