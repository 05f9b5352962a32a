package silo

// ArcheID identifies an Archetype within a World.
type ArcheID uint32

// archEdges memoizes the Archetype reached by adding or removing one
// component, so repeated Insert/Remove traversals of the same structural
// transition are O(1) after the first (spec.md §3's "archetype graph").
type archEdges struct {
	afterInsert map[ComponentID]ArcheID
	afterRemove map[ComponentID]ArcheID
}

// Archetype groups every entity that shares exactly one component set. The
// set is partitioned into a dense prefix (backed by a shared Table) and a
// sparse suffix (backed by per-component Maps); denseLen marks the split.
// Archetype owns its own ArcheRow-ordered entity list, independent of the
// TableRow order its Table keeps, so that a Table shared by more than one
// Archetype (identical dense set, differing sparse set) can be swap-removed
// at each level without disturbing the other.
type Archetype struct {
	id       ArcheID
	set      componentSet
	dense    []ComponentID // sorted, columnar components
	sparse   []ComponentID // sorted, Map-backed components
	table    TableID
	entities []Entity
	edges    archEdges
}

func newArchetype(id ArcheID, dense, sparse []ComponentID, table TableID) *Archetype {
	a := &Archetype{
		id:     id,
		dense:  dense,
		sparse: sparse,
		table:  table,
		edges: archEdges{
			afterInsert: make(map[ComponentID]ArcheID),
			afterRemove: make(map[ComponentID]ArcheID),
		},
	}
	for _, c := range dense {
		a.set.Mark(c)
	}
	for _, c := range sparse {
		a.set.Mark(c)
	}
	return a
}

func (a *Archetype) Len() int { return len(a.entities) }

func (a *Archetype) hasComponent(id ComponentID) bool { return a.set.Has(id) }

// hasDense reports whether id is one of this archetype's table-backed
// (as opposed to sparse-map-backed) components.
func (a *Archetype) hasDense(id ComponentID) bool {
	for _, c := range a.dense {
		if c == id {
			return true
		}
	}
	return false
}

// matches reports whether a's component set satisfies a query built from
// the required, excluded, and "any-of" sets (spec.md §4.1's filter-build
// phase, generalized from the source's matches/matches_sorted pair — Go's
// bitset Contains* calls make the "sorted" fast path unnecessary as a
// separate code path).
func (a *Archetype) matches(required, excluded componentSet, anyOf []componentSet) bool {
	if !a.set.ContainsAll(required) {
		return false
	}
	if !excluded.IsEmpty() && a.set.ContainsAny(excluded) {
		return false
	}
	for _, any := range anyOf {
		if !a.set.ContainsAny(any) {
			return false
		}
	}
	return true
}

// allocRow appends e to the archetype's own entity list and returns its
// ArcheRow.
func (a *Archetype) allocRow(e Entity) ArcheRow {
	row := ArcheRow(len(a.entities))
	a.entities = append(a.entities, e)
	return row
}

// swapRemoveRow removes row via swap-with-last, returning the entity moved
// into row's place (if row was not already last).
func (a *Archetype) swapRemoveRow(row ArcheRow) (moved Entity, ok bool) {
	last := ArcheRow(len(a.entities) - 1)
	movedEntity := a.entities[last]
	if row != last {
		a.entities[row] = movedEntity
	}
	a.entities = a.entities[:last]
	if row != last {
		return movedEntity, true
	}
	return Entity{}, false
}
