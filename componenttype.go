package silo

// ComponentType is a typed handle to a registered component, generalizing
// the teacher's AccessibleComponent[T] (componentaccessible.go): it carries
// the component's id and provides generic, allocation-free accessors bound
// to that type instead of the teacher's table.Accessor[T].
type ComponentType[T any] struct {
	id ComponentID
}

// RegisterComponent registers T (if not already registered) and returns a
// typed handle for building bundle items and fetching values. storage
// defaults to Dense; pass Sparse explicitly to opt a type into map-backed
// storage (spec.md §2).
func RegisterComponent[T any](w *World, storage ...StorageClass) *ComponentType[T] {
	class := Dense
	if len(storage) > 0 {
		class = storage[0]
	}
	return &ComponentType[T]{id: registerComponentID[T](w, class)}
}

// ID returns the component's registered id.
func (c *ComponentType[T]) ID() ComponentID { return c.id }

// componentID, accessKind, and optional implement queryTerm: a bare
// *ComponentType[T] passed to a query combinator claims read access and
// requires the component's presence. Wrap it with Write or Optional for the
// other combinations.
func (c *ComponentType[T]) componentID() ComponentID { return c.id }
func (c *ComponentType[T]) accessKind() accessKind    { return accessRead }
func (c *ComponentType[T]) optional() bool            { return false }

// With builds a bundle item carrying v, for use with World.Spawn/World.Insert.
func (c *ComponentType[T]) With(v T) BundleItem {
	return BundleItem{id: c.id, value: v}
}

// Get returns a pointer to e's value for this component and true, or
// (nil, false) if e does not carry it.
func (c *ComponentType[T]) Get(w *World, e Entity) (*T, bool) {
	loc, ok := w.location(e)
	if !ok {
		return nil, false
	}
	arche := w.archetypes[loc.ArchetypeID]
	if arche.hasDense(c.id) {
		col, _ := w.tables[arche.table].getColumn(c.id)
		return col.(*typedColumn[T]).Get(int(loc.TableRow)), true
	}
	if m, ok := w.sparseMaps[c.id]; ok {
		return m.(*typedSparseMap[T]).Get(e)
	}
	return nil, false
}

// Set overwrites e's value for this component, auto-registering and
// attaching the component to e if it did not already carry it.
func (c *ComponentType[T]) Set(w *World, e Entity, v T) error {
	if _, ok := c.Get(w, e); ok {
		loc, _ := w.location(e)
		arche := w.archetypes[loc.ArchetypeID]
		if arche.hasDense(c.id) {
			col, _ := w.tables[arche.table].getColumn(c.id)
			col.(*typedColumn[T]).Replace(int(loc.TableRow), v, w.tick)
		} else {
			w.sparseMaps[c.id].(*typedSparseMap[T]).Replace(e, v, w.tick)
		}
		return nil
	}
	return w.Insert(e, c.With(v))
}

// GetFromCursor returns a pointer to the value at the cursor's current row
// for this component, looking up the column in the cursor's current table by
// binary search on each call (Table.getColumn). Only valid for dense
// components fetched by the cursor's owning query.
func (c *ComponentType[T]) GetFromCursor(cur *Cursor) *T {
	cur.stampWrite(c.id)
	return cur.denseValue(c.id).(*typedColumn[T]).Get(cur.currentRow())
}

// GetFromCursorSafe is GetFromCursor's checked form, for components that
// may be absent from the cursor's current archetype (an Optional fetch).
func (c *ComponentType[T]) GetFromCursorSafe(cur *Cursor) (*T, bool) {
	cur.stampWrite(c.id)
	col := cur.tryDenseValue(c.id)
	if col == nil {
		if m, ok := cur.world.sparseMaps[c.id]; ok {
			return m.(*typedSparseMap[T]).Get(cur.currentEntity())
		}
		return nil, false
	}
	return col.(*typedColumn[T]).Get(cur.currentRow()), true
}
