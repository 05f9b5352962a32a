package silo

// BundleItem is one typed component value contributed to World.Spawn or
// World.Insert, produced by (*ComponentType[T]).With. A bundle is simply a
// slice of these (spec.md §2's "compile-time composition", expressed in Go
// as a variadic argument list rather than a tuple type).
type BundleItem struct {
	id    ComponentID
	value any
}

func bundleComponentSet(items []BundleItem) componentSet {
	var set componentSet
	for _, it := range items {
		set.Mark(it.id)
	}
	return set
}

// Spawn creates one new entity carrying every component in items plus any
// component transitively required by them, default-constructed where items
// does not supply an explicit value (spec.md §4.4 `spawn(bundle)`).
func (w *World) Spawn(items ...BundleItem) Entity {
	fullSet := bundleComponentSet(items)
	extras := w.expandRequired(&fullSet)

	arche := w.resolveArchetype(fullSet)
	table := w.tables[arche.table]

	e := w.allocator.alloc()
	tableRow := table.allocRow(e, w.tick)
	archeRow := arche.allocRow(e)

	for _, req := range extras {
		w.applyWrite(arche, table, e, tableRow, req.id, req.factory())
	}
	for _, item := range items {
		w.applyWrite(arche, table, e, tableRow, item.id, item.value)
	}

	w.setLocation(e, EntityLocation{ArchetypeID: arche.id, ArcheRow: archeRow, TableRow: tableRow})
	return e
}

// SpawnN creates n entities sharing the same bundle, reserving table/
// archetype capacity once up front, generalizing the teacher's
// NewEntities(n, components...) batch path (storage.go).
func (w *World) SpawnN(n int, items ...BundleItem) []Entity {
	out := make([]Entity, n)
	if n <= 0 {
		return out
	}
	fullSet := bundleComponentSet(items)
	extras := w.expandRequired(&fullSet)
	arche := w.resolveArchetype(fullSet)
	table := w.tables[arche.table]
	table.Reserve(table.Len() + n)

	for i := 0; i < n; i++ {
		e := w.allocator.alloc()
		tableRow := table.allocRow(e, w.tick)
		archeRow := arche.allocRow(e)
		for _, req := range extras {
			w.applyWrite(arche, table, e, tableRow, req.id, req.factory())
		}
		for _, item := range items {
			w.applyWrite(arche, table, e, tableRow, item.id, item.value)
		}
		w.setLocation(e, EntityLocation{ArchetypeID: arche.id, ArcheRow: archeRow, TableRow: tableRow})
		out[i] = e
	}
	return out
}

// Despawn removes e from the world, swap-removing its table and archetype
// rows and releasing its sparse components, then returns its index to the
// allocator. Idempotent: despawning a stale or unknown handle returns false
// rather than panicking (spec.md §7).
func (w *World) Despawn(e Entity) bool {
	loc, ok := w.location(e)
	if !ok {
		return false
	}
	arche := w.archetypes[loc.ArchetypeID]
	table := w.tables[arche.table]

	for _, id := range arche.sparse {
		if m, ok := w.sparseMaps[id]; ok {
			m.Remove(e)
		}
	}
	if moved, ok := table.swapRemoveRow(loc.TableRow); ok {
		w.patchLocationTableRow(moved, loc.TableRow)
	}
	if moved, ok := arche.swapRemoveRow(loc.ArcheRow); ok {
		w.patchLocationArcheRow(moved, loc.ArcheRow)
	}
	w.allocator.release(e)
	w.locations[e.index-1] = EntityLocation{ArcheRow: ArcheRow(noLocation), TableRow: TableRow(noLocation)}
	delete(w.parents, e)
	return true
}

// Insert adds every component in items to e, moving it to the archetype for
// its new component set (creating that archetype, and its table if needed,
// on first use). Components e already carries are overwritten in place
// without any archetype move (spec.md §4.4 `insert(e, bundle)`). Returns
// LockedWorldError if called while a Cursor iteration holds the world lock
// (use EnqueueInsert instead), and a non-nil ComponentExistsError alongside
// an otherwise-completed write when one or more items were already
// present — most callers ignore it, since overwrite-in-place is the
// intended behavior.
func (w *World) Insert(e Entity, items ...BundleItem) error {
	if w.Locked() {
		return LockedWorldError{}
	}
	loc, ok := w.location(e)
	if !ok {
		return EntityNotFoundError{Entity: e}
	}
	fromArche := w.archetypes[loc.ArchetypeID]
	fromTable := w.tables[fromArche.table]

	var existsErr error
	for _, it := range items {
		if fromArche.hasComponent(it.id) {
			existsErr = ComponentExistsError{ComponentID: it.id}
			break
		}
	}

	newSet := fromArche.set.clone()
	for _, it := range items {
		newSet.Mark(it.id)
	}
	extras := w.expandRequired(&newSet)

	if newSet.Equal(fromArche.set) {
		for _, item := range items {
			w.applyWrite(fromArche, fromTable, e, loc.TableRow, item.id, item.value)
		}
		return existsErr
	}

	toArche := fromArche
	for _, it := range items {
		if !fromArche.hasComponent(it.id) {
			toArche = w.archetypeAfterInsert(toArche, it.id)
		}
	}
	for _, req := range extras {
		toArche = w.archetypeAfterInsert(toArche, req.id)
	}
	toTable := w.tables[toArche.table]

	newTableRow := loc.TableRow
	if toArche.table != fromArche.table {
		row, moved, movedOK := fromTable.moveRowTo(loc.TableRow, toTable, e, w.tick)
		newTableRow = row
		if movedOK {
			w.patchLocationTableRow(moved, loc.TableRow)
		}
	}
	if moved, ok := fromArche.swapRemoveRow(loc.ArcheRow); ok {
		w.patchLocationArcheRow(moved, loc.ArcheRow)
	}
	newArcheRow := toArche.allocRow(e)

	for _, req := range extras {
		w.applyWrite(toArche, toTable, e, newTableRow, req.id, req.factory())
	}
	for _, item := range items {
		w.applyWrite(toArche, toTable, e, newTableRow, item.id, item.value)
	}

	w.setLocation(e, EntityLocation{ArchetypeID: toArche.id, ArcheRow: newArcheRow, TableRow: newTableRow})
	return existsErr
}

// Remove strips component T from e, moving it to the archetype for the
// reduced component set, and returns the value it held just before removal
// (spec.md §4.4 `remove::<C>(entity)`). When the removed component shares
// its table with the destination archetype (the common case when only a
// sparse component changes, or dense sharing coincides) no table row move
// happens at all — only the bookkeeping described in DESIGN.md's Open
// Question resolution. Returns LockedWorldError if called while a Cursor
// iteration holds the world lock (use EnqueueRemove instead).
func Remove[T any](w *World, e Entity) (value T, err error) {
	if w.Locked() {
		return value, LockedWorldError{}
	}
	id, ok := GetComponentID[T](w)
	if !ok {
		return value, ComponentNotRegisteredError{}
	}
	loc, ok := w.location(e)
	if !ok {
		return value, EntityNotFoundError{Entity: e}
	}
	fromArche := w.archetypes[loc.ArchetypeID]
	if !fromArche.hasComponent(id) {
		return value, ComponentNotFoundError{ComponentID: id}
	}
	fromTable := w.tables[fromArche.table]

	if fromArche.hasDense(id) {
		col, _ := fromTable.getColumn(id)
		value = *col.(*typedColumn[T]).Get(int(loc.TableRow))
	} else {
		ptr, _ := w.sparseMaps[id].(*typedSparseMap[T]).Get(e)
		value = *ptr
	}

	toArche := w.archetypeAfterRemove(fromArche, id)
	toTable := w.tables[toArche.table]

	newTableRow := loc.TableRow
	if toArche.table != fromArche.table {
		row, moved, movedOK := fromTable.moveRowTo(loc.TableRow, toTable, e, w.tick)
		newTableRow = row
		if movedOK {
			w.patchLocationTableRow(moved, loc.TableRow)
		}
	}
	if moved, ok := fromArche.swapRemoveRow(loc.ArcheRow); ok {
		w.patchLocationArcheRow(moved, loc.ArcheRow)
	}
	newArcheRow := toArche.allocRow(e)

	if !fromArche.hasDense(id) {
		if m, ok := w.sparseMaps[id]; ok {
			m.Remove(e)
		}
	}

	w.setLocation(e, EntityLocation{ArchetypeID: toArche.id, ArcheRow: newArcheRow, TableRow: newTableRow})
	return value, nil
}

// CloneEntity duplicates a live entity's component values into a new
// entity, honoring each component's CloneBehavior (Clone/Custom/Deny),
// recovered from original_source's entity/clone.rs (SPEC_FULL.md §4).
func (w *World) CloneEntity(e Entity) (Entity, error) {
	loc, ok := w.location(e)
	if !ok {
		return Entity{}, EntityNotFoundError{Entity: e}
	}
	arche := w.archetypes[loc.ArchetypeID]
	table := w.tables[arche.table]

	items := make([]BundleItem, 0, len(arche.dense)+len(arche.sparse))
	for _, id := range arche.dense {
		info := w.mustInfo(id)
		if info.Clone == CloneBehaviorDeny {
			continue
		}
		col, _ := table.getColumn(id)
		items = append(items, BundleItem{id: id, value: info.cloneDense(col, int(loc.TableRow))})
	}
	for _, id := range arche.sparse {
		info := w.mustInfo(id)
		if info.Clone == CloneBehaviorDeny {
			continue
		}
		m := w.sparseMaps[id]
		items = append(items, BundleItem{id: id, value: info.cloneSparse(m, e)})
	}
	return w.Spawn(items...), nil
}
