package silo

// Cursor walks the entities matched by a Query, generalizing the teacher's
// Cursor (cursor.go): it holds the world lock for its lifetime, advances
// archetype-by-archetype and entity-by-entity within each, and resolves
// each dense fetch through the owning Table's column rather than a single
// fixed table (spec.md §4.5's iteration plane).
type Cursor struct {
	query *Query
	world *World

	lastRun Tick
	thisRun Tick

	matchedIdx int
	archRow    int

	currentArche *Archetype
	currentTable *Table
	currentEnt   Entity
	currentLoc   EntityLocation

	lockBit     uint32
	locked      bool
	initialized bool
}

func newCursor(q *Query, w *World, lastRun, thisRun Tick) *Cursor {
	return &Cursor{query: q, world: w, lastRun: lastRun, thisRun: thisRun, matchedIdx: -1}
}

// positionAt sets the cursor directly at loc without taking the world lock
// or touching the matched-archetype walk, for Query.Get's single-entity
// access path.
func (c *Cursor) positionAt(loc EntityLocation) {
	c.currentArche = c.world.archetypes[loc.ArchetypeID]
	c.currentTable = c.world.tables[c.currentArche.table]
	c.currentLoc = loc
	c.currentEnt = c.currentArche.entities[loc.ArcheRow]
	c.initialized = true
}

// Next advances the cursor to the next matching entity (skipping rows that
// fail any Added/Changed filter) and reports whether one was found. The
// world lock acquired on first call is released automatically once
// iteration is exhausted.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.lockBit = c.world.addLock()
		c.locked = true
		c.initialized = true
		c.archRow = -1
		if !c.advanceArchetype() {
			return false
		}
	}
	for {
		c.archRow++
		if c.archRow >= c.currentArche.Len() {
			if !c.advanceArchetype() {
				return false
			}
			continue
		}
		e := c.currentArche.entities[c.archRow]
		loc, ok := c.world.location(e)
		if !ok {
			continue
		}
		c.currentEnt = e
		c.currentLoc = loc
		if !c.passesChangeFilters() {
			continue
		}
		return true
	}
}

// advanceArchetype moves to the next non-empty matched archetype, or
// releases the lock and returns false once the matched list is exhausted.
func (c *Cursor) advanceArchetype() bool {
	c.matchedIdx++
	for c.matchedIdx < len(c.query.matched) {
		arche := c.world.archetypes[c.query.matched[c.matchedIdx]]
		if arche.Len() > 0 {
			c.currentArche = arche
			c.currentTable = c.world.tables[arche.table]
			c.archRow = -1
			return true
		}
		c.matchedIdx++
	}
	c.release()
	return false
}

func (c *Cursor) release() {
	if c.locked {
		c.world.removeLock(c.lockBit)
		c.locked = false
	}
}

// passesChangeFilters reports whether the current row satisfies every
// Added/Changed term the owning Query was built with (spec.md §4.7).
func (c *Cursor) passesChangeFilters() bool {
	for _, cf := range c.query.changes {
		var added, changed Tick
		if c.currentArche.hasDense(cf.id) {
			col, ok := c.currentTable.getColumn(cf.id)
			if !ok {
				return false
			}
			added = col.AddedTick(int(c.currentLoc.TableRow))
			changed = col.ChangedTick(int(c.currentLoc.TableRow))
		} else if m, ok := c.world.sparseMaps[cf.id]; ok && m.Has(c.currentEnt) {
			added = m.AddedTick(c.currentEnt)
			changed = m.ChangedTick(c.currentEnt)
		} else {
			return false
		}
		if cf.onlyAdded {
			if !added.newerThan(c.lastRun) {
				return false
			}
		} else if !added.newerThan(c.lastRun) && !changed.newerThan(c.lastRun) {
			return false
		}
	}
	return true
}

// stampWrite restamps id's changed tick for the current row if id was
// fetched through Write in the cursor's owning Query. Go has no way to
// intercept a write through the pointer GetFromCursor hands back, so the
// core stamps eagerly at fetch time rather than lazily on dereference
// (spec.md §5's "interior mutability... cache holds pointers for one
// iteration", adapted since Rust's Mut<T> wrapper has no Go equivalent).
func (c *Cursor) stampWrite(id ComponentID) {
	if !c.query.writeSet.Has(id) {
		return
	}
	if c.currentArche.hasDense(id) {
		if col, ok := c.currentTable.getColumn(id); ok {
			col.SetChangedTick(int(c.currentLoc.TableRow), c.world.tick)
		}
		return
	}
	if m, ok := c.world.sparseMaps[id]; ok && m.Has(c.currentEnt) {
		m.SetChangedTick(c.currentEnt, c.world.tick)
	}
}

// currentRow returns the TableRow of the cursor's current entity, for
// ComponentType[T].GetFromCursor's column access.
func (c *Cursor) currentRow() int { return int(c.currentLoc.TableRow) }

// currentEntity returns the entity at the cursor's current position.
func (c *Cursor) currentEntity() Entity { return c.currentEnt }

// denseValue returns id's column in the cursor's current table, panicking
// if id is not dense there — callers must only reach this through a fetch
// term the Query validated against every matched archetype, or through
// GetFromCursorSafe's checked path.
func (c *Cursor) denseValue(id ComponentID) column {
	col, ok := c.currentTable.getColumn(id)
	if !ok {
		panic("silo: denseValue called for a component absent from the cursor's current table")
	}
	return col
}

// tryDenseValue is denseValue's checked form, returning nil instead of
// panicking when id is absent from the current table (an Optional fetch,
// or a sparse component).
func (c *Cursor) tryDenseValue(id ComponentID) column {
	col, ok := c.currentTable.getColumn(id)
	if !ok {
		return nil
	}
	return col
}
