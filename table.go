package silo

import "sort"

// TableID identifies a Table within a World. Tables are shared by every
// Archetype whose dense component set is identical (spec.md §2/§3).
type TableID uint32

// tableColumn pairs a dense ComponentId with its column, kept sorted by id
// for binary-search lookup (Table::get_table_col).
type tableColumn struct {
	id  ComponentID
	col column
}

// Table is the structure-of-arrays storage shared by every Archetype with
// the same dense component set. It also owns the table-level entity order
// (TableRow-indexed), which is distinct from any one Archetype's own
// ArcheRow-indexed entity list when more than one Archetype shares the
// table (spec.md §3).
type Table struct {
	id       TableID
	columns  []tableColumn
	entities []Entity
}

func newTable(id TableID, componentIDs []ComponentID, registry *componentRegistry) *Table {
	t := &Table{
		id: id,
	}
	sorted := append([]ComponentID(nil), componentIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	t.columns = make([]tableColumn, len(sorted))
	for i, id := range sorted {
		info, _ := registry.info(id)
		t.columns[i] = tableColumn{id: id, col: info.newColumn(Config.InitialTableCapacity)}
	}
	return t
}

func (t *Table) Len() int { return len(t.entities) }

// Reserve grows every column (and the entity list) to hold at least
// capacity rows without further reallocation.
func (t *Table) Reserve(capacity int) {
	if cap(t.entities) < capacity {
		grown := make([]Entity, len(t.entities), capacity)
		copy(grown, t.entities)
		t.entities = grown
	}
	for _, tc := range t.columns {
		tc.col.Reserve(capacity)
	}
}

// getColumn performs the sorted binary search for id's column.
func (t *Table) getColumn(id ComponentID) (column, bool) {
	i := sort.Search(len(t.columns), func(i int) bool { return t.columns[i].id >= id })
	if i < len(t.columns) && t.columns[i].id == id {
		return t.columns[i].col, true
	}
	return nil, false
}

func (t *Table) hasComponent(id ComponentID) bool {
	_, ok := t.getColumn(id)
	return ok
}

// allocRow appends e to the table's own entity order and a zero-valued,
// tick-stamped row to every column; callers then overwrite the columns the
// bundle actually supplies.
func (t *Table) allocRow(e Entity, tick Tick) TableRow {
	row := TableRow(len(t.entities))
	t.entities = append(t.entities, e)
	for _, tc := range t.columns {
		tc.col.AppendZero(tick)
	}
	return row
}

// swapRemoveRow removes row via swap-with-last across the entity order and
// every column simultaneously, returning the entity that was moved into
// row's place (or false if row was already last).
func (t *Table) swapRemoveRow(row TableRow) (moved Entity, ok bool) {
	last := TableRow(len(t.entities) - 1)
	movedEntity := t.entities[last]
	for _, tc := range t.columns {
		tc.col.SwapRemove(int(row))
	}
	if row != last {
		t.entities[row] = movedEntity
	}
	t.entities = t.entities[:last]
	if row != last {
		return movedEntity, true
	}
	return Entity{}, false
}

// moveRowTo copies row's value for every column id shared between t and
// dst (the intersection of their dense sets) verbatim — including ticks —
// then removes row from t via swap-remove. Columns present only in dst are
// left as whatever the caller's bundle writer subsequently populates;
// columns present only in t are dropped along with the row. Returns the
// entity that filled the vacated row in t, if any, and the new TableRow in
// dst.
func (t *Table) moveRowTo(row TableRow, dst *Table, e Entity, tick Tick) (dstRow TableRow, moved Entity, movedOK bool) {
	for _, tc := range dst.columns {
		if src, ok := t.getColumn(tc.id); ok {
			src.MoveRowTo(int(row), tc.col)
		} else {
			tc.col.AppendZero(tick)
		}
	}
	dstRow = TableRow(len(dst.entities))
	dst.entities = append(dst.entities, e)
	moved, movedOK = t.swapRemoveRow(row)
	return dstRow, moved, movedOK
}

func (t *Table) clampTicks(now, maxAge Tick) {
	for _, tc := range t.columns {
		tc.col.ClampTicks(now, maxAge)
	}
}
