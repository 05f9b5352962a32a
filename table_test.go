package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableAllocAndSwapRemove(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	tableID := w.getOrCreateTable([]ComponentID{position.ID()})
	table := w.tables[tableID]

	e1 := Entity{index: 1}
	e2 := Entity{index: 2}
	e3 := Entity{index: 3}
	table.allocRow(e1, 1)
	table.allocRow(e2, 1)
	table.allocRow(e3, 1)
	assert.Equal(t, 3, table.Len())

	moved, ok := table.swapRemoveRow(0)
	assert.True(t, ok)
	assert.Equal(t, e3, moved, "the last row swaps into the removed row's place")
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, e3, table.entities[0])
}

func TestTableSwapRemoveLastRowNoSwap(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	tableID := w.getOrCreateTable([]ComponentID{position.ID()})
	table := w.tables[tableID]

	e1 := Entity{index: 1}
	table.allocRow(e1, 1)
	_, ok := table.swapRemoveRow(0)
	assert.False(t, ok, "removing the only row moves nothing")
	assert.Equal(t, 0, table.Len())
}

func TestTableGetColumnBinarySearch(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	velocity := RegisterComponent[Velocity](w)
	tableID := w.getOrCreateTable([]ComponentID{position.ID(), velocity.ID()})
	table := w.tables[tableID]

	_, ok := table.getColumn(position.ID())
	assert.True(t, ok)
	_, ok = table.getColumn(velocity.ID())
	assert.True(t, ok)

	health := RegisterComponent[Health](w)
	_, ok = table.getColumn(health.ID())
	assert.False(t, ok)
}

func TestTableReserveGrowsWithoutLosingData(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	tableID := w.getOrCreateTable([]ComponentID{position.ID()})
	table := w.tables[tableID]

	e := Entity{index: 1}
	table.allocRow(e, 1)
	table.Reserve(256)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, e, table.entities[0])
}

func TestGetOrCreateTableDeduplicatesByDenseSet(t *testing.T) {
	w := NewWorld()
	position := RegisterComponent[Position](w)
	velocity := RegisterComponent[Velocity](w)

	a := w.getOrCreateTable([]ComponentID{position.ID(), velocity.ID()})
	b := w.getOrCreateTable([]ComponentID{velocity.ID(), position.ID()})
	assert.Equal(t, a, b, "dense set identity ignores insertion order")
}
