package silo

// column is the type-erased view of a single dense component's storage that
// a Table needs in order to hold heterogeneous columns side by side. Each
// concrete instance is a *typedColumn[T]; Go's generics stand in for the
// source's raw-pointer BlobArray plus the per-arity macro expansion the
// source uses for fetch (spec.md §9 DESIGN NOTES).
type column interface {
	Len() int
	Reserve(capacity int)
	// SwapRemove removes row by moving the last row into its place (the
	// BlobArray.swap_remove_not_last operation). The caller is responsible
	// for knowing which entity, if any, occupied the last row.
	SwapRemove(row int)
	// AppendZero pushes a new zero-value row stamped with tick for both
	// added and changed, mirroring Column::init_item.
	AppendZero(tick Tick)
	// MoveRowTo copies row's value and both ticks verbatim onto a freshly
	// pushed row of dst (spec.md §4.4: "transferring the added/changed
	// ticks verbatim"). dst must be a *typedColumn[T] of the same T.
	MoveRowTo(row int, dst column)
	AddedTick(row int) Tick
	ChangedTick(row int) Tick
	SetChangedTick(row int, t Tick)
	ClampTicks(now, maxAge Tick)
}

// typedColumn is a structure-of-arrays column for component type T: a data
// slice plus parallel added/changed TickArrays. Zero-sized T (e.g. marker
// components declared as `struct{}`) need no special casing in Go the way
// the source's raw-pointer BlobArray does — a []struct{} slice never
// allocates backing storage but still tracks a length, which is all Len()
// needs.
type typedColumn[T any] struct {
	data        []T
	added       TickArray
	changed     TickArray
	componentID ComponentID
	events      *ColumnEvents
}

func newTypedColumn[T any](id ComponentID, capacity int, events *ColumnEvents) *typedColumn[T] {
	return &typedColumn[T]{
		data:        make([]T, 0, capacity),
		added:       newTickArray(capacity),
		changed:     newTickArray(capacity),
		componentID: id,
		events:      events,
	}
}

func (c *typedColumn[T]) Len() int { return len(c.data) }

func (c *typedColumn[T]) Reserve(capacity int) {
	if cap(c.data) >= capacity {
		return
	}
	grown := make([]T, len(c.data), capacity)
	copy(grown, c.data)
	c.data = grown
	c.added.reserve(capacity)
	c.changed.reserve(capacity)
}

func (c *typedColumn[T]) growIfFull() {
	if len(c.data) < cap(c.data) {
		return
	}
	next := cap(c.data) * 2
	if next == 0 {
		next = Config.InitialTableCapacity
	}
	c.Reserve(next)
}

// AppendZero implements column.
func (c *typedColumn[T]) AppendZero(tick Tick) {
	c.growIfFull()
	var zero T
	row := TableRow(len(c.data))
	c.data = append(c.data, zero)
	c.added.push(tick)
	c.changed.push(tick)
	if c.events != nil && c.events.OnInit != nil {
		c.events.OnInit(c.componentID, row)
	}
}

// InitWithValue pushes a new row carrying v, with both added and changed
// stamped to tick (Column::init_item).
func (c *typedColumn[T]) InitWithValue(v T, tick Tick) {
	c.growIfFull()
	row := TableRow(len(c.data))
	c.data = append(c.data, v)
	c.added.push(tick)
	c.changed.push(tick)
	if c.events != nil && c.events.OnInit != nil {
		c.events.OnInit(c.componentID, row)
	}
}

// Replace overwrites row's value, keeping added and stamping changed
// (Column::replace_item).
func (c *typedColumn[T]) Replace(row int, v T, tick Tick) {
	c.data[row] = v
	c.changed.set(row, tick)
	if c.events != nil && c.events.OnReplace != nil {
		guardDropPanic(func() { c.events.OnReplace(c.componentID, TableRow(row)) })
	}
}

// Get returns a pointer to row's live value. Callers that obtain this
// pointer for a write must also call SetChangedTick.
func (c *typedColumn[T]) Get(row int) *T { return &c.data[row] }

func (c *typedColumn[T]) SwapRemove(row int) {
	last := len(c.data) - 1
	c.data[row] = c.data[last]
	c.data = c.data[:last]
	c.added.swapRemove(row)
	c.changed.swapRemove(row)
	if c.events != nil && c.events.OnRemove != nil {
		guardDropPanic(func() { c.events.OnRemove(c.componentID, TableRow(row)) })
	}
}

func (c *typedColumn[T]) MoveRowTo(row int, dst column) {
	d, ok := dst.(*typedColumn[T])
	if !ok {
		panic("silo: MoveRowTo type mismatch between columns of the same component id")
	}
	d.growIfFull()
	d.data = append(d.data, c.data[row])
	d.added.push(c.added.get(row))
	d.changed.push(c.changed.get(row))
}

func (c *typedColumn[T]) AddedTick(row int) Tick   { return c.added.get(row) }
func (c *typedColumn[T]) ChangedTick(row int) Tick { return c.changed.get(row) }
func (c *typedColumn[T]) SetChangedTick(row int, t Tick) { c.changed.set(row, t) }

func (c *typedColumn[T]) ClampTicks(now, maxAge Tick) {
	c.added.clampAll(now, maxAge)
	c.changed.clampAll(now, maxAge)
}
