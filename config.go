package silo

// ColumnEvents lets a collaborator observe row-level column mutations; the
// teacher exposes the same extension point as table.TableEvents on its
// (external) storage backend. All hooks are optional.
type ColumnEvents struct {
	OnInit    func(componentID ComponentID, row TableRow)
	OnReplace func(componentID ComponentID, row TableRow)
	OnRemove  func(componentID ComponentID, row TableRow)
}

type config struct {
	// InitialTableCapacity is the number of rows a freshly built table
	// reserves before its first geometric growth.
	InitialTableCapacity int
	// InitialMapCapacity is the number of slots a freshly built sparse Map
	// reserves before its first geometric growth.
	InitialMapCapacity int
	// MaxTickAge bounds how far behind the current tick any recorded
	// add/change tick may drift before check_change_ticks clamps it.
	MaxTickAge Tick
	// ColumnEvents fires on every column row mutation, across every table.
	ColumnEvents ColumnEvents
}

// Config holds global, process-wide tunables for table/column growth and
// tick recycling. Mirrors the teacher's package-level `Config config`.
var Config = config{
	InitialTableCapacity: 8,
	InitialMapCapacity:   4,
	MaxTickAge:           1 << 31,
}

// SetColumnEvents installs column mutation hooks used by every table.
func (c *config) SetColumnEvents(ev ColumnEvents) {
	c.ColumnEvents = ev
}
