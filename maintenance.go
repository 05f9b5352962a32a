package silo

// ClearTrackers advances the world's current tick by one, publishing the
// previous value as the next query's last_run and the new value as its
// this_run (spec.md §4.7). A collaborator scheduler calls this once between
// system runs; the core does not advance the tick on its own.
func (w *World) ClearTrackers() {
	w.tick++
}

// CheckChangeTicks walks every column, sparse map, and resource slot and
// clamps any tick whose age relative to the current tick exceeds
// Config.MaxTickAge, so wrap-aware comparisons stay unambiguous indefinitely
// (spec.md §4.7's check-ticks pass). Cheap to call often: it no-ops unless
// the distance since the last pass has actually grown large.
func (w *World) CheckChangeTicks() {
	if w.lastCheck.age(w.tick) < Config.MaxTickAge/2 {
		return
	}
	for _, t := range w.tables {
		t.clampTicks(w.tick, Config.MaxTickAge)
	}
	for _, m := range w.sparseMaps {
		m.ClampTicks(w.tick, Config.MaxTickAge)
	}
	for i := range w.resources.slots {
		slot := &w.resources.slots[i]
		if !slot.valid {
			continue
		}
		slot.added = slot.added.clampTo(w.tick, Config.MaxTickAge)
		slot.changed = slot.changed.clampTo(w.tick, Config.MaxTickAge)
	}
	w.lastCheck = w.tick
}
