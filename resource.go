package silo

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// ResData is the per-resource-type storage record: the value itself (boxed
// as any, since a resource is a singleton of arbitrary Go type), a validity
// flag, and the add/change ticks spec.md §4.6 assigns it. MainThreadOnly
// mirrors original_source's non-Send resource tag (system/param/resource.rs)
// — no scheduler exists in this core, so the flag is exposed for a
// collaborator to read rather than enforced here.
type ResData struct {
	value          any
	valid          bool
	added          Tick
	changed        Tick
	MainThreadOnly bool
}

// resourceRegistry maps reflect.Type to a slot in a free-list-reused slice,
// combining arche's typed-slot-array approach with lazyecs's free-id reuse.
type resourceRegistry struct {
	byType map[reflect.Type]int
	slots  []ResData
	free   []int
}

func newResourceRegistry() *resourceRegistry {
	return &resourceRegistry{byType: make(map[reflect.Type]int)}
}

func (r *resourceRegistry) slotFor(t reflect.Type) int {
	if id, ok := r.byType[t]; ok {
		return id
	}
	var id int
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, ResData{})
		id = len(r.slots) - 1
	}
	r.byType[t] = id
	return id
}

func (r *resourceRegistry) existingSlot(t reflect.Type) (int, bool) {
	id, ok := r.byType[t]
	return id, ok
}

// Resource returns a read-only view of T's current value and its ticks, or
// ok=false if T was never inserted (ResourceUninitializedError, spec.md §7).
func Resource[T any](w *World) (value *T, added, changed Tick, ok bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	id, exists := w.resources.existingSlot(t)
	if !exists || !w.resources.slots[id].valid {
		return nil, 0, 0, false
	}
	slot := &w.resources.slots[id]
	v := slot.value.(*T)
	return v, slot.added, slot.changed, true
}

// MustResource is Resource's panicking counterpart, for systems that treat a
// missing resource as a broken invariant rather than a recoverable absence
// (spec.md §7: a "require"-style accessor "panics with a descriptive
// message" when the resource was never inserted).
func MustResource[T any](w *World) *T {
	v, _, _, ok := Resource[T](w)
	if !ok {
		t := reflect.TypeOf((*T)(nil)).Elem()
		panic(bark.AddTrace(ResourceUninitializedError{TypeName: t.String()}))
	}
	return v
}

// ResourceMut is Resource's mutable counterpart; obtaining it stamps
// changed to the world's current tick (spec.md §4.6's get(R, ...) -> Mut).
func ResourceMut[T any](w *World) (value *T, ok bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	id, exists := w.resources.existingSlot(t)
	if !exists || !w.resources.slots[id].valid {
		return nil, false
	}
	slot := &w.resources.slots[id]
	slot.changed = w.tick
	return slot.value.(*T), true
}

// InsertResource installs v as the singleton instance of T. If T already
// held a value, it is replaced and added is left untouched — added is only
// (re)stamped on the invalid->valid transition (spec.md §4.6).
func InsertResource[T any](w *World, v T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	id := w.resources.slotFor(t)
	slot := &w.resources.slots[id]
	transitioning := !slot.valid
	boxed := new(T)
	*boxed = v
	slot.value = boxed
	slot.valid = true
	slot.changed = w.tick
	if transitioning {
		slot.added = w.tick
	}
}

// RemoveResource marks T's slot invalid and returns its last value, or
// ok=false if it was never valid.
func RemoveResource[T any](w *World) (v T, ok bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	id, exists := w.resources.existingSlot(t)
	if !exists || !w.resources.slots[id].valid {
		return v, false
	}
	slot := &w.resources.slots[id]
	boxed := slot.value.(*T)
	slot.value = nil
	slot.valid = false
	delete(w.resources.byType, t)
	w.resources.free = append(w.resources.free, id)
	return *boxed, true
}

// SetResourceMainThreadOnly tags T's resource (inserting an invalid,
// not-yet-populated slot if needed) as restricted to main-thread systems.
func SetResourceMainThreadOnly[T any](w *World, mainThreadOnly bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	id := w.resources.slotFor(t)
	w.resources.slots[id].MainThreadOnly = mainThreadOnly
}
