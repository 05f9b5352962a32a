package silo

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// World owns every piece of state spec.md §3 assigns it: the component
// registry, the entity allocator, the archetype/table/sparse-map vectors,
// the resource registry, the current tick, and the EntityLocation table.
// Unlike the teacher's package-level globalEntryIndex/globalEntities, all of
// it is instance state — see DESIGN.md.
type World struct {
	registry  *componentRegistry
	allocator *entityAllocator

	archetypes []*Archetype
	archByKey  map[string]ArcheID
	emptyArche ArcheID

	tables     []*Table
	tableByKey map[string]TableID

	sparseMaps map[ComponentID]sparseMap

	resources *resourceRegistry

	locations []EntityLocation // indexed by Entity.index-1; zero value is the sentinel "no location"

	tick      Tick
	lastCheck Tick

	// locks generalizes the teacher's storage.locks recursion counter
	// (storage.go) from one Storage to the whole World: a query iteration
	// marks a bit for its duration, and structural mutation attempted while
	// any bit is set is deferred onto opQueue instead of applied in place.
	locks    mask.Mask256
	nextLock uint32
	opQueue  []worldOperation

	parents map[Entity]Entity
}

const noLocation = ^uint32(0)

// NewWorld constructs an empty World: one archetype (the empty set), no
// tables, no registered components.
func NewWorld() *World {
	w := &World{
		registry:   newComponentRegistry(),
		allocator:  newEntityAllocator(),
		archByKey:  make(map[string]ArcheID),
		tableByKey: make(map[string]TableID),
		sparseMaps: make(map[ComponentID]sparseMap),
		resources:  newResourceRegistry(),
		tick:       1,
	}
	empty := newArchetype(0, nil, nil, w.getOrCreateTable(nil))
	w.archetypes = append(w.archetypes, empty)
	w.archByKey[empty.set.key()] = 0
	w.emptyArche = 0
	return w
}

// Tick returns the world's current change-detection tick.
func (w *World) Tick() Tick { return w.tick }

// Locked reports whether any query iteration currently holds a lock,
// meaning structural mutation must be deferred.
func (w *World) Locked() bool { return !w.locks.IsEmpty() }

func (w *World) addLock() uint32 {
	bit := w.nextLock
	w.nextLock++
	w.locks.Mark(bit)
	return bit
}

func (w *World) removeLock(bit uint32) {
	w.locks.Unmark(bit)
	if w.locks.IsEmpty() {
		w.drainQueue()
	}
}

func (w *World) drainQueue() {
	ops := w.opQueue
	w.opQueue = nil
	for _, op := range ops {
		op.apply(w)
	}
}

func (w *World) enqueue(op worldOperation) {
	w.opQueue = append(w.opQueue, op)
}

// worldOperation is a deferred structural mutation, applied once the world
// fully unlocks (spec.md §5's command-buffer requirement), generalized from
// the teacher's EntityOperation/Apply(Storage) pair.
type worldOperation interface {
	apply(w *World)
}

// --- component registration -------------------------------------------------

// registerComponentID assigns (or returns the existing) ComponentID for T,
// storing its storage class and constructors for later column/map creation.
func registerComponentID[T any](w *World, storage StorageClass) ComponentID {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if id, ok := w.registry.idFor(t); ok {
		return id
	}
	events := &Config.ColumnEvents
	id := w.registry.register(t, storage, nil, nil)
	info := &w.registry.infos[id]
	info.newColumn = func(capacity int) column {
		return newTypedColumn[T](id, capacity, events)
	}
	info.newMap = func(capacity int) sparseMap {
		return newTypedSparseMap[T](id, events)
	}
	info.writeDense = func(col column, row int, value any, tick Tick) {
		col.(*typedColumn[T]).Replace(row, value.(T), tick)
	}
	info.writeSparse = func(m sparseMap, e Entity, value any, tick Tick) {
		m.(*typedSparseMap[T]).Replace(e, value.(T), tick)
	}
	info.zeroValue = func() any {
		var zero T
		return zero
	}
	info.cloneDense = func(col column, row int) any {
		v := *col.(*typedColumn[T]).Get(row)
		if info.Clone == CloneBehaviorCustom && info.CustomClone != nil {
			var dst T
			info.CustomClone(v, &dst)
			return dst
		}
		return v
	}
	info.cloneSparse = func(m sparseMap, e Entity) any {
		ptr, _ := m.(*typedSparseMap[T]).Get(e)
		v := *ptr
		if info.Clone == CloneBehaviorCustom && info.CustomClone != nil {
			var dst T
			info.CustomClone(v, &dst)
			return dst
		}
		return v
	}
	return id
}

// RequireComponent registers that `dependent` transitively requires
// `required`, auto-inserting `factory()` on spawn/insert when the bundle
// does not explicitly supply it (spec.md §3 "required components", fully
// implemented per SPEC_FULL.md §4).
func RequireComponent[Dependent, Required any](w *World, factory func() Required) {
	dependentID := registerComponentID[Dependent](w, Dense)
	requiredID := registerComponentID[Required](w, Dense)
	info, _ := w.registry.info(dependentID)
	info.Requires = append(info.Requires, requiredComponent{
		id:      requiredID,
		factory: func() any { return factory() },
	})
}

// GetComponentID returns the ComponentID registered for T, if any.
func GetComponentID[T any](w *World) (ComponentID, bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return w.registry.idFor(t)
}

// mustInfo panics with a trace if id has no registration; used on
// internal paths where an unregistered id indicates a broken invariant
// rather than caller error (spec.md §7's panic-on-broken-invariant policy).
func (w *World) mustInfo(id ComponentID) *ComponentInfo {
	info, ok := w.registry.info(id)
	if !ok {
		panic(bark.AddTrace(fmt.Errorf("silo: component id %d has no registration", id)))
	}
	return info
}

// --- archetype/table lookup --------------------------------------------------

// getOrCreateTable returns the TableId for the dense component set,
// creating a fresh Table if this exact dense set has not been seen before
// (spec.md §4.3 "looks up or allocates a TableId keyed by the dense subset").
func (w *World) getOrCreateTable(dense []ComponentID) TableID {
	var key componentSet
	for _, id := range dense {
		key.Mark(id)
	}
	k := key.key()
	if id, ok := w.tableByKey[k]; ok {
		return id
	}
	id := TableID(len(w.tables))
	w.tables = append(w.tables, newTable(id, dense, w.registry))
	w.tableByKey[k] = id
	return id
}

// getOrCreateArchetype returns the Archetype matching set exactly,
// creating it (and its table, if no existing table shares the dense
// subset) on demand (spec.md §4.3).
func (w *World) getOrCreateArchetype(set componentSet) *Archetype {
	k := set.key()
	if id, ok := w.archByKey[k]; ok {
		return w.archetypes[id]
	}
	var dense, sparse []ComponentID
	for _, id := range set.sorted() {
		info := w.mustInfo(id)
		if info.Storage == Dense {
			dense = append(dense, id)
		} else {
			sparse = append(sparse, id)
		}
	}
	tableID := w.getOrCreateTable(dense)
	id := ArcheID(len(w.archetypes))
	arche := newArchetype(id, dense, sparse, tableID)
	w.archetypes = append(w.archetypes, arche)
	w.archByKey[k] = id
	return arche
}

func (w *World) archetypeAfterInsert(from *Archetype, id ComponentID) *Archetype {
	if cached, ok := from.edges.afterInsert[id]; ok {
		return w.archetypes[cached]
	}
	set := from.set.clone()
	set.Mark(id)
	to := w.getOrCreateArchetype(set)
	from.edges.afterInsert[id] = to.id
	return to
}

func (w *World) archetypeAfterRemove(from *Archetype, id ComponentID) *Archetype {
	if cached, ok := from.edges.afterRemove[id]; ok {
		return w.archetypes[cached]
	}
	set := from.set.clone()
	set.Unmark(id)
	to := w.getOrCreateArchetype(set)
	from.edges.afterRemove[id] = to.id
	return to
}

// --- entity location ---------------------------------------------------------

func (w *World) ensureLocationSlot(idx uint32) {
	for uint32(len(w.locations)) < idx {
		w.locations = append(w.locations, EntityLocation{ArcheRow: ArcheRow(noLocation), TableRow: TableRow(noLocation)})
	}
}

func (w *World) setLocation(e Entity, loc EntityLocation) {
	w.ensureLocationSlot(e.index)
	w.locations[e.index-1] = loc
}

func (w *World) location(e Entity) (EntityLocation, bool) {
	if !w.allocator.contains(e) {
		return EntityLocation{}, false
	}
	if int(e.index) > len(w.locations) {
		return EntityLocation{}, false
	}
	return w.locations[e.index-1], true
}

// Contains reports whether e is currently a live entity in this world.
func (w *World) Contains(e Entity) bool { return w.allocator.contains(e) }

// getOrCreateSparseMap returns id's world-wide Map, creating it on first use.
func (w *World) getOrCreateSparseMap(id ComponentID) sparseMap {
	if m, ok := w.sparseMaps[id]; ok {
		return m
	}
	info := w.mustInfo(id)
	m := info.newMap(Config.InitialMapCapacity)
	w.sparseMaps[id] = m
	return m
}

// expandRequired walks the transitive required-components closure of set
// (SPEC_FULL.md §4), marking every newly-required id into set and returning
// each as a requiredComponent so the caller can invoke its default
// constructor.
func (w *World) expandRequired(set *componentSet) []requiredComponent {
	var extras []requiredComponent
	var walk func(id ComponentID)
	walk = func(id ComponentID) {
		info := w.mustInfo(id)
		for _, req := range info.Requires {
			if set.Has(req.id) {
				continue
			}
			set.Mark(req.id)
			extras = append(extras, req)
			walk(req.id)
		}
	}
	for _, id := range set.sorted() {
		walk(id)
	}
	return extras
}

// resolveArchetype returns the Archetype for set, building it (and any
// intermediate archetypes along the way) via the memoized after-insert
// edges starting from the empty archetype (spec.md §4.3).
func (w *World) resolveArchetype(set componentSet) *Archetype {
	current := w.archetypes[w.emptyArche]
	for _, id := range set.sorted() {
		current = w.archetypeAfterInsert(current, id)
	}
	return current
}

// applyWrite writes value for component id onto e's row, dispatching to the
// dense table column or the sparse map as appropriate, creating the sparse
// row on first write (spec.md §4.4 step 4).
func (w *World) applyWrite(arche *Archetype, table *Table, e Entity, tableRow TableRow, id ComponentID, value any) {
	info := w.mustInfo(id)
	if arche.hasDense(id) {
		col, ok := table.getColumn(id)
		if !ok {
			panic(bark.AddTrace(fmt.Errorf("silo: dense component %d missing from its archetype's table", id)))
		}
		info.writeDense(col, int(tableRow), value, w.tick)
		return
	}
	m := w.getOrCreateSparseMap(id)
	m.EnsureRow(e, w.tick)
	info.writeSparse(m, e, value, w.tick)
}

func (w *World) patchLocationArcheRow(e Entity, row ArcheRow) {
	loc, ok := w.location(e)
	if !ok {
		return
	}
	loc.ArcheRow = row
	w.setLocation(e, loc)
}

func (w *World) patchLocationTableRow(e Entity, row TableRow) {
	loc, ok := w.location(e)
	if !ok {
		return
	}
	loc.TableRow = row
	w.setLocation(e, loc)
}

// HasComponent reports whether e carries a component with the given id.
func (w *World) HasComponent(e Entity, id ComponentID) bool {
	loc, ok := w.location(e)
	if !ok {
		return false
	}
	return w.archetypes[loc.ArchetypeID].hasComponent(id)
}
