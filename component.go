package silo

import "reflect"

// ComponentID is a dense, stable identifier assigned to a component type the
// first time it is registered in a World.
type ComponentID uint32

// StorageClass selects how a component's values are stored: Dense (columnar,
// one value per row in a shared table) or Sparse (a per-type entity-keyed
// map), per spec.md §2.
type StorageClass int

const (
	Dense StorageClass = iota
	Sparse
)

func (s StorageClass) String() string {
	if s == Sparse {
		return "Sparse"
	}
	return "Dense"
}

// CloneBehavior controls what World.CloneEntity does with a component when
// duplicating a live entity, recovered from original_source's
// ComponentCloneBehavior (entity/clone.rs).
type CloneBehavior int

const (
	// CloneBehaviorClone copies the value with Go's assignment semantics
	// (the default for any registered component).
	CloneBehaviorClone CloneBehavior = iota
	// CloneBehaviorCustom invokes ComponentInfo.CustomClone instead of a
	// plain copy.
	CloneBehaviorCustom
	// CloneBehaviorDeny causes CloneEntity to skip the component entirely.
	CloneBehaviorDeny
)

// ComponentInfo is the per-component-id registration record: type identity,
// storage class, optional required-components descriptor, and clone
// behavior. Layout/drop-function concerns that the source's reflection
// subsystem would track are represented here only insofar as the query/
// storage engine needs them (column construction, zero-value defaults);
// full type reflection is explicitly out of scope (spec.md §1, §6).
type ComponentInfo struct {
	ID        ComponentID
	Type      reflect.Type
	Storage   StorageClass
	Requires  []requiredComponent
	Clone     CloneBehavior
	CustomClone func(src, dst any)

	newColumn func(capacity int) column
	newMap    func(capacity int) sparseMap

	// writeDense and writeSparse box/unbox a boxed `any` value into the
	// typed column or map backing this component, letting bundle.go operate
	// on heterogeneous bundles without a type switch per component.
	writeDense  func(col column, row int, value any, tick Tick)
	writeSparse func(m sparseMap, e Entity, value any, tick Tick)
	zeroValue   func() any

	// cloneDense and cloneSparse produce a boxed copy of a cell's value for
	// World.CloneEntity, honoring Clone/CustomClone (SPEC_FULL.md §4 entity
	// clone behavior).
	cloneDense  func(col column, row int) any
	cloneSparse func(m sparseMap, e Entity) any
}

// requiredComponent names a component transitively required by another and
// the default constructor to invoke when the bundle itself doesn't supply a
// value, per spec.md §4.4 step 4 and the "required components" descriptor
// in original_source's component/tools.rs.
type requiredComponent struct {
	id      ComponentID
	factory func() any
}

// componentRegistry maps types to ids and holds every ComponentInfo for one
// World. Scoped per-world, unlike the teacher's globalEntryIndex (see
// DESIGN.md).
type componentRegistry struct {
	byType map[reflect.Type]ComponentID
	infos  []ComponentInfo
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{byType: make(map[reflect.Type]ComponentID)}
}

func (r *componentRegistry) idFor(t reflect.Type) (ComponentID, bool) {
	id, ok := r.byType[t]
	return id, ok
}

func (r *componentRegistry) info(id ComponentID) (*ComponentInfo, bool) {
	if int(id) >= len(r.infos) {
		return nil, false
	}
	return &r.infos[id], true
}

func (r *componentRegistry) register(t reflect.Type, storage StorageClass, newColumn func(int) column, newMap func(int) sparseMap) ComponentID {
	if id, ok := r.byType[t]; ok {
		return id
	}
	id := ComponentID(len(r.infos))
	r.infos = append(r.infos, ComponentInfo{
		ID:        id,
		Type:      t,
		Storage:   storage,
		newColumn: newColumn,
		newMap:    newMap,
	})
	r.byType[t] = id
	return id
}
