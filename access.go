package silo

import "reflect"

// AccessTable records the read/write claims a query (or, in a fuller
// scheduler, a system) makes on component ids and resource types, so
// overlapping claims across concurrently-running systems can be rejected
// before they run (spec.md §4.5 Phase 2(b), §5). Ported from
// original_source's world/access/component.rs.
type AccessTable struct {
	componentReads  componentSet
	componentWrites componentSet
	resourceReads   map[reflect.Type]bool
	resourceWrites  map[reflect.Type]bool
}

func newAccessTable() *AccessTable {
	return &AccessTable{
		resourceReads:  make(map[reflect.Type]bool),
		resourceWrites: make(map[reflect.Type]bool),
	}
}

// claimRead records a read of id, failing if another claim in this table
// already writes it.
func (a *AccessTable) claimRead(id ComponentID) error {
	if a.componentWrites.Has(id) {
		return AccessConflictError{ComponentID: id, Kind: ConflictReadWrite}
	}
	a.componentReads.Mark(id)
	return nil
}

// claimWrite records a write of id, failing if another claim already reads
// or writes it (mutable aliasing is never permitted within one query).
func (a *AccessTable) claimWrite(id ComponentID) error {
	if a.componentWrites.Has(id) {
		return AccessConflictError{ComponentID: id, Kind: ConflictMutableAlias}
	}
	if a.componentReads.Has(id) {
		return AccessConflictError{ComponentID: id, Kind: ConflictReadWrite}
	}
	a.componentWrites.Mark(id)
	return nil
}

// ConflictsWith reports whether a and other make any overlapping claim,
// the check a parallel scheduler (out of scope here, spec.md §5) would run
// between concurrently scheduled systems.
func (a *AccessTable) ConflictsWith(other *AccessTable) bool {
	if a.componentWrites.ContainsAny(other.componentWrites) {
		return true
	}
	if a.componentWrites.ContainsAny(other.componentReads) {
		return true
	}
	if a.componentReads.ContainsAny(other.componentWrites) {
		return true
	}
	for t := range a.resourceWrites {
		if other.resourceWrites[t] || other.resourceReads[t] {
			return true
		}
	}
	for t := range a.resourceReads {
		if other.resourceWrites[t] {
			return true
		}
	}
	return false
}
