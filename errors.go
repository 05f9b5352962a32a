package silo

import "fmt"

// EntityNotFoundError is returned when an operation addresses an entity
// whose generation (or index) is not currently live.
type EntityNotFoundError struct {
	Entity Entity
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity not found: %v", e.Entity)
}

// QueryDoesNotMatchError is returned by Query.Get when the entity exists but
// its archetype is excluded by the query's filter.
type QueryDoesNotMatchError struct {
	Entity Entity
}

func (e QueryDoesNotMatchError) Error() string {
	return fmt.Sprintf("entity %v does not match query filter", e.Entity)
}

// ComponentNotRegisteredError is returned by lookup-by-type-id APIs when the
// requested component id has no registered ComponentInfo.
type ComponentNotRegisteredError struct {
	ComponentID ComponentID
}

func (e ComponentNotRegisteredError) Error() string {
	return fmt.Sprintf("component id %d is not registered", e.ComponentID)
}

// AccessConflictKind describes the nature of an AccessConflictError.
type AccessConflictKind int

const (
	// ConflictMutableAlias is raised when two claims in the same query both
	// request mutable access to the same component.
	ConflictMutableAlias AccessConflictKind = iota
	// ConflictReadWrite is raised when one claim reads and another writes
	// the same component within a single query.
	ConflictReadWrite
)

func (k AccessConflictKind) String() string {
	switch k {
	case ConflictMutableAlias:
		return "mutable alias"
	case ConflictReadWrite:
		return "read/write overlap"
	default:
		return "unknown conflict"
	}
}

// AccessConflictError is returned at query construction if two structural
// claims within the query overlap in a way the scheduler could not make
// safe (spec.md §4.5 Phase 2(b), §5).
type AccessConflictError struct {
	ComponentID ComponentID
	Kind        AccessConflictKind
}

func (e AccessConflictError) Error() string {
	return fmt.Sprintf("access conflict on component %d: %s", e.ComponentID, e.Kind)
}

// ResourceUninitializedError is returned (or panicked with, for the
// non-optional resource accessors) when a resource has never been inserted.
type ResourceUninitializedError struct {
	TypeName string
}

func (e ResourceUninitializedError) Error() string {
	return fmt.Sprintf("resource %s was never inserted", e.TypeName)
}

// LockedWorldError is returned when a structural mutation is attempted
// while the world is locked by an in-progress query iteration.
type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is locked by an in-progress query iteration"
}

// EntityRelationError is returned by SetParent when the child already has a
// parent assigned.
type EntityRelationError struct {
	Child, Parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("entity %v already has parent %v", e.Child, e.Parent)
}

// ComponentExistsError indicates a component is already present on an
// entity; most callers treat this as a benign no-op rather than an error.
type ComponentExistsError struct {
	ComponentID ComponentID
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component %d already present on entity", e.ComponentID)
}

// ComponentNotFoundError indicates a component is absent from an entity's
// archetype; most callers treat this as a benign no-op rather than an error.
type ComponentNotFoundError struct {
	ComponentID ComponentID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %d not present on entity", e.ComponentID)
}
