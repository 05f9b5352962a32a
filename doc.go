/*
Package silo provides the world storage and query engine at the core of an
archetype-based Entity-Component-System (ECS) runtime.

Silo keeps entities that share the same set of component types packed
together in cache-friendly, structure-of-arrays tables, and exposes a
composable query engine for bulk-iterating entities that match a structural
predicate.

Core Concepts:

  - Entity: a generational handle (index + generation) identifying a game
    object.
  - Component: a user-declared, fixed-layout value type, registered once and
    stored either Dense (columnar, one value per row in a shared table) or
    Sparse (a per-type entity-keyed map).
  - Archetype: the unique set of component types some entity currently
    carries.
  - Tick: a wrap-aware counter recording when a component cell was added and
    last changed, used by change-detection query filters.
  - Query: a composition of what to fetch and a structural filter, prepared
    once per world version into a list of matched archetypes.

Basic Usage:

	world := silo.NewWorld()
	position := silo.RegisterComponent[Position](world)
	velocity := silo.RegisterComponent[Velocity](world)

	entities := world.SpawnN(100, position.With(Position{}), velocity.With(Velocity{X: 1}))

	q, _ := silo.NewQuery(world, silo.And(position, velocity))
	for cursor := q.Iter(world); cursor.Next(); {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}
*/
package silo
