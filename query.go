package silo

// accessKind distinguishes a read claim from a write claim for a query term.
type accessKind int

const (
	accessRead accessKind = iota
	accessWrite
)

// queryTerm is implemented by anything that can appear inside And, Or, Not,
// Added, or Changed: a *ComponentType[T], or one wrapped with Write or
// Optional. Phase 1 (state build) walks these to register components;
// Phase 2 (filter/access build) walks them to populate the structural
// predicate and the AccessTable (spec.md §4.5).
type queryTerm interface {
	componentID() ComponentID
	accessKind() accessKind
	optional() bool
}

type writeTerm struct{ inner queryTerm }

// Write marks term for mutable access: the query's AccessTable records a
// write claim, and QueryData fetch through it stamps the row's changed tick.
func Write(term queryTerm) queryTerm { return writeTerm{term} }

func (w writeTerm) componentID() ComponentID { return w.inner.componentID() }
func (w writeTerm) accessKind() accessKind    { return accessWrite }
func (w writeTerm) optional() bool            { return w.inner.optional() }

type optionalTerm struct{ inner queryTerm }

// Optional marks term as fetched-but-not-required: archetypes lacking it
// still match, and the fetch yields (nil, false) for those rows (spec.md
// §4.5's `Option<&T>` item).
func Optional(term queryTerm) queryTerm { return optionalTerm{term} }

func (o optionalTerm) componentID() ComponentID { return o.inner.componentID() }
func (o optionalTerm) accessKind() accessKind    { return o.inner.accessKind() }
func (o optionalTerm) optional() bool            { return true }

// changeFilter is a non-fetching predicate: it contributes to archetype
// matching (the component must be present) and to per-row filtering
// (added/changed tick newer than the query's last run), but never to the
// AccessTable or the fetch set on its own.
type changeFilter struct {
	id      ComponentID
	onlyAdded bool // true: Added<T>; false: Changed<T> (which also passes on add)
}

// Added matches rows where term's cell was added since the query's last run.
func Added(term queryTerm) queryTerm {
	return changeFilter{id: term.componentID(), onlyAdded: true}
}

// Changed matches rows where term's cell was added or changed since the
// query's last run.
func Changed(term queryTerm) queryTerm {
	return changeFilter{id: term.componentID(), onlyAdded: false}
}

func (c changeFilter) componentID() ComponentID { return c.id }
func (c changeFilter) accessKind() accessKind    { return accessRead }
func (c changeFilter) optional() bool            { return true } // never forces a fetch

// QueryOption configures a Query at construction (NewQuery), generalizing
// the teacher's And/Or/Not QueryNode tree (query.go) into named builder
// functions plus the change-detection filters spec.md §4.5 adds.
type QueryOption func(*queryBuilder)

type queryBuilder struct {
	required componentSet
	excluded componentSet
	anyOf    []componentSet
	fetch    []queryTerm
	changes  []changeFilter
}

// And requires every term's component to be present (spec.md's With<C>),
// and additionally fetches each non-change, non-excluded term.
func And(terms ...queryTerm) QueryOption {
	return func(b *queryBuilder) {
		for _, t := range terms {
			if cf, ok := t.(changeFilter); ok {
				b.changes = append(b.changes, cf)
				b.required.Mark(cf.id)
				continue
			}
			b.fetch = append(b.fetch, t)
			if !t.optional() {
				b.required.Mark(t.componentID())
			}
		}
	}
}

// Or requires at least one of terms' components to be present
// (spec.md §4.1's any-of classification), without fetching any of them.
func Or(terms ...queryTerm) QueryOption {
	return func(b *queryBuilder) {
		var set componentSet
		for _, t := range terms {
			set.Mark(t.componentID())
		}
		b.anyOf = append(b.anyOf, set)
	}
}

// Not excludes archetypes carrying any of terms' components (Without<C>).
func Not(terms ...queryTerm) QueryOption {
	return func(b *queryBuilder) {
		for _, t := range terms {
			b.excluded.Mark(t.componentID())
		}
	}
}

// Query is a prepared state/filter/access triple: what to fetch
// (fetch terms), the structural predicate (required/excluded/anyOf), and
// the AccessTable computed from the fetch terms (spec.md §4.5 Phases 1-2).
type Query struct {
	required componentSet
	excluded componentSet
	anyOf    []componentSet
	fetch    []queryTerm
	changes  []changeFilter
	access   *AccessTable
	writeSet componentSet // fetch terms wrapped in Write, stamped on GetFromCursor

	lastRun Tick
	thisRun Tick

	matched        []ArcheID
	matchedVersion int
}

// NewQuery builds a Query against w, registering every fetched component
// (auto-registering unseen types as Dense, per spec.md §7's "writing APIs
// register on demand" — though in practice components are usually already
// registered via RegisterComponent before being used in a query), and
// returns an AccessConflictError if two terms claim overlapping mutable
// access (spec.md §4.5 Phase 2(b)).
func NewQuery(w *World, opts ...QueryOption) (*Query, error) {
	b := &queryBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	access := newAccessTable()
	var writeSet componentSet
	for _, t := range b.fetch {
		var err error
		if t.accessKind() == accessWrite {
			err = access.claimWrite(t.componentID())
			writeSet.Mark(t.componentID())
		} else {
			err = access.claimRead(t.componentID())
		}
		if err != nil {
			return nil, err
		}
	}
	return &Query{
		required:       b.required,
		excluded:       b.excluded,
		anyOf:          b.anyOf,
		fetch:          b.fetch,
		changes:        b.changes,
		access:         access,
		writeSet:       writeSet,
		matchedVersion: -1,
		thisRun:        w.tick,
	}, nil
}

// Access exposes q's computed AccessTable, for a collaborator scheduler to
// check against other concurrently-scheduled queries before running them
// in parallel (spec.md §5).
func (q *Query) Access() *AccessTable { return q.access }

// refreshMatches re-runs Phase 3 (archetype selection) if the world's
// archetype vector has grown since the query was last prepared (spec.md
// §4.5: "once per world version").
func (q *Query) refreshMatches(w *World) {
	if q.matchedVersion == len(w.archetypes) {
		return
	}
	q.matched = q.matched[:0]
	for _, arche := range w.archetypes {
		if !arche.matches(q.required, q.excluded, q.anyOf) {
			continue
		}
		q.matched = append(q.matched, arche.id)
	}
	q.matchedVersion = len(w.archetypes)
}

// Iter prepares (if needed) and returns a Cursor walking every entity
// matching q, as of w's current tick. last_run for this iteration is the
// tick recorded the previous time Iter was called on this Query (0 on the
// first call), matching spec.md §4.7's per-system last_run/this_run pair.
func (q *Query) Iter(w *World) *Cursor {
	q.refreshMatches(w)
	lastRun := q.lastRun
	q.lastRun = w.tick
	q.thisRun = w.tick
	return newCursor(q, w, lastRun, w.tick)
}

// Get positions a Cursor at e's current row without advancing iteration
// state, for random access (spec.md §6 `query.get(entity)`). Returns
// EntityNotFoundError if e is not live, QueryDoesNotMatchError if e is live
// but its archetype does not satisfy q's filter.
func (q *Query) Get(w *World, e Entity) (*Cursor, error) {
	loc, ok := w.location(e)
	if !ok {
		return nil, EntityNotFoundError{Entity: e}
	}
	arche := w.archetypes[loc.ArchetypeID]
	if !arche.matches(q.required, q.excluded, q.anyOf) {
		return nil, QueryDoesNotMatchError{Entity: e}
	}
	cur := newCursor(q, w, q.lastRun, w.tick)
	cur.positionAt(loc)
	return cur, nil
}
