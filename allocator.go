package silo

import "fmt"

// entityAllocator hands out unique, ABA-protected Entity handles. It is
// owned by exactly one World (unlike the teacher's package-level
// globalEntryIndex/globalEntities, which couples every Storage to one
// shared namespace — see DESIGN.md).
type entityAllocator struct {
	// generations[i] is the current generation of index i+1 (index 0 is
	// reserved: Entity.index is never 0, mirroring the non-zero niche the
	// source type carries, spec.md §4.1).
	generations []uint32
	free        []uint32 // LIFO stack of freed indices, deterministic reuse order.
	nextIndex   uint32
}

func newEntityAllocator() *entityAllocator {
	return &entityAllocator{nextIndex: 1}
}

// alloc hands out a fresh or recycled Entity. Generation is 0 for a
// brand-new index, previousGeneration+1 (wrapping) for a reused one.
func (a *entityAllocator) alloc() Entity {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		gen := a.generations[idx-1]
		return Entity{index: idx, generation: gen}
	}
	if a.nextIndex == 0 {
		panic(fmt.Sprintf("silo: entity index space exhausted (max %d entities)", ^uint32(0)-1))
	}
	idx := a.nextIndex
	a.nextIndex++
	a.generations = append(a.generations, 0)
	return Entity{index: idx, generation: 0}
}

// free returns e's index to the pool. The next alloc() to reuse it observes
// generation+1.
func (a *entityAllocator) release(e Entity) {
	a.generations[e.index-1] = e.generation + 1
	a.free = append(a.free, e.index)
}

// contains reports whether e is currently live: its index was issued and
// its generation matches the allocator's current record for that index.
func (a *entityAllocator) contains(e Entity) bool {
	if e.index == 0 || int(e.index) > len(a.generations) {
		return false
	}
	return a.generations[e.index-1] == e.generation
}
