package silo

// Deferred structural-mutation operations: when a system wants to spawn,
// despawn, insert, or remove while a Cursor iteration holds the world lock,
// applying immediately would tear the walk in progress. These Enqueue*
// helpers apply immediately if the world is unlocked, or queue onto
// World.opQueue for automatic replay once the last lock releases (spec.md
// §5's "command buffers apply at synchronization barriers between
// systems"), generalizing the teacher's EntityOperation/Apply(Storage) pair
// (operation_queue.go) from a single Storage to the whole World.

type spawnOperation struct{ items []BundleItem }

func (op spawnOperation) apply(w *World) { w.Spawn(op.items...) }

// EnqueueSpawn spawns items now, or defers the spawn until the world next
// fully unlocks.
func EnqueueSpawn(w *World, items ...BundleItem) {
	if w.Locked() {
		w.enqueue(spawnOperation{items: items})
		return
	}
	w.Spawn(items...)
}

type despawnOperation struct{ entity Entity }

func (op despawnOperation) apply(w *World) { w.Despawn(op.entity) }

// EnqueueDespawn despawns e now, or defers the despawn until the world next
// fully unlocks.
func EnqueueDespawn(w *World, e Entity) {
	if w.Locked() {
		w.enqueue(despawnOperation{entity: e})
		return
	}
	w.Despawn(e)
}

type insertOperation struct {
	entity Entity
	items  []BundleItem
}

func (op insertOperation) apply(w *World) { _ = w.Insert(op.entity, op.items...) }

// EnqueueInsert inserts items onto e now, or defers the insert until the
// world next fully unlocks. Any error from a deferred apply (e.g. e having
// since despawned) is dropped, matching a command buffer's no-reply
// contract.
func EnqueueInsert(w *World, e Entity, items ...BundleItem) {
	if w.Locked() {
		w.enqueue(insertOperation{entity: e, items: items})
		return
	}
	_ = w.Insert(e, items...)
}

type removeOperation struct {
	entity Entity
	remove func(e Entity)
}

func (op removeOperation) apply(w *World) { op.remove(op.entity) }

// EnqueueRemove defers removal of component T from e. The type parameter is
// resolved at the call site and closed over, since the deferred op queue
// itself is not generic.
func EnqueueRemove[T any](w *World, e Entity) {
	op := removeOperation{entity: e, remove: func(e Entity) { _, _ = Remove[T](w, e) }}
	if w.Locked() {
		w.enqueue(op)
		return
	}
	op.apply(w)
}
