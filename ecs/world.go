package ecs

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// World is the explicitly owned root of one game session: the entity
// allocator, the component registry, and the session resources, behind a
// single reader/writer lock. There is no process-wide registry; systems are
// handed a *World and everything hangs off it.
//
// Locking contract: every mutation (spawn, despawn, batch insert/remove)
// happens under the write lock for its whole duration, so a reader can never
// observe a half-applied batch. Read-only queries share the read lock.
type World struct {
	id uuid.UUID

	mu        sync.RWMutex
	entities  *Entities
	registry  *ComponentRegistry
	resources *Resources

	// Spawn counts per batch shape fingerprint, for diagnostics.
	spawnCounts map[uint64]int64
}

// NewWorld creates an empty world with a fresh session id.
func NewWorld() *World {
	return &World{
		id:          uuid.New(),
		entities:    NewEntities(),
		registry:    NewComponentRegistry(),
		resources:   newResources(),
		spawnCounts: make(map[uint64]int64),
	}
}

// ID returns the world's session id.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Resources returns the world's resource set. Populate it during setup,
// before systems run; access from inside systems goes through Res fields.
func (w *World) Resources() *Resources {
	return w.resources
}

// Read runs fn with shared read access to the registry. Pointers obtained
// from the registry must not escape fn.
func (w *World) Read(fn func(r *ComponentRegistry)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(w.registry)
}

// Write runs fn with exclusive access to the registry. Use this to apply a
// group of registry operations as one atomic unit.
func (w *World) Write(fn func(r *ComponentRegistry)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.registry)
}

// CreateEntity allocates a live entity with no components attached.
func (w *World) CreateEntity() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	entity, _ := w.entities.Spawn()
	return entity
}

// Despawn removes every component the entity holds and frees its slot, as
// one exclusive-scope operation.
func (w *World) Despawn(entity Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.despawnLocked(entity)
}

func (w *World) despawnLocked(entity Entity) error {
	if err := w.entities.Kill(entity); err != nil {
		return err
	}
	w.registry.removeEntity(entity)
	return nil
}

// IsAlive reports whether the exact entity handle is live in this world.
func (w *World) IsAlive(entity Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities.IsAlive(entity)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.entities.Len()
}

// ShapeCounts returns a copy of the per-shape spawn counters, keyed by shape
// fingerprint.
func (w *World) ShapeCounts() map[uint64]int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	counts := make(map[uint64]int64, len(w.spawnCounts))
	for k, v := range w.spawnCounts {
		counts[k] = v
	}
	return counts
}

// Spawn allocates an entity and attaches the whole batch to it under one
// write-lock scope: registration first, then every field insert. No reader
// can observe the entity with only part of the batch attached.
func Spawn[B any](w *World, batch B) Entity {
	shape := mustShapeOf(reflect.TypeFor[B]())

	w.mu.Lock()
	defer w.mu.Unlock()

	entity, _ := w.entities.Spawn()
	shape.register(w.registry)
	shape.insert(w.registry, entity, reflect.ValueOf(batch))
	w.spawnCounts[shape.fingerprint]++
	return entity
}

// AddBatch attaches the whole batch to an existing entity under one
// write-lock scope, registering constituent types as needed. Components the
// entity already holds are overwritten field by field. A dead or stale handle
// is rejected with the allocator's sentinel errors; components attached to a
// dead entity would never be reclaimed.
func AddBatch[B any](w *World, entity Entity, batch B) error {
	shape := mustShapeOf(reflect.TypeFor[B]())

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.entities.checkAlive(entity); err != nil {
		return fmt.Errorf("add batch: %w", err)
	}

	shape.register(w.registry)
	shape.insert(w.registry, entity, reflect.ValueOf(batch))
	return nil
}

// StripBatch removes every constituent type of B from the entity under one
// write-lock scope. The entity itself stays alive. Idempotent.
func StripBatch[B any](w *World, entity Entity) {
	shape := mustShapeOf(reflect.TypeFor[B]())

	w.mu.Lock()
	defer w.mu.Unlock()

	shape.remove(w.registry, entity)
}

// Lookup copies the entity's T component out under the read lock.
func Lookup[T any](w *World, entity Entity) (T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ptr, ok := Get[T](w.registry, entity)
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr, true
}

// HasComponent reports whether the entity currently holds a T component.
func HasComponent[T any](w *World, entity Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Has[T](w.registry, entity)
}
