package ecs

import (
	"errors"
	"reflect"
)

// Commands buffers structural mutations raised while systems run and applies
// them at the end of the frame, inside the frame's exclusive scope. This keeps
// storages stable during system execution.
type Commands struct {
	spawns   []any
	despawns []Entity
	inserts  []insertCommand
	removes  []removeCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type insertCommand struct {
	entity    Entity
	component any
}

type removeCommand struct {
	entity   Entity
	compType reflect.Type
}

// Spawn queues spawning a new entity carrying the whole batch.
func (c *Commands) Spawn(batch any) {
	c.spawns = append(c.spawns, batch)
}

// Despawn queues removing all of the entity's components and freeing it.
func (c *Commands) Despawn(entity Entity) {
	c.despawns = append(c.despawns, entity)
}

// Insert queues attaching a single component value to the entity.
func (c *Commands) Insert(entity Entity, component any) {
	c.inserts = append(c.inserts, insertCommand{entity: entity, component: component})
}

// Remove queues detaching the entity's component of the given type.
func (c *Commands) Remove(entity Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeCommand{entity: entity, compType: compType})
}

// Defer queues an arbitrary function, run after all structural commands have
// been applied and the world lock released. Deferred functions may call back
// into World.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies all buffered commands to the world as one exclusive-scope
// operation and resets the buffer, then runs the queued deferred functions.
func (c *Commands) Flush(w *World) {
	w.mu.Lock()
	defers := c.flushLocked(w)
	w.mu.Unlock()

	for _, fn := range defers {
		fn()
	}
}

// flushLocked applies the structural commands under the caller's write lock
// and returns the deferred functions, which must run only after the lock is
// released.
func (c *Commands) flushLocked(w *World) []func() {
	despawned := make(map[Entity]bool, len(c.despawns))

	for _, entity := range c.despawns {
		if err := w.despawnLocked(entity); err != nil && !errors.Is(err, ErrAlreadyDead) {
			// A stale handle to a reused slot; the current occupant stays.
			continue
		}
		despawned[entity] = true
	}

	for _, cmd := range c.removes {
		if !despawned[cmd.entity] {
			w.registry.removeErased(cmd.compType, cmd.entity)
		}
	}

	for _, cmd := range c.inserts {
		if despawned[cmd.entity] {
			continue
		}
		t := reflect.TypeOf(cmd.component)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		w.registry.registerType(t)
		w.registry.insertErased(t, cmd.entity, cmd.component)
	}

	for _, batch := range c.spawns {
		entity, _ := w.entities.Spawn()
		shape := insertBatchErased(w.registry, entity, batch)
		w.spawnCounts[shape.fingerprint]++
	}

	defers := c.defers
	c.defers = nil

	c.spawns = c.spawns[:0]
	c.despawns = c.despawns[:0]
	c.inserts = c.inserts[:0]
	c.removes = c.removes[:0]
	return defers
}
