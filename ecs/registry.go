package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
)

// ComponentRegistry owns one storage per component type and routes
// type-parameterized calls to the right one. Storages are created lazily on
// first registration and never replaced or removed; registering a type twice
// is a no-op.
//
// The registry itself does no locking. Callers that share one registry across
// goroutines must go through a World, which scopes every mutation under its
// write lock.
type ComponentRegistry struct {
	lookup   map[reflect.Type]int
	storages []iComponentStorage
	masks    *intmap.Map[Entity, mask]
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		lookup: make(map[reflect.Type]int),
		masks:  intmap.New[Entity, mask](storageBlockSize),
	}
}

// registerType ensures a storage exists for t and returns its index.
func (r *ComponentRegistry) registerType(t reflect.Type) int {
	if idx, ok := r.lookup[t]; ok {
		return idx
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("component type " + t.String() + " is not a value type")
	}
	if len(r.storages) >= maxComponentTypes {
		panic("component type limit exceeded registering " + t.String())
	}

	idx := len(r.storages)
	r.storages = append(r.storages, newComponentStorage(t))
	r.lookup[t] = idx
	return idx
}

// storageAt returns the storage for t, or nil if t was never registered.
func (r *ComponentRegistry) storageAt(t reflect.Type) (iComponentStorage, int) {
	idx, ok := r.lookup[t]
	if !ok {
		return nil, -1
	}
	return r.storages[idx], idx
}

// insertErased routes an untyped insert to t's storage and marks the entity's
// mask bit. The register-before-use contract applies: an unregistered t panics.
func (r *ComponentRegistry) insertErased(t reflect.Type, entity Entity, value any) {
	storage, idx := r.storageAt(t)
	if storage == nil {
		panic("component type " + t.String() + " not registered")
	}

	storage.insert(entity, value)
	m, _ := r.masks.Get(entity)
	r.masks.Put(entity, m.set(idx))
}

// removeErased routes an untyped remove to t's storage. Both an unregistered
// type and a missing component are silent no-ops.
func (r *ComponentRegistry) removeErased(t reflect.Type, entity Entity) {
	storage, idx := r.storageAt(t)
	if storage == nil {
		return
	}

	storage.remove(entity)
	if m, ok := r.masks.Get(entity); ok {
		m = m.unset(idx)
		if m.isZero() {
			r.masks.Del(entity)
		} else {
			r.masks.Put(entity, m)
		}
	}
}

// removeEntity strips every component the entity holds.
func (r *ComponentRegistry) removeEntity(entity Entity) {
	m, ok := r.masks.Get(entity)
	if !ok {
		return
	}

	for idx, storage := range r.storages {
		if m.has(idx) {
			storage.remove(entity)
		}
	}
	r.masks.Del(entity)
}

// entityMask returns the component bitmask for the entity.
func (r *ComponentRegistry) entityMask(entity Entity) mask {
	m, _ := r.masks.Get(entity)
	return m
}

// maskFor builds the combined mask for a set of component types. The second
// result is false when some type has no storage yet, meaning no entity can
// currently hold the full set.
func (r *ComponentRegistry) maskFor(types []reflect.Type) (mask, bool) {
	var m mask
	for _, t := range types {
		idx, ok := r.lookup[t]
		if !ok {
			return mask{}, false
		}
		m = m.set(idx)
	}
	return m, true
}

// TypeCount returns the number of registered component types.
func (r *ComponentRegistry) TypeCount() int {
	return len(r.storages)
}

// CountOf returns the number of live components stored for type t.
func (r *ComponentRegistry) CountOf(t reflect.Type) int {
	storage, _ := r.storageAt(t)
	if storage == nil {
		return 0
	}
	return storage.count()
}

// Register ensures a storage for T exists. Idempotent; never fails.
func Register[T any](r *ComponentRegistry) {
	r.registerType(reflect.TypeFor[T]())
}

// Registered reports whether a storage for T exists.
func Registered[T any](r *ComponentRegistry) bool {
	_, ok := r.lookup[reflect.TypeFor[T]()]
	return ok
}

// Insert stores value for the entity, overwriting silently if present.
// Panics if T was never registered: register must precede insert.
func Insert[T any](r *ComponentRegistry, entity Entity, value T) {
	r.insertErased(reflect.TypeFor[T](), entity, value)
}

// Remove deletes the entity's T component. Removing a component that is not
// there, or whose type has no storage, is a silent no-op.
func Remove[T any](r *ComponentRegistry, entity Entity) {
	r.removeErased(reflect.TypeFor[T](), entity)
}

// Get returns a pointer to the entity's T component, or false if absent.
// The pointer stays valid only until the next mutation of T's storage;
// callers holding a World read scope are safe for its duration.
func Get[T any](r *ComponentRegistry, entity Entity) (*T, bool) {
	storage, _ := r.storageAt(reflect.TypeFor[T]())
	if storage == nil {
		return nil, false
	}
	v := storage.get(entity)
	if v == nil {
		return nil, false
	}
	return v.(*T), true
}

// Has reports whether the entity currently holds a T component.
func Has[T any](r *ComponentRegistry, entity Entity) bool {
	storage, _ := r.storageAt(reflect.TypeFor[T]())
	return storage != nil && storage.has(entity)
}
