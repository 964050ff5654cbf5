package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View reads entities that hold a specific combination of components.
// The type T should be a struct with pointer fields, one per component type.
// Named fields can be marked as optional using the `ecs:"optional"` struct
// tag; embedded fields are always required.
//
// A View never mutates storages. Run it inside a World read scope or from a
// system, where the frame already holds the exclusive scope.
type View[T any] struct {
	registry    *ComponentRegistry
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView creates a view over the given registry for the struct type T.
func NewView[T any](registry *ComponentRegistry) *View[T] {
	v := &View[T]{}
	v.Init(registry)
	return v
}

// Init initializes or re-initializes the View with a registry.
// Called by the Scheduler during system registration.
func (v *View[T]) Init(registry *ComponentRegistry) {
	var zero T
	structType := reflect.TypeOf(zero)

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	types := make([]reflect.Type, 0, structType.NumField())
	optional := make([]bool, 0, structType.NumField())
	fieldOffset := make([]uintptr, 0, structType.NumField())
	required := 0

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		types = append(types, field.Type.Elem())
		fieldOffset = append(fieldOffset, field.Offset)

		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		if !isOptional {
			required++
		}
		optional = append(optional, isOptional)
	}

	if required == 0 {
		panic("View needs at least one required component field")
	}

	v.registry = registry
	v.types = types
	v.optional = optional
	v.fieldOffset = fieldOffset
}

// Fill populates the struct with component pointers for the entity.
// Returns false if the entity is missing any required component; optional
// components come back nil when absent.
func (v *View[T]) Fill(entity Entity, ptr *T) bool {
	structPtr := unsafe.Pointer(ptr)

	for i, componentType := range v.types {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		storage, _ := v.registry.storageAt(componentType)
		var component any
		if storage != nil {
			component = storage.get(entity)
		}

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// The storage hands back a *T inside an any; lift the data pointer
		// straight out of the interface header.
		componentPtr := (*iface)(unsafe.Pointer(&component)).data
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}

	return true
}

// Get returns a populated view struct for the entity, or nil if the entity
// is missing a required component.
func (v *View[T]) Get(entity Entity) *T {
	var result T
	if !v.Fill(entity, &result) {
		return nil
	}
	return &result
}

// requiredMask builds the combined mask of the non-optional component types.
// ok is false when some required type has no storage yet.
func (v *View[T]) requiredMask() (mask, bool) {
	required := make([]reflect.Type, 0, len(v.types))
	for i, t := range v.types {
		if !v.optional[i] {
			required = append(required, t)
		}
	}
	return v.registry.maskFor(required)
}

// driverStorage picks the smallest required storage to iterate.
func (v *View[T]) driverStorage() iComponentStorage {
	var driver iComponentStorage
	for i, t := range v.types {
		if v.optional[i] {
			continue
		}
		storage, _ := v.registry.storageAt(t)
		if storage == nil {
			return nil
		}
		if driver == nil || storage.count() < driver.count() {
			driver = storage
		}
	}
	return driver
}

// Iter iterates all entities holding every required component, in
// unspecified order, yielding the entity and the populated view struct.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		need, ok := v.requiredMask()
		if !ok {
			return
		}
		driver := v.driverStorage()
		if driver == nil {
			return
		}

		var result T
		for entity := range driver.entities() {
			if !v.registry.entityMask(entity).contains(need) {
				continue
			}
			if !v.Fill(entity, &result) {
				continue
			}
			if !yield(entity, result) {
				return
			}
		}
	}
}

// Values iterates just the view structs, without entity ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Count returns the number of entities the view currently matches.
func (v *View[T]) Count() int {
	count := 0
	for range v.Iter() {
		count++
	}
	return count
}
