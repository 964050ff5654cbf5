package ecs

import (
	"iter"
	"reflect"
)

// iComponentStorage is an interface over "a storage of some component type".
// Values cross it type-erased; the concrete component type is recovered at
// the call sites that know it.
type iComponentStorage interface {
	insert(entity Entity, value any)
	remove(entity Entity)
	get(entity Entity) any
	has(entity Entity) bool
	count() int
	entities() iter.Seq[Entity]
	componentType() reflect.Type
}
