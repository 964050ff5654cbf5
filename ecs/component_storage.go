package ecs

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// Storage grows in whole blocks to keep append churn down.
const storageBlockSize = 64

// componentStorage owns all live instances of one component type, keyed by
// entity. The backing slice is built through reflection so a storage can be
// created for any component type discovered at runtime; values come back out
// as properly-typed *T inside an any, recovered by the typed call sites.
type componentStorage struct {
	typ    reflect.Type
	values reflect.Value // addressable []T
	owners []Entity      // owning entity per slot, zero when free
	filled []bool

	index     *intmap.Map[Entity, int32]
	freeSlots []int32
	occupied  int
}

func newComponentStorage(t reflect.Type) *componentStorage {
	return &componentStorage{
		typ:    t,
		values: reflect.MakeSlice(reflect.SliceOf(t), 0, storageBlockSize),
		index:  intmap.New[Entity, int32](storageBlockSize),
	}
}

// insert stores value under entity, silently overwriting any previous value
// (last-write-wins). The value's dynamic type must match the storage type.
func (cs *componentStorage) insert(entity Entity, value any) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Type() != cs.typ {
		panic(fmt.Sprintf("component storage for %s given a %T value", cs.typ, value))
	}

	if slot, ok := cs.index.Get(entity); ok {
		cs.values.Index(int(slot)).Set(rv)
		return
	}

	var slot int32
	if n := len(cs.freeSlots); n > 0 {
		slot = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
		cs.values.Index(int(slot)).Set(rv)
	} else {
		slot = int32(cs.values.Len())
		if cs.values.Len() == cs.values.Cap() {
			grown := reflect.MakeSlice(cs.values.Type(), cs.values.Len(), cs.values.Cap()+storageBlockSize)
			reflect.Copy(grown, cs.values)
			cs.values = grown
		}
		cs.values = reflect.Append(cs.values, rv)
		cs.owners = append(cs.owners, 0)
		cs.filled = append(cs.filled, false)
	}

	cs.owners[slot] = entity
	cs.filled[slot] = true
	cs.index.Put(entity, slot)
	cs.occupied++
}

// remove deletes the entity's value if present; missing entries are a no-op.
func (cs *componentStorage) remove(entity Entity) {
	slot, ok := cs.index.Get(entity)
	if !ok {
		return
	}

	cs.values.Index(int(slot)).Set(reflect.Zero(cs.typ))
	cs.owners[slot] = 0
	cs.filled[slot] = false
	cs.index.Del(entity)
	cs.freeSlots = append(cs.freeSlots, slot)
	cs.occupied--
}

// get returns the entity's value as a *T inside an any, or nil if absent.
// The pointer stays valid only until the next structural mutation of the storage.
func (cs *componentStorage) get(entity Entity) any {
	slot, ok := cs.index.Get(entity)
	if !ok {
		return nil
	}
	return cs.values.Index(int(slot)).Addr().Interface()
}

func (cs *componentStorage) has(entity Entity) bool {
	_, ok := cs.index.Get(entity)
	return ok
}

func (cs *componentStorage) count() int {
	return cs.occupied
}

func (cs *componentStorage) componentType() reflect.Type {
	return cs.typ
}

// entities iterates the owning entities in unspecified order.
func (cs *componentStorage) entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for slot := 0; slot < len(cs.owners); slot++ {
			if !cs.filled[slot] {
				continue
			}
			if !yield(cs.owners[slot]) {
				return
			}
		}
	}
}
