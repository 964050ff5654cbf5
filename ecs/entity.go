package ecs

import (
	"errors"
	"fmt"
)

// Entity encodes both the reuse generation (upper 32 bits) and the slot index (lower 32 bits).
// The zero Entity (generation 0) is never alive.
type Entity uint64

// NewEntity creates an Entity from a generation and slot index
func NewEntity(gen uint32, index uint32) Entity {
	return Entity(uint64(gen)<<32 | uint64(index))
}

// Gen extracts the reuse generation from the entity
func (e Entity) Gen() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// IsZero reports whether the entity is the dead/zero handle
func (e Entity) IsZero() bool {
	return e.Gen() == 0
}

func (e Entity) String() string {
	return fmt.Sprintf("entity(%d:%d)", e.Gen(), e.Index())
}

var (
	// ErrNotFromThisWorld is returned when killing an entity whose slot was never allocated here.
	ErrNotFromThisWorld = errors.New("entity was not allocated by this allocator")
	// ErrAlreadyDead is returned when killing an entity whose slot is already free.
	ErrAlreadyDead = errors.New("entity is already dead")
	// ErrWrongGeneration is returned when killing a stale handle to a reused slot.
	ErrWrongGeneration = errors.New("entity generation does not match the live slot")
)

// Entities allocates entity handles and reclaims them on despawn.
// A freed slot is handed out again with its generation bumped, so a stale
// handle to the previous occupant never matches the new one.
type Entities struct {
	slots []Entity // live entity per slot; generation 0 marks a free slot
	free  []Entity // dead entities awaiting reuse, generation preserved
}

// NewEntities creates an empty entity allocator.
func NewEntities() *Entities {
	return &Entities{}
}

// Spawn returns a fresh entity and whether its slot index was reused.
func (es *Entities) Spawn() (Entity, bool) {
	if n := len(es.free); n > 0 {
		dead := es.free[n-1]
		es.free = es.free[:n-1]

		// Generation 0 is the dead sentinel; a wrapped counter skips it.
		gen := dead.Gen() + 1
		if gen == 0 {
			gen = 1
		}

		entity := NewEntity(gen, dead.Index())
		es.slots[entity.Index()] = entity
		return entity, true
	}

	entity := NewEntity(1, uint32(len(es.slots)))
	es.slots = append(es.slots, entity)
	return entity, false
}

// IsAlive reports whether the exact entity (index and generation) is live.
func (es *Entities) IsAlive(entity Entity) bool {
	index := entity.Index()
	if int(index) >= len(es.slots) {
		return false
	}
	return es.slots[index] == entity
}

// checkAlive validates that the exact handle (index and generation) is live.
func (es *Entities) checkAlive(entity Entity) error {
	index := entity.Index()
	if int(index) >= len(es.slots) {
		return fmt.Errorf("%v: %w", entity, ErrNotFromThisWorld)
	}

	stored := es.slots[index]
	if stored.Gen() == 0 {
		return fmt.Errorf("%v: %w", entity, ErrAlreadyDead)
	}
	if stored != entity {
		return fmt.Errorf("%v: live generation is %d: %w", entity, stored.Gen(), ErrWrongGeneration)
	}
	return nil
}

// Kill frees the entity's slot for reuse.
func (es *Entities) Kill(entity Entity) error {
	if err := es.checkAlive(entity); err != nil {
		return err
	}

	index := entity.Index()
	es.free = append(es.free, es.slots[index])
	es.slots[index] = NewEntity(0, index)
	return nil
}

// Len returns the number of live entities.
func (es *Entities) Len() int {
	return len(es.slots) - len(es.free)
}
