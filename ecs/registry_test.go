package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ahryshan/bizarre-engine-new/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	entity := ecs.NewEntity(1, 0)

	ecs.Register[Health](registry)
	ecs.Insert(registry, entity, Health{HP: 100})

	// Registering again must not replace the storage or lose its contents.
	ecs.Register[Health](registry)

	assert.Equal(t, 1, registry.TypeCount())
	hp, ok := ecs.Get[Health](registry, entity)
	require.True(t, ok)
	assert.Equal(t, 100, hp.HP)
}

func TestInsertAndGet(t *testing.T) {
	registry := newTestRegistry()
	entity := ecs.NewEntity(1, 0)

	ecs.Insert(registry, entity, Transform{X: 1, Y: 2, Z: 3})

	pos, ok := ecs.Get[Transform](registry, entity)
	require.True(t, ok)
	assert.Equal(t, Transform{X: 1, Y: 2, Z: 3}, *pos)
	assert.True(t, ecs.Has[Transform](registry, entity))
}

func TestInsertOverwritesSilently(t *testing.T) {
	registry := newTestRegistry()
	entity := ecs.NewEntity(1, 0)

	ecs.Insert(registry, entity, Health{HP: 100})
	ecs.Insert(registry, entity, Health{HP: 42})

	hp, ok := ecs.Get[Health](registry, entity)
	require.True(t, ok)
	assert.Equal(t, 42, hp.HP)
	assert.Equal(t, 1, registry.CountOf(reflect.TypeFor[Health]()))
}

func TestInsertUnregisteredPanics(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	entity := ecs.NewEntity(1, 0)

	assert.PanicsWithValue(t, "component type ecs_test.Health not registered", func() {
		ecs.Insert(registry, entity, Health{HP: 100})
	})
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	registry := newTestRegistry()
	entity := ecs.NewEntity(1, 0)

	// Never inserted: removing must not fail or change anything.
	assert.NotPanics(t, func() {
		ecs.Remove[Health](registry, entity)
	})

	// Unregistered type: same silent no-op.
	type never struct{ V int }
	assert.NotPanics(t, func() {
		ecs.Remove[never](registry, entity)
	})

	_, ok := ecs.Get[Health](registry, entity)
	assert.False(t, ok)
}

func TestRemoveDeletesValue(t *testing.T) {
	registry := newTestRegistry()
	entity := ecs.NewEntity(1, 0)

	ecs.Insert(registry, entity, Score(32))
	ecs.Remove[Score](registry, entity)

	_, ok := ecs.Get[Score](registry, entity)
	assert.False(t, ok)
	assert.False(t, ecs.Has[Score](registry, entity))
	assert.Equal(t, 0, registry.CountOf(reflect.TypeFor[Score]()))
}

func TestGetUnregisteredIsAbsent(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	entity := ecs.NewEntity(1, 0)

	// Read paths never panic on missing storages.
	_, ok := ecs.Get[Transform](registry, entity)
	assert.False(t, ok)
	assert.False(t, ecs.Has[Transform](registry, entity))
}

func TestRegisterRejectsNonValueTypes(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	assert.Panics(t, func() { ecs.Register[*Transform](registry) })
	assert.Panics(t, func() { ecs.Register[map[string]int](registry) })
	assert.Panics(t, func() { ecs.Register[func()](registry) })
}

func TestRegistryTypeCapacityBoundary(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.CreateEntity()

	// Fill all but the last slot with distinct runtime-built types; the
	// command buffer is the erased registration path.
	cmd := &ecs.Commands{}
	for i := 0; i < 255; i++ {
		typ := reflect.StructOf([]reflect.StructField{{
			Name: fmt.Sprintf("F%d", i),
			Type: reflect.TypeFor[int](),
		}})
		cmd.Insert(entity, reflect.New(typ).Elem().Interface())
	}
	cmd.Flush(world)

	// The 256th type lands on the last mask bit and still round-trips.
	world.Write(func(r *ecs.ComponentRegistry) {
		ecs.Register[Health](r)
		assert.Equal(t, 256, r.TypeCount())
		ecs.Insert(r, entity, Health{HP: 7})
		assert.True(t, ecs.Has[Health](r, entity))
	})
	world.Read(func(r *ecs.ComponentRegistry) {
		view := ecs.NewView[struct {
			HP *Health
		}](r)
		require.Equal(t, 1, view.Count())
		assert.Equal(t, 7, view.Get(entity).HP.HP)
	})

	// One past capacity is a programming error.
	world.Write(func(r *ecs.ComponentRegistry) {
		assert.Panics(t, func() { ecs.Register[Score](r) })
	})
}

func TestStoragesAreIndependentPerType(t *testing.T) {
	registry := newTestRegistry()
	a := ecs.NewEntity(1, 0)
	b := ecs.NewEntity(1, 1)

	ecs.Insert(registry, a, Transform{X: 1})
	ecs.Insert(registry, a, Name("alpha"))
	ecs.Insert(registry, b, Transform{X: 2})

	posA, _ := ecs.Get[Transform](registry, a)
	posB, _ := ecs.Get[Transform](registry, b)
	assert.Equal(t, 1.0, posA.X)
	assert.Equal(t, 2.0, posB.X)
	assert.True(t, ecs.Has[Name](registry, a))
	assert.False(t, ecs.Has[Name](registry, b))
}

func TestSlotReuseAfterRemove(t *testing.T) {
	registry := newTestRegistry()

	for i := 0; i < 200; i++ {
		entity := ecs.NewEntity(1, uint32(i))
		ecs.Insert(registry, entity, Score(i))
	}
	for i := 0; i < 100; i++ {
		ecs.Remove[Score](registry, ecs.NewEntity(1, uint32(i)))
	}
	for i := 0; i < 100; i++ {
		entity := ecs.NewEntity(2, uint32(i))
		ecs.Insert(registry, entity, Score(1000+i))
	}

	assert.Equal(t, 200, registry.CountOf(reflect.TypeFor[Score]()))
	kept, ok := ecs.Get[Score](registry, ecs.NewEntity(1, 150))
	require.True(t, ok)
	assert.Equal(t, Score(150), *kept)
	reused, ok := ecs.Get[Score](registry, ecs.NewEntity(2, 50))
	require.True(t, ok)
	assert.Equal(t, Score(1050), *reused)
}
