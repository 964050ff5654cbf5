package ecs_test

import (
	"sync"
	"testing"

	"github.com/ahryshan/bizarre-engine-new/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldSpawnAndLookup(t *testing.T) {
	world := ecs.NewWorld()

	entity := ecs.Spawn(world, Actor{
		Pos: Transform{X: 1, Y: 2, Z: 3},
		Vel: Velocity{DX: 1},
		HP:  Health{HP: 100},
	})

	assert.True(t, world.IsAlive(entity))
	assert.Equal(t, 1, world.EntityCount())

	pos, ok := ecs.Lookup[Transform](world, entity)
	require.True(t, ok)
	assert.Equal(t, Transform{X: 1, Y: 2, Z: 3}, pos)

	hp, ok := ecs.Lookup[Health](world, entity)
	require.True(t, ok)
	assert.Equal(t, 100, hp.HP)
	assert.True(t, ecs.HasComponent[Velocity](world, entity))
}

func TestWorldDespawnStripsAllComponents(t *testing.T) {
	world := ecs.NewWorld()
	entity := ecs.Spawn(world, Actor{HP: Health{HP: 1}})

	require.NoError(t, world.Despawn(entity))

	assert.False(t, world.IsAlive(entity))
	assert.Equal(t, 0, world.EntityCount())
	_, ok := ecs.Lookup[Transform](world, entity)
	assert.False(t, ok)
	_, ok = ecs.Lookup[Health](world, entity)
	assert.False(t, ok)

	err := world.Despawn(entity)
	assert.ErrorIs(t, err, ecs.ErrAlreadyDead)
}

func TestWorldReusedSlotDoesNotSeeOldComponents(t *testing.T) {
	world := ecs.NewWorld()

	old := ecs.Spawn(world, Actor{HP: Health{HP: 77}})
	require.NoError(t, world.Despawn(old))

	reborn := ecs.Spawn(world, Tagged{Pos: Transform{X: 9}, Label: Name("reborn")})
	require.Equal(t, old.Index(), reborn.Index())
	require.NotEqual(t, old, reborn)

	// The stale handle finds nothing, the new one only its own batch.
	_, ok := ecs.Lookup[Health](world, old)
	assert.False(t, ok)
	_, ok = ecs.Lookup[Health](world, reborn)
	assert.False(t, ok)
	pos, ok := ecs.Lookup[Transform](world, reborn)
	require.True(t, ok)
	assert.Equal(t, 9.0, pos.X)
}

func TestWorldWriteScopeBatchOps(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.CreateEntity()

	world.Write(func(r *ecs.ComponentRegistry) {
		ecs.RegisterBatch[Actor](r)
		ecs.InsertBatch(r, entity, Actor{HP: Health{HP: 5}})
	})

	hp, ok := ecs.Lookup[Health](world, entity)
	require.True(t, ok)
	assert.Equal(t, 5, hp.HP)

	world.Write(func(r *ecs.ComponentRegistry) {
		ecs.RemoveBatch[Actor](r, entity)
	})
	_, ok = ecs.Lookup[Health](world, entity)
	assert.False(t, ok)
}

func TestWorldAddAndStripBatch(t *testing.T) {
	world := ecs.NewWorld()
	entity := world.CreateEntity()

	// AddBatch registers its types on the way in, so a bare entity works.
	require.NoError(t, ecs.AddBatch(world, entity, Actor{HP: Health{HP: 9}}))

	hp, ok := ecs.Lookup[Health](world, entity)
	require.True(t, ok)
	assert.Equal(t, 9, hp.HP)

	ecs.StripBatch[Actor](world, entity)

	assert.True(t, world.IsAlive(entity))
	_, ok = ecs.Lookup[Health](world, entity)
	assert.False(t, ok)
	_, ok = ecs.Lookup[Transform](world, entity)
	assert.False(t, ok)

	// Stripping again changes nothing.
	assert.NotPanics(t, func() { ecs.StripBatch[Actor](world, entity) })
}

func TestWorldAddBatchRejectsDeadHandles(t *testing.T) {
	world := ecs.NewWorld()

	dead := ecs.Spawn(world, Actor{})
	require.NoError(t, world.Despawn(dead))

	err := ecs.AddBatch(world, dead, Tagged{Label: Name("ghost")})
	assert.ErrorIs(t, err, ecs.ErrAlreadyDead)
	_, ok := ecs.Lookup[Name](world, dead)
	assert.False(t, ok)

	// A stale handle to a reused slot must not touch the new occupant.
	reborn := ecs.Spawn(world, Actor{HP: Health{HP: 3}})
	require.Equal(t, dead.Index(), reborn.Index())

	err = ecs.AddBatch(world, dead, Tagged{Label: Name("ghost")})
	assert.ErrorIs(t, err, ecs.ErrWrongGeneration)
	assert.False(t, ecs.HasComponent[Name](world, reborn))

	err = ecs.AddBatch(world, ecs.NewEntity(1, 99), Tagged{})
	assert.ErrorIs(t, err, ecs.ErrNotFromThisWorld)
}

func TestWorldShapeCounts(t *testing.T) {
	world := ecs.NewWorld()

	for i := 0; i < 3; i++ {
		ecs.Spawn(world, Actor{})
	}
	ecs.Spawn(world, Tagged{Label: Name("only")})

	counts := world.ShapeCounts()
	assert.Equal(t, int64(3), counts[ecs.ShapeFingerprint[Actor]()])
	assert.Equal(t, int64(1), counts[ecs.ShapeFingerprint[Tagged]()])
}

func TestWorldIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, ecs.NewWorld().ID(), ecs.NewWorld().ID())
}

// Concurrent readers must observe each batch all-or-nothing: an entity either
// has every Actor component or none of them.
func TestWorldBatchInsertIsAtomicUnderReaders(t *testing.T) {
	world := ecs.NewWorld()

	const spawns = 500
	done := make(chan struct{})
	var wg sync.WaitGroup

	for reader := 0; reader < 4; reader++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				world.Read(func(r *ecs.ComponentRegistry) {
					view := ecs.NewView[struct {
						Pos *Transform
					}](r)
					for entity := range view.Iter() {
						// Position visible implies the whole batch is visible.
						if !ecs.Has[Velocity](r, entity) || !ecs.Has[Health](r, entity) {
							t.Errorf("entity %v observed with a partial batch", entity)
							return
						}
					}
				})
			}
		}()
	}

	entities := make([]ecs.Entity, 0, spawns)
	for i := 0; i < spawns; i++ {
		entities = append(entities, ecs.Spawn(world, Actor{HP: Health{HP: i}}))
		if i%3 == 0 {
			require.NoError(t, world.Despawn(entities[len(entities)-1]))
			entities = entities[:len(entities)-1]
		}
	}

	close(done)
	wg.Wait()

	assert.Equal(t, len(entities), world.EntityCount())
}
