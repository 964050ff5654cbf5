package main

import (
	"math/rand"

	"github.com/ahryshan/bizarre-engine-new/ecs"
)

// WorldClock accumulates simulation time as a shared resource.
type WorldClock struct {
	Elapsed float64
}

type movementView struct {
	Pos *Transform
	Vel *Velocity
}

// MovementSystem integrates velocity into position for every mover.
type MovementSystem struct {
	Moving ecs.View[movementView]
	Clock  ecs.Res[WorldClock]

	Processed int64
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for v := range s.Moving.Values() {
		v.Pos.X += v.Vel.DX * frame.DeltaTime
		v.Pos.Y += v.Vel.DY * frame.DeltaTime
		v.Pos.Z += v.Vel.DZ * frame.DeltaTime
		s.Processed++
	}

	if clock := s.Clock.Get(); clock != nil {
		clock.Elapsed += frame.DeltaTime
	}
}

type decayView struct {
	Life *Lifetime
}

// DecaySystem counts lifetimes down and despawns expired entities through
// the command buffer, then respawns replacements to keep the population level.
type DecaySystem struct {
	Decaying ecs.View[decayView]

	Despawned int64
	rng       *rand.Rand
}

func NewDecaySystem(seed int64) *DecaySystem {
	return &DecaySystem{rng: rand.New(rand.NewSource(seed))}
}

func (s *DecaySystem) Execute(frame *ecs.UpdateFrame) {
	for entity, v := range s.Decaying.Iter() {
		v.Life.Remaining -= frame.DeltaTime
		if v.Life.Remaining > 0 {
			continue
		}

		frame.Commands.Despawn(entity)
		frame.Commands.Spawn(randomEphemeral(s.rng))
		s.Despawned++
	}
}

func randomMover(rng *rand.Rand) Mover {
	return Mover{
		Pos: Transform{X: rng.Float64() * 100, Y: rng.Float64() * 100, Z: rng.Float64() * 100},
		Vel: Velocity{DX: rng.Float64()*2 - 1, DY: rng.Float64()*2 - 1, DZ: rng.Float64()*2 - 1},
		HP:  Health{HP: 100},
	}
}

func randomEphemeral(rng *rand.Rand) Ephemeral {
	return Ephemeral{
		Pos:  Transform{X: rng.Float64() * 100, Y: rng.Float64() * 100},
		Vel:  Velocity{DX: rng.Float64()*2 - 1, DY: rng.Float64()*2 - 1},
		Life: Lifetime{Remaining: 0.5 + rng.Float64()*2},
	}
}
