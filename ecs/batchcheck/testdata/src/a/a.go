package a

import "ecs"

type Transform struct{ X, Y, Z float64 }

type Velocity struct{ X, Y, Z float64 }

type Health struct{ HP int }

type Player struct {
	Pos Transform
	Vel Velocity
	HP  Health
}

type DoubledUp struct {
	A Transform
	B Velocity
	C Transform
}

func use(w *ecs.World, r *ecs.ComponentRegistry, e ecs.Entity) {
	_ = ecs.Spawn(w, Player{})
	ecs.RegisterBatch[Player](r)
	ecs.InsertBatch(r, e, Player{})
	ecs.RemoveBatch[Player](r, e)
	_ = ecs.ValidateBatch[Player]()

	_ = ecs.Spawn(w, DoubledUp{})                // want `batch shape DoubledUp declares component Transform twice: first in field A, again in field C`
	ecs.RegisterBatch[DoubledUp](r)              // want `batch shape DoubledUp declares component Transform twice: first in field A, again in field C`
	_ = ecs.ValidateBatch[DoubledUp]()           // want `batch shape DoubledUp declares component Transform twice: first in field A, again in field C`
	_ = ecs.ShapeFingerprint[map[string]int]()   // want `batch shape map\[string\]int is not a struct`
}
