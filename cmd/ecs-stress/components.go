package main

import "github.com/ahryshan/bizarre-engine-new/ecs"

type Transform struct {
	X, Y, Z float64
}

type Velocity struct {
	DX, DY, DZ float64
}

type Health struct {
	HP int
}

type Lifetime struct {
	Remaining float64
}

// Mover is the common moving-actor batch shape.
type Mover struct {
	Pos Transform
	Vel Velocity
	HP  Health
}

// Ephemeral entities additionally decay and get despawned by the churn system.
type Ephemeral struct {
	Pos  Transform
	Vel  Velocity
	Life Lifetime
}

// validateShapes is the startup gate: a structurally invalid batch shape
// aborts the run before any entity is built.
func validateShapes() error {
	if err := ecs.ValidateBatch[Mover](); err != nil {
		return err
	}
	return ecs.ValidateBatch[Ephemeral]()
}
