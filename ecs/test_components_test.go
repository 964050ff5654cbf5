package ecs_test

import (
	"github.com/ahryshan/bizarre-engine-new/ecs"
)

// Shared test components.

type Transform struct {
	X, Y, Z float64
}

type Velocity struct {
	DX, DY, DZ float64
}

type Health struct {
	HP int
}

type Name string

type Score int

// Actor is the canonical three-component batch shape used across tests.
type Actor struct {
	Pos Transform
	Vel Velocity
	HP  Health
}

// Tagged mixes required and optional concerns.
type Tagged struct {
	Pos   Transform
	Label Name
}

// newTestRegistry returns a registry with the common component types registered.
func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.Register[Transform](registry)
	ecs.Register[Velocity](registry)
	ecs.Register[Health](registry)
	ecs.Register[Name](registry)
	ecs.Register[Score](registry)
	return registry
}
