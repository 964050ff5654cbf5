// Package ecs mirrors the batch generics' signatures for analyzer tests.
package ecs

type Entity uint64

type ComponentRegistry struct{}

type World struct{}

func Spawn[B any](w *World, batch B) Entity { return 0 }

func RegisterBatch[B any](r *ComponentRegistry) {}

func InsertBatch[B any](r *ComponentRegistry, entity Entity, batch B) {}

func RemoveBatch[B any](r *ComponentRegistry, entity Entity) {}

func ValidateBatch[B any]() error { return nil }

func ShapeFingerprint[B any]() uint64 { return 0 }
