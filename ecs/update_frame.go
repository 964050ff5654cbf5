package ecs

// UpdateFrame is what a system sees for one tick: the delta time, the command
// buffer for deferred mutations, and read access to the world's registry and
// resources. The frame runs inside the world's exclusive scope; systems must
// route structural changes through Commands rather than mutating storages.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Registry  *ComponentRegistry
	Resources *Resources
}

func newUpdateFrame(dt float64, w *World) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Registry:  w.registry,
		Resources: w.resources,
	}
}
