package ecs

// System represents a behavior that operates on entities with specific
// components. User-defined systems implement this interface and can declare
// View and Res fields for access to entities and resources, as well as custom
// state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
