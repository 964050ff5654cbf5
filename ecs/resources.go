package ecs

import "reflect"

// Resources holds at most one value per type: global session state that is
// not attached to any entity (time step, input snapshot, asset handles).
type Resources struct {
	values map[reflect.Type]any
}

func newResources() *Resources {
	return &Resources{values: make(map[reflect.Type]any)}
}

// SetResource stores the value, replacing any previous R.
func SetResource[R any](res *Resources, value R) {
	ptr := new(R)
	*ptr = value
	res.values[reflect.TypeFor[R]()] = ptr
}

// GetResource returns a pointer to the stored R, or false if absent.
func GetResource[R any](res *Resources) (*R, bool) {
	v, ok := res.values[reflect.TypeFor[R]()]
	if !ok {
		return nil, false
	}
	return v.(*R), true
}

// TakeResource removes and returns the stored R.
func TakeResource[R any](res *Resources) (R, bool) {
	t := reflect.TypeFor[R]()
	v, ok := res.values[t]
	if !ok {
		var zero R
		return zero, false
	}
	delete(res.values, t)
	return *(v.(*R)), true
}

// Res provides access to a single resource from inside a system. Declare it
// as a struct field on the system; the scheduler initializes it during
// registration.
type Res[R any] struct {
	resources *Resources
}

// NewRes creates a resource accessor outside of scheduler wiring.
func NewRes[R any](res *Resources) *Res[R] {
	return &Res[R]{resources: res}
}

// Init wires the accessor to a resource set.
// Called automatically by the Scheduler during system registration.
func (r *Res[R]) Init(res *Resources) {
	r.resources = res
}

// Get returns a pointer to the resource, or nil if it was never set.
func (r *Res[R]) Get() *R {
	if r.resources == nil {
		return nil
	}
	ptr, ok := GetResource[R](r.resources)
	if !ok {
		return nil
	}
	return ptr
}

// Exists reports whether the resource has been set.
func (r *Res[R]) Exists() bool {
	return r.Get() != nil
}
