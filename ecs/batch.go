package ecs

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// A batch shape is a struct whose exported fields are the component values an
// entity of that kind needs together. The shape carries no lifecycle of its
// own: it only describes one grouped register/insert/remove operation.
//
// Shapes are validated once, when first used, and the result is memoized, so
// every later call for the same shape is duplicate-free by construction. The
// batchcheck analyzer reports the same violations at compile time.

// DuplicateComponentError rejects a batch shape that declares the same
// component type in two fields: the registry's one-storage-per-type model
// cannot hold two values of one type for one entity, and allowing it would
// silently drop whichever insert ran first.
type DuplicateComponentError struct {
	Batch     string // batch shape type name
	Component string // duplicated component type name
	First     string // field with the first occurrence
	Conflict  string // field with the conflicting occurrence
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("batch shape %s declares component %s twice: first in field %s, again in field %s",
		e.Batch, e.Component, e.First, e.Conflict)
}

type batchField struct {
	name  string
	typ   reflect.Type
	index int
}

type batchShape struct {
	typ         reflect.Type
	fields      []batchField
	fingerprint uint64
}

type shapeEntry struct {
	shape *batchShape
	err   error
}

// The one piece of package-level state: an immutable memo of validated shapes.
var shapeCache sync.Map // reflect.Type -> shapeEntry

// shapeOf validates t as a batch shape, memoizing the result per type.
func shapeOf(t reflect.Type) (*batchShape, error) {
	if cached, ok := shapeCache.Load(t); ok {
		entry := cached.(shapeEntry)
		return entry.shape, entry.err
	}

	shape, err := buildShape(t)
	entry, _ := shapeCache.LoadOrStore(t, shapeEntry{shape: shape, err: err})
	e := entry.(shapeEntry)
	return e.shape, e.err
}

func buildShape(t reflect.Type) (*batchShape, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("batch shape %s is not a struct", t)
	}

	shape := &batchShape{typ: t}
	seen := make(map[reflect.Type]string, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			return nil, fmt.Errorf("batch shape %s has unexported field %s", t, field.Name)
		}

		switch field.Type.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
			return nil, fmt.Errorf("batch shape %s field %s: component %s is not a value type", t, field.Name, field.Type)
		}

		if first, dup := seen[field.Type]; dup {
			return nil, &DuplicateComponentError{
				Batch:     t.String(),
				Component: field.Type.String(),
				First:     first,
				Conflict:  field.Name,
			}
		}
		seen[field.Type] = field.Name

		shape.fields = append(shape.fields, batchField{
			name:  field.Name,
			typ:   field.Type,
			index: i,
		})
	}

	shape.fingerprint = fingerprintTypes(shape.fields)
	return shape, nil
}

// fingerprintTypes hashes the sorted constituent type names into a stable
// shape identifier, independent of field order and of this process.
func fingerprintTypes(fields []batchField) uint64 {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.typ.String()
	}
	sort.Strings(names)

	digest := xxhash.New()
	for _, name := range names {
		_, _ = digest.WriteString(name)
		_, _ = digest.Write([]byte{0})
	}
	return digest.Sum64()
}

// mustShapeOf is the call-path gate for the generic batch operations: an
// invalid shape is a programming error, not a recoverable condition.
func mustShapeOf(t reflect.Type) *batchShape {
	shape, err := shapeOf(t)
	if err != nil {
		panic(err)
	}
	return shape
}

// ValidateBatch checks B's shape without touching a registry. Run it for
// every declared shape during startup so structural defects surface before
// any entity is built. Returns a *DuplicateComponentError for duplicate
// component types.
func ValidateBatch[B any]() error {
	_, err := shapeOf(reflect.TypeFor[B]())
	return err
}

// ShapeFingerprint returns the stable fingerprint of B's component type set.
// Panics if B is not a valid batch shape.
func ShapeFingerprint[B any]() uint64 {
	return mustShapeOf(reflect.TypeFor[B]()).fingerprint
}

// RegisterBatch ensures a storage exists for every constituent type of B.
// Idempotent and order-independent.
func RegisterBatch[B any](r *ComponentRegistry) {
	shape := mustShapeOf(reflect.TypeFor[B]())
	shape.register(r)
}

// InsertBatch decomposes the batch into its field values and inserts each one
// for the entity. Every constituent type must already be registered; callers
// that cannot guarantee that should go through World.
//
// The caller must hold the registry's exclusive scope for the whole call so
// no observer sees some fields inserted and others not.
func InsertBatch[B any](r *ComponentRegistry, entity Entity, batch B) {
	shape := mustShapeOf(reflect.TypeFor[B]())
	shape.insert(r, entity, reflect.ValueOf(batch))
}

// RemoveBatch removes every constituent type of B from the entity. Each
// removal is independently a no-op when absent, so the whole operation is
// idempotent and always succeeds.
func RemoveBatch[B any](r *ComponentRegistry, entity Entity) {
	shape := mustShapeOf(reflect.TypeFor[B]())
	shape.remove(r, entity)
}

func (s *batchShape) register(r *ComponentRegistry) {
	for _, f := range s.fields {
		r.registerType(f.typ)
	}
}

func (s *batchShape) insert(r *ComponentRegistry, entity Entity, batch reflect.Value) {
	for _, f := range s.fields {
		r.insertErased(f.typ, entity, batch.Field(f.index).Interface())
	}
}

func (s *batchShape) remove(r *ComponentRegistry, entity Entity) {
	for _, f := range s.fields {
		r.removeErased(f.typ, entity)
	}
}

// insertBatchErased is the untyped path used by the command buffer, where the
// batch arrives as an any. Registers constituent types before inserting.
func insertBatchErased(r *ComponentRegistry, entity Entity, batch any) *batchShape {
	v := reflect.ValueOf(batch)
	shape := mustShapeOf(v.Type())
	shape.register(r)
	shape.insert(r, entity, v)
	return shape
}
