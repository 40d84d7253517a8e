package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View gives typed access to several components of an entity at once.
// The type T should be a struct with embedded pointer fields for each component type.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
type View[T any] struct {
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	signature   *BitField
}

// NewView creates a new view for the given struct type. Every component type
// named by T must be registered with registry.
// Embedded fields are always required.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
func NewView[T any](registry *Registry) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		types:       make([]reflect.Type, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
		signature:   NewBitField(wordBits),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		componentType := fieldType.Elem()
		component, ok := registry.ComponentFor(componentType)
		if !ok {
			panic("component type " + componentType.String() + " not registered")
		}

		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}

		if !isOptional {
			v.signature.Set(int(component.id))
		}

		v.types = append(v.types, componentType)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// Signature returns the required components of the view.
func (v *View[T]) Signature() *BitField {
	return v.signature
}

// Matches reports whether entities of the archetype carry every required component.
func (v *View[T]) Matches(archetype *Archetype) bool {
	return v.signature.Subset(archetype.signature)
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is missing any required components.
// Optional components are set to nil if not present.
func (v *View[T]) Fill(e *Entity, ptr *T) bool {
	if e == nil || !v.Matches(e.archetype) {
		return false
	}

	structPtr := unsafe.Pointer(ptr)

	for i, componentType := range v.types {
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])

		component := e.table.get(e.row, componentType)
		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		*(*unsafe.Pointer)(fieldPtr) = reflect.ValueOf(component).UnsafePointer()
	}

	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components.
func (v *View[T]) Get(e *Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter yields every entity of the set that has the required components,
// together with its populated view struct. The loop body may remove the
// yielded entity from the set; the member swapped into its slot is visited
// next.
func (v *View[T]) Iter(entities *SparseSet[*Entity]) iter.Seq2[*Entity, T] {
	return func(yield func(*Entity, T) bool) {
		var result T
		for i := 0; i < entities.Len(); i++ {
			e := entities.At(i)
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
			if i >= entities.Len() || entities.At(i) != e {
				i--
			}
		}
	}
}
