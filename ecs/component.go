package ecs

import (
	"reflect"
	"strconv"
)

// ComponentType describes a component registered with a Registry. Its id is
// assigned once at registration and is the bit the component occupies in
// every signature.
type ComponentType struct {
	id      uint32
	name    string
	typ     reflect.Type
	factory func() columnStorage
}

// ID returns the component id.
func (c *ComponentType) ID() uint32 {
	return c.id
}

// Name returns the component name. For data components this is the Go type name.
func (c *ComponentType) Name() string {
	return c.name
}

// Type returns the Go type stored for this component, or nil for tags.
func (c *ComponentType) Type() reflect.Type {
	return c.typ
}

// IsTag reports whether the component carries no data.
func (c *ComponentType) IsTag() bool {
	return c.typ == nil
}

func (c *ComponentType) String() string {
	return c.name + "#" + strconv.FormatUint(uint64(c.id), 10)
}

// RegisterComponent registers T as a data component of the registry and returns
// its descriptor. Registering the same type again returns the existing descriptor.
func RegisterComponent[T any](r *Registry) *ComponentType {
	t := reflect.TypeFor[T]()
	if c, ok := r.byType[t]; ok {
		return c
	}

	c := r.newComponent(t.String())
	c.typ = t
	c.factory = newColumnFactory[T]()
	r.byType[t] = c
	return c
}

// ComponentOf returns the descriptor registered for T, or nil.
func ComponentOf[T any](r *Registry) *ComponentType {
	return r.byType[reflect.TypeFor[T]()]
}
