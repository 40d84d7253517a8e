package ecs

import (
	"fmt"
	"reflect"
)

// EntityId identifies an entity within a World. Ids of removed entities are
// reused when their pooled instance is handed out again.
type EntityId uint32

// Entity is the unit of identity. It belongs to exactly one archetype and
// one World, and it records the systems currently tracking it so they can be
// notified when it is removed.
type Entity struct {
	id        EntityId
	archetype *Archetype
	world     *World
	table     *table
	row       int
	alive     bool
	systems   *SparseSet[System]
}

// ID returns the entity id. It satisfies Identified.
func (e *Entity) ID() uint32 {
	return uint32(e.id)
}

// EntityId returns the typed entity id.
func (e *Entity) EntityId() EntityId {
	return e.id
}

// Archetype returns the archetype the entity was created from.
func (e *Entity) Archetype() *Archetype {
	return e.archetype
}

// Signature returns the archetype signature of the entity.
func (e *Entity) Signature() *BitField {
	return e.archetype.signature
}

// World returns the owning world.
func (e *Entity) World() *World {
	return e.world
}

// Alive reports whether the entity is still part of its world. A removed
// entity may come back to life with the same identity when it is recycled.
func (e *Entity) Alive() bool {
	return e.alive
}

// Has reports whether the entity carries every given component.
func (e *Entity) Has(components ...*ComponentType) bool {
	return e.archetype.Has(components...)
}

// Systems returns the systems currently tracking the entity.
func (e *Entity) Systems() []System {
	return e.systems.Values()
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%d, tid=%d)", e.id, e.archetype.tid)
}

// GetComponent returns a pointer to the component of type compType, or nil.
func (e *Entity) GetComponent(compType reflect.Type) any {
	return e.table.get(e.row, compType)
}

// ReadComponent returns a pointer to the entity's T component, or nil if the
// entity's archetype has no such component.
func ReadComponent[T any](e *Entity) *T {
	c := e.GetComponent(reflect.TypeFor[T]())
	if c == nil {
		return nil
	}
	return c.(*T)
}

// SetComponent overwrites the entity's component of the value's type. It
// reports false if the archetype has no such component.
func SetComponent(e *Entity, value any) bool {
	col := e.table.columnFor(valueType(value))
	if col == nil {
		return false
	}
	return col.Set(e.row, value)
}

// reset reinitialises a recycled entity in place.
func (e *Entity) reset(values []any) {
	e.table.resetRow(e.row)
	e.table.assign(e.row, values)
}
