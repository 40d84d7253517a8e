package ecs

import (
	"slices"
	"strings"

	"github.com/kamstrup/intmap"
)

func byComponentId(a, b *ComponentType) int {
	return int(a.id) - int(b.id)
}

// Archetype is one node of a composition chain: a base archetype plus the
// component applied on top of it. Nodes are created lazily and shared, so
// every composition that passes through the same (base, component) step reuses
// the same node. Only nodes returned from With are registered and given a tid.
type Archetype struct {
	tid        uint32
	registered bool
	registry   *Registry

	base       *Archetype
	component  *ComponentType
	components []*ComponentType
	signature  *BitField

	// applied caches child nodes keyed by the id of the component applied.
	applied *intmap.Map[uint32, *Archetype]
}

func newArchetype(r *Registry, base *Archetype, component *ComponentType, signature *BitField) *Archetype {
	a := &Archetype{
		registry:  r,
		base:      base,
		component: component,
		signature: signature,
		applied:   intmap.New[uint32, *Archetype](4),
	}

	if base != nil {
		a.components = make([]*ComponentType, 0, len(base.components)+1)
		a.components = append(a.components, base.components...)
		a.components = append(a.components, component)
		slices.SortFunc(a.components, byComponentId)
	}

	return a
}

// With composes a new archetype from a and the given components. Components
// are applied in id order, so the call-site order does not matter, and
// components already present are ignored. The result is registered with a
// fresh tid the first time it is produced.
func (a *Archetype) With(components ...*ComponentType) *Archetype {
	sorted := slices.Clone(components)
	slices.SortFunc(sorted, byComponentId)

	node := a
	for _, c := range sorted {
		if owned, ok := a.registry.Component(c.id); !ok || owned != c {
			panic("ecs: component " + c.String() + " belongs to another registry")
		}
		node = node.apply(c)
	}

	if !node.registered {
		a.registry.register(node)
	}
	return node
}

func (a *Archetype) apply(c *ComponentType) *Archetype {
	if a.signature.Get(int(c.id)) {
		return a
	}

	if cached, ok := a.applied.Get(c.id); ok {
		return cached
	}

	signature := a.signature.Clone()
	signature.Set(int(c.id))

	child := newArchetype(a.registry, a, c, signature)
	a.applied.Put(c.id, child)
	return child
}

// ID returns the archetype's type id. Unregistered intermediate nodes report 0.
func (a *Archetype) ID() uint32 {
	return a.tid
}

// Registered reports whether the archetype has been assigned a tid.
func (a *Archetype) Registered() bool {
	return a.registered
}

// Signature returns the union of the archetype's component bits. The returned
// field is shared and must not be modified.
func (a *Archetype) Signature() *BitField {
	return a.signature
}

// Components returns the archetype's components sorted by id.
func (a *Archetype) Components() []*ComponentType {
	return a.components
}

// Base returns the archetype this one was composed from, or nil for the root.
func (a *Archetype) Base() *Archetype {
	return a.base
}

// Component returns the component whose application produced this archetype.
func (a *Archetype) Component() *ComponentType {
	return a.component
}

// Has reports whether the archetype carries every given component. It returns
// false when no component is given.
func (a *Archetype) Has(components ...*ComponentType) bool {
	for _, c := range components {
		if !a.signature.Get(int(c.id)) {
			return false
		}
	}
	return len(components) > 0
}

func (a *Archetype) String() string {
	names := make([]string, len(a.components))
	for i, c := range a.components {
		names[i] = c.name
	}
	return "Archetype(" + strings.Join(names, ",") + ")"
}
