package ecs

import (
	"reflect"
)

// Registry owns the component and archetype id counters. Every World is built
// on a registry, and worlds sharing a registry share its archetypes. Tests
// should create a fresh registry so that ids start from zero.
type Registry struct {
	components []*ComponentType
	byType     map[reflect.Type]*ComponentType
	tags       map[string]*ComponentType
	archetypes []*Archetype
	root       *Archetype
}

// NewRegistry creates an empty registry whose root archetype has tid 0.
func NewRegistry() *Registry {
	r := &Registry{
		byType: make(map[reflect.Type]*ComponentType),
		tags:   make(map[string]*ComponentType),
	}
	r.root = newArchetype(r, nil, nil, NewBitField(wordBits))
	r.register(r.root)
	return r
}

// RegisterTag registers a component that carries no data. Registering the
// same name again returns the existing descriptor.
func (r *Registry) RegisterTag(name string) *ComponentType {
	if c, ok := r.tags[name]; ok {
		return c
	}
	c := r.newComponent(name)
	r.tags[name] = c
	return c
}

func (r *Registry) newComponent(name string) *ComponentType {
	c := &ComponentType{
		id:   uint32(len(r.components)),
		name: name,
	}
	r.components = append(r.components, c)
	return c
}

// Component returns the component with the given id.
func (r *Registry) Component(id uint32) (*ComponentType, bool) {
	if int(id) >= len(r.components) {
		return nil, false
	}
	return r.components[id], true
}

// ComponentFor returns the data component registered for t.
func (r *Registry) ComponentFor(t reflect.Type) (*ComponentType, bool) {
	c, ok := r.byType[t]
	return c, ok
}

// Components returns all registered components ordered by id.
func (r *Registry) Components() []*ComponentType {
	out := make([]*ComponentType, len(r.components))
	copy(out, r.components)
	return out
}

// Root returns the base archetype every composition starts from.
func (r *Registry) Root() *Archetype {
	return r.root
}

// Archetype returns the registered archetype with the given tid.
func (r *Registry) Archetype(tid uint32) (*Archetype, bool) {
	if int(tid) >= len(r.archetypes) {
		return nil, false
	}
	return r.archetypes[tid], true
}

// Archetypes returns every registered archetype ordered by tid.
func (r *Registry) Archetypes() []*Archetype {
	out := make([]*Archetype, len(r.archetypes))
	copy(out, r.archetypes)
	return out
}

// register assigns the next tid to a.
func (r *Registry) register(a *Archetype) {
	a.tid = uint32(len(r.archetypes))
	a.registered = true
	r.archetypes = append(r.archetypes, a)
}
