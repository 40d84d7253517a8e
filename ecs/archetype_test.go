package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("component ids are sequential", func(t *testing.T) {
		_, c := newTestRegistry()

		assert.Equal(t, uint32(0), c.Position.ID())
		assert.Equal(t, uint32(1), c.Velocity.ID())
		assert.Equal(t, uint32(5), c.Frozen.ID())
	})

	t.Run("registration is idempotent", func(t *testing.T) {
		r, c := newTestRegistry()

		assert.Same(t, c.Position, ecs.RegisterComponent[Position](r))
		assert.Same(t, c.Frozen, r.RegisterTag("Frozen"))
		assert.Same(t, c.Health, ecs.ComponentOf[Health](r))
		assert.Nil(t, ecs.ComponentOf[int](r))
		assert.Len(t, r.Components(), 6)
	})

	t.Run("lookups", func(t *testing.T) {
		r, c := newTestRegistry()

		got, ok := r.Component(c.Name.ID())
		require.True(t, ok)
		assert.Same(t, c.Name, got)

		_, ok = r.Component(99)
		assert.False(t, ok)

		got, ok = r.ComponentFor(reflect.TypeFor[Velocity]())
		require.True(t, ok)
		assert.Same(t, c.Velocity, got)
	})

	t.Run("tags carry no data", func(t *testing.T) {
		_, c := newTestRegistry()

		assert.True(t, c.Frozen.IsTag())
		assert.Nil(t, c.Frozen.Type())
		assert.False(t, c.Position.IsTag())
		assert.Equal(t, reflect.TypeFor[Position](), c.Position.Type())
		assert.Equal(t, "Frozen#5", c.Frozen.String())
	})

	t.Run("root archetype", func(t *testing.T) {
		r, _ := newTestRegistry()

		root := r.Root()
		assert.Equal(t, uint32(0), root.ID())
		assert.True(t, root.Registered())
		assert.Nil(t, root.Base())
		assert.Empty(t, root.Components())
		assert.Equal(t, 0, root.Signature().Count())

		got, ok := r.Archetype(0)
		require.True(t, ok)
		assert.Same(t, root, got)
	})
}

func TestArchetypeWith(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		r, c := newTestRegistry()

		a := r.Root().With(c.Position, c.Velocity)
		b := r.Root().With(c.Velocity, c.Position)

		assert.Same(t, a, b)
		assert.Equal(t, uint32(1), a.ID())
		assert.Len(t, r.Archetypes(), 2)
	})

	t.Run("duplicates are ignored", func(t *testing.T) {
		r, c := newTestRegistry()

		a := r.Root().With(c.Position, c.Position, c.Velocity)
		b := r.Root().With(c.Position, c.Velocity)

		assert.Same(t, a, b)
		assert.Len(t, a.Components(), 2)
	})

	t.Run("applying a present component returns the same archetype", func(t *testing.T) {
		r, c := newTestRegistry()

		a := r.Root().With(c.Position)
		assert.Same(t, a, a.With(c.Position))
	})

	t.Run("composition is transitive", func(t *testing.T) {
		r, c := newTestRegistry()

		stepwise := r.Root().With(c.Position).With(c.Velocity).With(c.Health)
		direct := r.Root().With(c.Health, c.Velocity, c.Position)

		assert.Same(t, stepwise, direct)
		assert.Equal(t, []*ecs.ComponentType{c.Position, c.Velocity, c.Health}, direct.Components())
	})

	t.Run("different composition paths share a signature", func(t *testing.T) {
		r, c := newTestRegistry()

		a := r.Root().With(c.Velocity).With(c.Position)
		b := r.Root().With(c.Position).With(c.Velocity)

		assert.NotSame(t, a, b)
		assert.True(t, a.Signature().Compare(b.Signature()))
		assert.Equal(t, a.Components(), b.Components())
	})

	t.Run("signature is the union of components", func(t *testing.T) {
		r, c := newTestRegistry()

		a := r.Root().With(c.Name, c.Frozen)
		assert.True(t, a.Signature().Equal(ecs.Spec(c.Name, c.Frozen)))
		assert.True(t, a.Has(c.Name, c.Frozen))
		assert.False(t, a.Has(c.Position))
		assert.False(t, a.Has())
	})

	t.Run("only final results are registered", func(t *testing.T) {
		r, c := newTestRegistry()

		full := r.Root().With(c.Position, c.Velocity, c.Health)
		assert.Equal(t, uint32(1), full.ID())
		assert.Len(t, r.Archetypes(), 2)

		// The intermediate node exists but only gets a tid once requested.
		partial := r.Root().With(c.Position, c.Velocity)
		assert.Same(t, full.Base(), partial)
		assert.Equal(t, uint32(2), partial.ID())
		assert.Same(t, c.Health, full.Component())
	})

	t.Run("tids increase", func(t *testing.T) {
		r, c := newTestRegistry()

		a := r.Root().With(c.Position)
		b := r.Root().With(c.Velocity)
		d := a.With(c.Velocity)

		assert.Equal(t, []uint32{1, 2, 3}, []uint32{a.ID(), b.ID(), d.ID()})
	})

	t.Run("components from another registry panic", func(t *testing.T) {
		r, _ := newTestRegistry()
		other := ecs.NewRegistry()
		foreign := other.RegisterTag("Foreign")

		assert.Panics(t, func() { r.Root().With(foreign) })
	})

	t.Run("string", func(t *testing.T) {
		r, c := newTestRegistry()
		assert.Equal(t, "Archetype(ecs_test.Position,Frozen)", r.Root().With(c.Frozen, c.Position).String())
	})
}
