package ecs_test

import (
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
)

// spawnerSystem queues structural changes while iterating its entities.
type spawnerSystem struct {
	ecs.BaseSystem
	spawn *ecs.Archetype
}

func (s *spawnerSystem) Update(elapsed float64) {
	cmds := s.World().Commands()
	for _, e := range s.Entities().Dense() {
		health := ecs.ReadComponent[Health](e)
		health.Current--
		if health.Current <= 0 {
			cmds.Remove(e)
			cmds.Create(s.spawn, Name{Value: "corpse"})
		}
	}
}

func TestCommands(t *testing.T) {
	t.Run("changes are applied after the tick", func(t *testing.T) {
		r, c := newTestRegistry()
		w := ecs.NewWorld(r)

		sys := &spawnerSystem{
			BaseSystem: ecs.NewBaseSystem(ecs.Spec(c.Health), 0, 1),
			spawn:      r.Root().With(c.Name),
		}
		w.AddSystem(sys)
		w.Reschedule()

		arch := r.Root().With(c.Health)
		w.CreateEntity(arch, Health{Current: 1})
		w.CreateEntity(arch, Health{Current: 2})

		w.Update(0)
		assert.Equal(t, 1, sys.Entities().Len())
		assert.Equal(t, 2, w.EntityCount())
		assert.Equal(t, 0, w.Commands().Len())

		w.Update(0)
		assert.Equal(t, 0, sys.Entities().Len())
		assert.Equal(t, 2, w.EntityCount())

		var names []string
		for e := range w.Entities() {
			names = append(names, ecs.ReadComponent[Name](e).Value)
		}
		assert.Equal(t, []string{"corpse", "corpse"}, names)
	})

	t.Run("duplicate removals are applied once", func(t *testing.T) {
		r, c := newTestRegistry()
		w := ecs.NewWorld(r)
		sys := newRecordingSystem("p", nil, 0, 1, c.Position)
		w.AddSystem(sys)

		e := w.CreateEntity(r.Root().With(c.Position))
		w.Commands().Remove(e)
		w.Commands().Remove(e)
		assert.Equal(t, 2, w.Commands().Len())

		w.Commands().Flush(w)
		assert.Len(t, sys.exited, 1)
		assert.Equal(t, 0, w.EntityCount())
	})

	t.Run("removals run before creations", func(t *testing.T) {
		r, c := newTestRegistry()
		w := ecs.NewWorld(r)
		arch := r.Root().With(c.Position)

		e := w.CreateEntity(arch, Position{X: 1})
		w.Commands().Create(arch, Position{X: 2})
		w.Commands().Remove(e)
		w.Commands().Flush(w)

		// The removed instance is served from the pool.
		assert.True(t, e.Alive())
		assert.Equal(t, float32(2), ecs.ReadComponent[Position](e).X)
		assert.Equal(t, 1, w.EntityCount())
	})

	t.Run("deferred functions run last", func(t *testing.T) {
		r, c := newTestRegistry()
		w := ecs.NewWorld(r)

		var counts []int
		w.Commands().Defer(func() { counts = append(counts, w.EntityCount()) })
		w.Commands().Create(r.Root().With(c.Position))
		w.Commands().Flush(w)

		assert.Equal(t, []int{1}, counts)
	})

	t.Run("commands queued while flushing wait for the next flush", func(t *testing.T) {
		r, c := newTestRegistry()
		w := ecs.NewWorld(r)
		arch := r.Root().With(c.Position)

		w.Commands().Defer(func() {
			w.Commands().Create(arch)
		})
		w.Commands().Flush(w)
		assert.Equal(t, 0, w.EntityCount())
		assert.Equal(t, 1, w.Commands().Len())

		w.Commands().Flush(w)
		assert.Equal(t, 1, w.EntityCount())
	})
}
