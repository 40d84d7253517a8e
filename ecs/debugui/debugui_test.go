package debugui

import (
	"reflect"
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y float32
}

type profile struct {
	Name    string
	Level   uint8
	Alive   bool
	Home    *position
	private int
}

type counterSystem struct {
	ecs.BaseSystem
}

func newTestWorld(t *testing.T) (*ecs.World, *ecs.ComponentType, *ecs.ComponentType) {
	t.Helper()
	registry := ecs.NewRegistry()
	pos := ecs.RegisterComponent[position](registry)
	prof := ecs.RegisterComponent[profile](registry)
	return ecs.NewWorld(registry), pos, prof
}

func TestImguiSystemQueuesRenders(t *testing.T) {
	world, _, _ := newTestWorld(t)

	sys := NewImguiSystem(world.Registry(), 0)
	world.AddSystem(sys)

	var rendered []string
	windows := []Window{
		windowFunc(func(*ecs.World) { rendered = append(rendered, "a") }),
		windowFunc(func(*ecs.World) { rendered = append(rendered, "b") }),
	}
	entities := SpawnDebugUI(world, windows...)
	require.Len(t, entities, 2)
	assert.Equal(t, 2, sys.Entities().Len())

	sys.queueRenders()
	assert.Empty(t, rendered)

	world.Commands().Flush(world)
	assert.Equal(t, []string{"a", "b"}, rendered)
}

type windowFunc func(*ecs.World)

func (f windowFunc) Render(world *ecs.World) {
	f(world)
}

func TestEntityBrowser(t *testing.T) {
	world, pos, prof := newTestWorld(t)
	world.AddSystem(&counterSystem{BaseSystem: ecs.NewBaseSystem(ecs.Spec(pos), 0, 1)})

	a := world.CreateEntity(world.Registry().Root().With(pos))
	b := world.CreateEntity(world.Registry().Root().With(pos, prof))
	c := world.CreateEntity(world.Registry().Root().With(prof))

	eb := NewEntityBrowser(2)
	eb.refresh(world)

	t.Run("rows", func(t *testing.T) {
		require.Len(t, eb.filtered(), 3)
		row := eb.filtered()[1]
		assert.Equal(t, b.EntityId(), row.ID)
		assert.Equal(t, []string{"debugui.position", "debugui.profile"}, row.ComponentTypes)
		assert.Equal(t, 1, row.SystemCount)
	})

	t.Run("sort", func(t *testing.T) {
		eb.SortBy(0, false)
		assert.Equal(t, c.EntityId(), eb.filtered()[0].ID)

		eb.SortBy(3, true)
		assert.Equal(t, c.EntityId(), eb.filtered()[0].ID)
		eb.SortBy(0, true)
	})

	t.Run("filter", func(t *testing.T) {
		eb.SetFilter("profile")
		assert.Len(t, eb.filtered(), 2)

		eb.SetFilter("")
		tid := a.Archetype().ID()
		eb.FilterArchetype(&tid)
		require.Len(t, eb.filtered(), 1)
		assert.Equal(t, a.EntityId(), eb.filtered()[0].ID)
		eb.FilterArchetype(nil)
	})

	t.Run("paging", func(t *testing.T) {
		assert.Equal(t, 2, eb.totalPages(3))
		start, end := eb.pageBounds(3)
		assert.Equal(t, [2]int{0, 2}, [2]int{start, end})

		eb.currentPage = 5
		start, end = eb.pageBounds(3)
		assert.Equal(t, [2]int{2, 3}, [2]int{start, end})
	})

	t.Run("selection is dropped when the entity goes away", func(t *testing.T) {
		eb.Select(b.EntityId())
		id, ok := eb.Selected()
		require.True(t, ok)
		assert.Equal(t, b.EntityId(), id)

		world.RemoveEntity(b)
		eb.refresh(world)
		_, ok = eb.Selected()
		assert.False(t, ok)
		assert.Len(t, eb.filtered(), 2)
	})
}

func TestArchetypeViewer(t *testing.T) {
	world, pos, prof := newTestWorld(t)
	root := world.Registry().Root()

	world.CreateEntity(root.With(pos))
	world.CreateEntity(root.With(pos, prof))
	world.CreateEntity(root.With(pos, prof))
	world.RemoveEntity(world.CreateEntity(root.With(prof)))

	av := NewArchetypeViewer()
	av.refresh(world)

	require.Len(t, av.archetypes, 3)
	assert.Equal(t, 2, av.archetypes[0].EntityCount)

	av.SortBy(0, true)
	assert.Equal(t, []uint32{1, 2, 3}, []uint32{av.archetypes[0].ID, av.archetypes[1].ID, av.archetypes[2].ID})

	av.SortBy(4, false)
	assert.Equal(t, 1, av.archetypes[0].PooledCount)
	assert.Nil(t, av.Selected())
}

func TestSignatureMatcher(t *testing.T) {
	world, pos, prof := newTestWorld(t)
	root := world.Registry().Root()

	posOnly := &counterSystem{BaseSystem: ecs.NewBaseSystem(ecs.Spec(pos), 0, 1)}
	both := &counterSystem{BaseSystem: ecs.NewBaseSystem(ecs.Spec(pos, prof), 0, 1)}
	world.AddSystem(posOnly)
	world.AddSystem(both)

	world.CreateEntity(root.With(pos))
	world.CreateEntity(root.With(pos, prof))
	world.CreateEntity(root.With(prof))

	sm := NewSignatureMatcher()
	assert.Equal(t, 0, sm.Signature(world.Registry()).Count())

	sm.Toggle(pos, true)
	archetypes := MatchArchetypes(world, sm.Signature(world.Registry()))
	assert.Len(t, archetypes, 2)
	assert.Equal(t, []ecs.System{posOnly}, MatchSystems(world, sm.Signature(world.Registry())))

	sm.Toggle(prof, true)
	archetypes = MatchArchetypes(world, sm.Signature(world.Registry()))
	require.Len(t, archetypes, 1)
	assert.Equal(t, 1, archetypes[0].EntityCount)
	assert.Equal(t, []ecs.System{posOnly, both}, MatchSystems(world, sm.Signature(world.Registry())))

	sm.Toggle(pos, false)
	assert.Equal(t, "{1}", sm.Signature(world.Registry()).String())
}

func TestSetSystemEnabled(t *testing.T) {
	world, pos, _ := newTestWorld(t)
	sys := &counterSystem{BaseSystem: ecs.NewBaseSystem(ecs.Spec(pos), 0, 1)}
	world.AddSystem(sys)

	assert.True(t, SetSystemEnabled(world, sys.ID(), false))
	assert.False(t, sys.Enabled())
	assert.True(t, SetSystemEnabled(world, sys.ID(), true))
	assert.True(t, sys.Enabled())
	assert.False(t, SetSystemEnabled(world, 42, true))

	viewer := NewSystemViewer()
	hidden := &counterSystem{BaseSystem: ecs.NewBaseSystem(nil, -1, 1)}
	world.AddSystem(hidden)
	assert.Len(t, viewer.rows(world.GetStats()), 2)
	viewer.showUnscheduled = false
	assert.Len(t, viewer.rows(world.GetStats()), 1)
}

func TestPerformanceStats(t *testing.T) {
	ps := NewPerformanceStats(4)
	assert.Equal(t, float32(0), ps.AverageFrameTime())

	ps.Record(0.010)
	ps.Record(0.030)
	assert.InDelta(t, 10.0, ps.AverageFrameTime(), 0.001)

	for range 4 {
		ps.Record(0.020)
	}
	assert.InDelta(t, 20.0, ps.AverageFrameTime(), 0.001)
}

func TestReflectionCache(t *testing.T) {
	rc := NewReflectionCache()

	fields := rc.GetFields(reflect.TypeFor[profile]())
	require.Len(t, fields, 4)
	assert.Equal(t, "Home", fields[3].Name)
	assert.True(t, fields[3].IsPointer)
	assert.Equal(t, reflect.Struct, fields[3].Kind)
	assert.Equal(t, reflect.Uint8, fields[1].Kind)

	rc.GetFields(reflect.TypeFor[profile]())
	assert.Equal(t, 1, rc.Len())
	assert.Nil(t, rc.GetFields(reflect.TypeFor[int]()))
}

func TestSetValue(t *testing.T) {
	world, _, prof := newTestWorld(t)
	e := world.CreateEntity(world.Registry().Root().With(prof), profile{Name: "old"})

	val := reflect.ValueOf(e.GetComponent(prof.Type())).Elem()

	assert.True(t, setValue(val.Field(0), "new"))
	assert.True(t, setValue(val.Field(1), uint64(7)))
	assert.False(t, setValue(val.Field(1), uint64(300)))
	assert.True(t, setValue(val.Field(2), true))
	assert.False(t, setValue(val.Field(2), "yes"))
	assert.False(t, setValue(val.Field(4), int64(1)))

	got := ecs.ReadComponent[profile](e)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, uint8(7), got.Level)
	assert.True(t, got.Alive)
}
