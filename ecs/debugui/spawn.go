package debugui

import "github.com/plus3/sigecs/ecs"

// RegisterDebugUIComponents registers the components used by this package.
func RegisterDebugUIComponents(registry *ecs.Registry) *ecs.ComponentType {
	return ecs.RegisterComponent[ImguiItem](registry)
}

// SpawnDebugUI creates one ImguiItem entity per window. Each item renders its
// window against the world it was spawned in.
func SpawnDebugUI(world *ecs.World, windows ...Window) []*ecs.Entity {
	item := RegisterDebugUIComponents(world.Registry())
	archetype := world.Registry().Root().With(item)

	entities := make([]*ecs.Entity, 0, len(windows))
	for _, window := range windows {
		entities = append(entities, world.CreateEntity(archetype, ImguiItem{
			Render: func() { window.Render(world) },
		}))
	}
	return entities
}
