package ecs

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// ErrEntityNotFound is returned when an entity id does not name a live entity.
var ErrEntityNotFound = eris.New("entity not found")

func componentsArray(components []*ComponentType) *zerolog.Array {
	arr := zerolog.Arr()
	for _, c := range components {
		arr = arr.Dict(zerolog.Dict().
			Uint32("component_id", c.id).
			Str("component_name", c.name))
	}
	return arr
}

// LogComponents logs every component registered with the world's registry.
func (w *World) LogComponents(level zerolog.Level) {
	components := w.registry.Components()
	w.logger.WithLevel(level).
		Int("total_components", len(components)).
		Array("components", componentsArray(components)).
		Send()
}

// LogSystems logs every registered system with its scheduling state.
func (w *World) LogSystems(level zerolog.Level) {
	arr := zerolog.Arr()
	for _, s := range w.systems {
		b := s.core()
		arr = arr.Dict(zerolog.Dict().
			Uint32("system_id", b.id).
			Str("system_name", systemName(s)).
			Int("priority", b.priority).
			Int("frequency", b.frequency).
			Bool("enabled", !b.disabled).
			Int("entities", b.Entities().Len()))
	}

	w.logger.WithLevel(level).
		Int("total_systems", len(w.systems)).
		Int("scheduled_systems", len(w.schedule)).
		Array("systems", arr).
		Send()
}

// LogEntity logs the archetype, components and systems of one entity.
func (w *World) LogEntity(level zerolog.Level, id EntityId) error {
	e, ok := w.Entity(id)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "entity %d", id)
	}

	systems := zerolog.Arr()
	for _, s := range e.systems.Dense() {
		systems = systems.Str(systemName(s))
	}

	w.logger.WithLevel(level).
		Uint32("entity_id", uint32(e.id)).
		Uint32("archetype_id", e.archetype.tid).
		Str("signature", e.archetype.signature.String()).
		Array("components", componentsArray(e.archetype.components)).
		Array("systems", systems).
		Send()
	return nil
}

// LogWorld logs the components, systems and entity totals of the world.
func (w *World) LogWorld(level zerolog.Level) {
	w.LogComponents(level)
	w.LogSystems(level)

	stats := w.CollectStats()
	w.logger.WithLevel(level).
		Uint64("tick", w.tick).
		Int("entities", stats.EntityCount).
		Int("pooled", stats.PooledCount).
		Int("archetypes", stats.ArchetypeCount).
		Send()
}
