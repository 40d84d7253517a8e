package ecs

import (
	"time"
)

// SchedulerStats provides statistics about system execution.
type SchedulerStats struct {
	Tick            uint64
	SystemCount     int
	ScheduledCount  int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	ID             uint32
	Name           string
	Priority       int
	Frequency      int
	Enabled        bool
	EntityCount    int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// GetStats returns statistics about system execution, in registration order.
func (w *World) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		Tick:           w.tick,
		SystemCount:    len(w.systems),
		ScheduledCount: len(w.schedule),
		Systems:        make([]SystemStats, 0, len(w.systems)),
	}

	var totalExecs int64
	for _, s := range w.systems {
		b := s.core()
		internal := w.systemStats[b.id]

		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems = append(stats.Systems, SystemStats{
			ID:             b.id,
			Name:           internal.name,
			Priority:       b.priority,
			Frequency:      b.frequency,
			Enabled:        !b.disabled,
			EntityCount:    b.Entities().Len(),
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		})
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}

// WorldStats summarises the entities held by a world.
type WorldStats struct {
	EntityCount        int
	PooledCount        int
	ArchetypeCount     int
	SystemCount        int
	ArchetypeBreakdown []ArchetypeStats
}

// ArchetypeStats describes the entities of one archetype inside a world.
type ArchetypeStats struct {
	ID             uint32
	Signature      string
	ComponentTypes []string
	EntityCount    int
	PooledCount    int
}

// CollectStats gathers entity statistics for every archetype the world has
// instantiated, ordered by tid.
func (w *World) CollectStats() *WorldStats {
	stats := &WorldStats{
		EntityCount: w.entityCount,
		SystemCount: len(w.systems),
	}

	for _, t := range w.tables {
		if t == nil {
			continue
		}

		componentTypes := make([]string, len(t.archetype.components))
		for i, c := range t.archetype.components {
			componentTypes[i] = c.name
		}

		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             t.archetype.tid,
			Signature:      t.archetype.signature.String(),
			ComponentTypes: componentTypes,
			EntityCount:    t.live,
			PooledCount:    len(t.pool),
		})
		stats.PooledCount += len(t.pool)
	}

	stats.ArchetypeCount = len(stats.ArchetypeBreakdown)
	return stats
}
