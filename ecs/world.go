package ecs

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
)

// World owns the entities and systems built on one Registry and drives the
// systems tick by tick. A World is not safe for concurrent use; Update and
// every structural call must happen on one goroutine at a time.
type World struct {
	registry *Registry

	entities     []*Entity
	alive        bitset.BitSet
	nextEntityId EntityId
	entityCount  int
	tables       []*table
	pooling      bool

	systems      []System
	schedule     []System
	nextSystemId uint32
	systemStats  map[uint32]*systemStatsInternal

	tick     uint64
	commands *Commands

	logger zerolog.Logger
	statsd ddstatsd.ClientInterface
}

// NewWorld creates an empty world on the given registry.
func NewWorld(registry *Registry, opts ...WorldOption) *World {
	w := &World{
		registry:    registry,
		pooling:     true,
		systemStats: make(map[uint32]*systemStatsInternal),
		commands:    newCommands(),
		logger:      zerolog.Nop(),
		statsd:      &ddstatsd.NoOpClient{},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Registry returns the registry the world was built on.
func (w *World) Registry() *Registry {
	return w.registry
}

// Commands returns the buffer flushed at the end of every tick.
func (w *World) Commands() *Commands {
	return w.commands
}

// Tick returns the number of completed updates.
func (w *World) Tick() uint64 {
	return w.tick
}

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// AddSystem registers s, calls its Initialize hook and offers it every live
// entity. Adding a system twice does nothing. Adding a system that belongs to
// another world panics.
func (w *World) AddSystem(s System) {
	b := s.core()
	if b.world == w {
		return
	}
	if b.world != nil {
		panic(fmt.Sprintf("ecs: system %s is registered in another world", systemName(s)))
	}

	b.id = w.nextSystemId
	w.nextSystemId++
	b.world = w
	b.self = s
	b.counter = 0

	w.systems = append(w.systems, s)
	w.systemStats[b.id] = &systemStatsInternal{
		name:        systemName(s),
		minDuration: time.Duration(1<<63 - 1),
	}

	s.Initialize()

	for e := range w.Entities() {
		b.Register(e)
	}

	w.logger.Debug().
		Str("system", systemName(s)).
		Uint32("system_id", b.id).
		Int("priority", b.priority).
		Int("frequency", b.frequency).
		Int("entities", b.Entities().Len()).
		Msg("system added")
}

// RemoveSystem unregisters s. Every tracked entity is exited, then Dispose is
// called. It reports false if s is not registered in this world.
func (w *World) RemoveSystem(s System) bool {
	b := s.core()
	if b.world != w {
		return false
	}

	entities := b.Entities()
	for entities.Len() > 0 {
		b.RemoveEntity(entities.At(entities.Len() - 1))
	}

	// Fresh slices keep an Update that is ranging over the old schedule valid.
	w.systems = withoutSystem(w.systems, s)
	w.schedule = withoutSystem(w.schedule, s)
	delete(w.systemStats, b.id)

	s.Dispose()

	b.world = nil
	b.self = nil
	b.counter = 0

	w.logger.Debug().
		Str("system", systemName(s)).
		Uint32("system_id", b.id).
		Msg("system removed")
	return true
}

// Systems returns the registered systems in registration order.
func (w *World) Systems() []System {
	return slices.Clone(w.systems)
}

// Schedule returns the systems in execution order as of the last Reschedule.
func (w *World) Schedule() []System {
	return slices.Clone(w.schedule)
}

// Reschedule rebuilds the execution order from the registered systems whose
// priority is not -1, sorted by ascending priority. Systems with equal
// priority keep their registration order. It must be called after systems
// are added or their priority changes.
func (w *World) Reschedule() {
	schedule := make([]System, 0, len(w.systems))
	for _, s := range w.systems {
		if s.core().priority != -1 {
			schedule = append(schedule, s)
		}
	}
	slices.SortStableFunc(schedule, func(a, b System) int {
		return a.core().priority - b.core().priority
	})
	w.schedule = schedule

	w.logger.Debug().
		Int("registered", len(w.systems)).
		Int("scheduled", len(schedule)).
		Msg("schedule rebuilt")
}

// CreateEntity creates an entity of the given archetype and offers it to
// every registered system. A previously removed instance of the same
// archetype is reused when available; it keeps its id and its component data
// is reset before values are applied. Each value is stored in the archetype
// column of its type.
func (w *World) CreateEntity(archetype *Archetype, values ...any) *Entity {
	if archetype.registry != w.registry || !archetype.registered {
		panic(fmt.Sprintf("ecs: %v is not registered with this world's registry", archetype))
	}

	t := w.tableFor(archetype)
	t.checkValues(values)
	e := t.popPooled()
	if e != nil {
		e.reset(values)
	} else {
		row := t.allocRow()
		t.assign(row, values)
		e = &Entity{
			id:        w.allocEntityId(),
			archetype: archetype,
			world:     w,
			table:     t,
			row:       row,
			systems:   NewSparseSet[System](0),
		}
	}

	e.alive = true
	w.entities[e.id] = e
	w.alive.Set(uint(e.id))
	w.entityCount++
	t.live++

	for _, s := range w.systems {
		s.core().Register(e)
	}

	w.logger.Trace().
		Uint32("entity_id", uint32(e.id)).
		Uint32("archetype_id", archetype.tid).
		Int("systems", e.systems.Len()).
		Msg("entity created")
	return e
}

// RemoveEntity removes e from every system tracking it and from the world.
// With pooling enabled the instance is kept for reuse, so callers must not
// hold on to removed entities. It reports false if e is not a live entity
// of this world. Exit hooks observe e.Alive() == false. Calling it while
// ranging over a system's Entities().Dense() skips entities; use View.Iter or
// World.Commands instead.
func (w *World) RemoveEntity(e *Entity) bool {
	if e == nil || e.world != w || !e.alive {
		return false
	}
	if int(e.id) >= len(w.entities) || w.entities[e.id] != e {
		return false
	}

	e.alive = false
	for e.systems.Len() > 0 {
		s := e.systems.At(e.systems.Len() - 1)
		if !s.core().RemoveEntity(e) {
			e.systems.Delete(s)
		}
	}

	w.entities[e.id] = nil
	w.alive.Clear(uint(e.id))
	w.entityCount--
	e.table.live--

	if w.pooling {
		e.table.pool = append(e.table.pool, e)
	} else {
		e.table.releaseRow(e.row)
	}

	w.logger.Trace().
		Uint32("entity_id", uint32(e.id)).
		Uint32("archetype_id", e.archetype.tid).
		Msg("entity removed")
	return true
}

// Entity returns the live entity with the given id.
func (w *World) Entity(id EntityId) (*Entity, bool) {
	if int(id) >= len(w.entities) {
		return nil, false
	}
	e := w.entities[id]
	return e, e != nil
}

// EntityAt returns the entity occupying slot id, or nil if the slot is free.
// It panics if id was never allocated by this world.
func (w *World) EntityAt(id EntityId) *Entity {
	if int(id) >= len(w.entities) {
		panic(fmt.Sprintf("ecs: entity id %d out of range [0,%d)", id, len(w.entities)))
	}
	return w.entities[id]
}

// Entities yields the live entities in id order. Entities created while
// iterating may or may not be visited.
func (w *World) Entities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for i, ok := w.alive.NextSet(0); ok; i, ok = w.alive.NextSet(i + 1) {
			e := w.entities[i]
			if e == nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.entityCount
}

// Update runs one tick. Scheduled systems run in order; each one only when
// its tick counter says it is due. Queued commands are flushed afterwards.
func (w *World) Update(elapsed float64) {
	tickStart := time.Now()

	for _, s := range w.schedule {
		b := s.core()
		if b.world != w || !b.due() || b.disabled {
			continue
		}

		start := time.Now()
		s.Update(elapsed)
		duration := time.Since(start)

		w.recordExecution(b, duration)
	}

	w.commands.Flush(w)
	w.tick++

	w.emitTiming("tick", time.Since(tickStart), nil)
	if err := w.statsd.Gauge("entities", float64(w.entityCount), nil, 1); err != nil {
		w.logger.Warn().Err(err).Msg("failed to emit entity gauge")
	}
}

// Run updates the world at the given interval until the context is cancelled.
// Elapsed time is passed to systems in seconds.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(lastTime).Seconds()
			lastTime = now
			w.Update(elapsed)
		}
	}
}

func (w *World) recordExecution(b *BaseSystem, duration time.Duration) {
	stats, ok := w.systemStats[b.id]
	if !ok {
		return
	}
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration

	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}

	w.emitTiming("system.update", duration, []string{"system:" + stats.name})
}

func (w *World) emitTiming(name string, d time.Duration, tags []string) {
	if err := w.statsd.Timing(name, d, tags, 1); err != nil {
		w.logger.Warn().Err(err).Str("metric", name).Msg("failed to emit timing")
	}
}

func withoutSystem(systems []System, s System) []System {
	out := make([]System, 0, len(systems))
	for _, other := range systems {
		if other != s {
			out = append(out, other)
		}
	}
	return out
}

func (w *World) tableFor(archetype *Archetype) *table {
	tid := int(archetype.tid)
	if tid >= len(w.tables) {
		w.tables = append(w.tables, make([]*table, tid+1-len(w.tables))...)
	}
	t := w.tables[tid]
	if t == nil {
		t = newTable(archetype)
		w.tables[tid] = t
	}
	return t
}

func (w *World) allocEntityId() EntityId {
	id := w.nextEntityId
	if id == EntityId(^uint32(0)) {
		panic("ecs: entity id space exhausted")
	}
	w.nextEntityId++
	w.entities = append(w.entities, nil)
	return id
}
