package main

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/plus3/sigecs/ecs"
	"github.com/plus3/sigecs/internal/config"
	"github.com/rs/zerolog"
)

const maxEntityComponents = 5

// runStress builds a generated world from cfg and updates it until the
// configured duration elapses or ctx is cancelled.
func runStress(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...ecs.WorldOption) *Report {
	stress := cfg.Stress
	rng := rand.New(rand.NewSource(stress.Seed))

	// 1. Setup registry, world and systems
	g := generate(stress)
	opts = append([]ecs.WorldOption{
		ecs.WithLogger(logger),
		ecs.WithPooling(cfg.World.Pooling),
		ecs.WithInitialCapacity(cfg.World.InitialCapacity),
	}, opts...)
	world := ecs.NewWorld(g.registry, opts...)

	for _, s := range g.randomSystems(rng, stress.Systems, stress.MaxFrequency) {
		world.AddSystem(s)
	}
	world.Reschedule()
	logger.Info().
		Int("data_components", g.dataCount).
		Int("tag_components", g.tagCount).
		Int("systems", stress.Systems).
		Msg("registry generated")

	// 2. Populate the world with initial entities
	logger.Info().Int("entities", stress.Entities).Msg("populating world")
	for range stress.Entities {
		world.CreateEntity(g.randomArchetype(rng, maxEntityComponents))
	}
	logger.Info().Int("archetypes", len(g.registry.Archetypes())).Msg("population complete")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       stress.Duration.Duration,
		Seed:           stress.Seed,
		Entities:       stress.Entities,
		DataComponents: g.dataCount,
		TagComponents:  g.tagCount,
		Systems:        stress.Systems,
		Churn:          stress.Churn,
		Pooling:        cfg.World.Pooling,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", stress.Duration.Duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(ctx, stress.Duration.Duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()
	lastProgress := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			// Without pooling every recreated entity takes a fresh id.
			idRange := stress.Entities
			if !cfg.World.Pooling {
				idRange += int(report.Churned)
			}
			report.Churned += int64(churn(world, rng, stress.Churn, idRange))

			updateStart := time.Now()
			world.Update(deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			report.TotalUpdates++

			if time.Since(lastProgress) >= time.Second {
				lastProgress = time.Now()
				logger.Debug().
					Uint64("tick", world.Tick()).
					Int("entities", world.EntityCount()).
					Dur("last_update", updateDuration).
					Msg("progress")
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.World = world.CollectStats()
	report.Scheduler = world.GetStats()
	report.Finalize()

	logger.Info().
		Int64("updates", report.TotalUpdates).
		Dur("total_time", report.TotalTime).
		Msg("simulation finished")
	return report
}

// churn queues the removal and recreation of up to n random live entities
// drawn from ids [0, idRange). Recreated entities keep their archetype, so
// with pooling enabled they reuse the removed instance. It returns the number
// of distinct entities queued.
func churn(world *ecs.World, rng *rand.Rand, n, idRange int) int {
	if n == 0 || idRange == 0 {
		return 0
	}

	cmds := world.Commands()
	picked := make(map[ecs.EntityId]struct{}, n)
	for range n {
		id := ecs.EntityId(rng.Intn(idRange))
		if _, dup := picked[id]; dup {
			continue
		}
		e, ok := world.Entity(id)
		if !ok {
			continue
		}
		picked[id] = struct{}{}
		cmds.Remove(e)
		cmds.Create(e.Archetype())
	}
	return len(picked)
}
