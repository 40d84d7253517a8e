package main

import (
	"fmt"
	"math/rand"

	"github.com/plus3/sigecs/ecs"
	"github.com/plus3/sigecs/internal/config"
)

type vec2 struct{ X, Y float64 }

type vec3 struct{ X, Y, Z float64 }

type scalar struct{ V float64 }

type counter struct{ N uint64 }

type flags struct{ Bits uint32 }

type label struct{ Text string }

type timer struct{ Left, Total float64 }

type bounds struct{ Min, Max vec2 }

// payload is a data component together with the work a system does on it.
type payload struct {
	component *ecs.ComponentType
	touch     func(e *ecs.Entity, elapsed float64)
}

func newPayload[T any](r *ecs.Registry, touch func(v *T, elapsed float64)) payload {
	return payload{
		component: ecs.RegisterComponent[T](r),
		touch: func(e *ecs.Entity, elapsed float64) {
			if v := ecs.ReadComponent[T](e); v != nil {
				touch(v, elapsed)
			}
		},
	}
}

func registerPayloads(r *ecs.Registry) []payload {
	return []payload{
		newPayload(r, func(v *vec2, dt float64) { v.X += dt; v.Y -= dt }),
		newPayload(r, func(v *vec3, dt float64) { v.X += dt; v.Y += v.X * dt; v.Z = v.X + v.Y }),
		newPayload(r, func(v *scalar, dt float64) { v.V = v.V*0.5 + dt }),
		newPayload(r, func(v *counter, _ float64) { v.N++ }),
		newPayload(r, func(v *flags, _ float64) { v.Bits = v.Bits<<1 | v.Bits>>31 | 1 }),
		newPayload(r, func(v *label, _ float64) {
			if v.Text == "" {
				v.Text = "touched"
			}
		}),
		newPayload(r, func(v *timer, dt float64) {
			v.Total += dt
			if v.Left -= dt; v.Left < 0 {
				v.Left = 1
			}
		}),
		newPayload(r, func(v *bounds, dt float64) { v.Max.X += dt; v.Max.Y += dt }),
	}
}

// generated holds the registry contents built for a stress run.
type generated struct {
	registry   *ecs.Registry
	components []*ecs.ComponentType
	payloads   map[uint32]payload
	dataCount  int
	tagCount   int
}

// generate registers cfg.Components components. Data components are limited
// to the fixed payload types; the rest are tags.
func generate(cfg config.StressConfig) *generated {
	r := ecs.NewRegistry()
	g := &generated{
		registry: r,
		payloads: make(map[uint32]payload),
	}

	all := registerPayloads(r)
	g.dataCount = min(cfg.Components-cfg.Tags, len(all))
	for _, p := range all[:g.dataCount] {
		g.payloads[p.component.ID()] = p
		g.components = append(g.components, p.component)
	}

	g.tagCount = cfg.Components - g.dataCount
	for i := range g.tagCount {
		g.components = append(g.components, r.RegisterTag(fmt.Sprintf("tag%03d", i)))
	}
	return g
}

// randomArchetype composes 1 to maxComponents random components from the root.
func (g *generated) randomArchetype(rng *rand.Rand, maxComponents int) *ecs.Archetype {
	n := rng.Intn(maxComponents) + 1
	picked := make([]*ecs.ComponentType, n)
	for i := range picked {
		picked[i] = g.components[rng.Intn(len(g.components))]
	}
	return g.registry.Root().With(picked...)
}

// stressSystem touches the data components of its signature on every
// tracked entity.
type stressSystem struct {
	ecs.BaseSystem
	name    string
	touches []payload
}

func (s *stressSystem) SystemName() string {
	return s.name
}

func (s *stressSystem) Update(elapsed float64) {
	for _, e := range s.Entities().Dense() {
		for _, p := range s.touches {
			p.touch(e, elapsed)
		}
	}
}

// randomSystems builds n systems with 1 or 2 component signatures. Roughly one
// in ten is left unscheduled.
func (g *generated) randomSystems(rng *rand.Rand, n, maxFrequency int) []*stressSystem {
	systems := make([]*stressSystem, 0, n)
	for i := range n {
		signature := []*ecs.ComponentType{g.components[rng.Intn(len(g.components))]}
		if rng.Intn(2) == 0 {
			if c := g.components[rng.Intn(len(g.components))]; c != signature[0] {
				signature = append(signature, c)
			}
		}

		var touches []payload
		for _, c := range signature {
			if p, ok := g.payloads[c.ID()]; ok {
				touches = append(touches, p)
			}
		}

		priority := rng.Intn(16)
		if rng.Intn(10) == 0 {
			priority = -1
		}

		systems = append(systems, &stressSystem{
			BaseSystem: ecs.NewBaseSystem(ecs.Spec(signature...), priority, rng.Intn(maxFrequency)+1),
			name:       fmt.Sprintf("stress%03d", i),
			touches:    touches,
		})
	}
	return systems
}
