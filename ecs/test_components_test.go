package ecs_test

import "github.com/plus3/sigecs/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Temperature float64

// testComponents holds the descriptors registered by newTestRegistry.
type testComponents struct {
	Position *ecs.ComponentType
	Velocity *ecs.ComponentType
	Name     *ecs.ComponentType
	Health   *ecs.ComponentType
	Temp     *ecs.ComponentType
	Frozen   *ecs.ComponentType
}

func newTestRegistry() (*ecs.Registry, testComponents) {
	r := ecs.NewRegistry()
	return r, testComponents{
		Position: ecs.RegisterComponent[Position](r),
		Velocity: ecs.RegisterComponent[Velocity](r),
		Name:     ecs.RegisterComponent[Name](r),
		Health:   ecs.RegisterComponent[Health](r),
		Temp:     ecs.RegisterComponent[Temperature](r),
		Frozen:   r.RegisterTag("Frozen"),
	}
}

// recordingSystem counts its hook calls.
type recordingSystem struct {
	ecs.BaseSystem
	label       string
	log         *[]string
	initialized int
	disposed    int
	entered     []ecs.EntityId
	exited      []ecs.EntityId
	updates     []uint64
}

func newRecordingSystem(label string, log *[]string, priority, frequency int, components ...*ecs.ComponentType) *recordingSystem {
	return &recordingSystem{
		BaseSystem: ecs.NewBaseSystem(ecs.Spec(components...), priority, frequency),
		label:      label,
		log:        log,
	}
}

func (s *recordingSystem) Initialize() {
	s.initialized++
}

func (s *recordingSystem) Enter(e *ecs.Entity) {
	s.entered = append(s.entered, e.EntityId())
}

func (s *recordingSystem) Exit(e *ecs.Entity) {
	s.exited = append(s.exited, e.EntityId())
}

func (s *recordingSystem) Update(elapsed float64) {
	s.updates = append(s.updates, s.World().Tick())
	if s.log != nil {
		*s.log = append(*s.log, s.label)
	}
}

func (s *recordingSystem) Dispose() {
	s.disposed++
}

// movementSystem integrates Velocity into Position.
type movementSystem struct {
	ecs.BaseSystem
	view *ecs.View[struct {
		*Position
		*Velocity
	}]
}

func newMovementSystem(r *ecs.Registry, c testComponents) *movementSystem {
	return &movementSystem{
		BaseSystem: ecs.NewBaseSystem(ecs.Spec(c.Position, c.Velocity), 0, 1),
		view: ecs.NewView[struct {
			*Position
			*Velocity
		}](r),
	}
}

func (s *movementSystem) Update(elapsed float64) {
	for _, item := range s.view.Iter(s.Entities()) {
		item.Position.X += item.Velocity.DX * float32(elapsed)
		item.Position.Y += item.Velocity.DY * float32(elapsed)
	}
}
