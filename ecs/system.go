package ecs

import (
	"reflect"
)

// System processes the entities whose archetype carries every component of
// its signature. User systems embed BaseSystem, which supplies membership
// bookkeeping and no-op hooks, and override the hooks they need.
type System interface {
	Identified

	// Signature returns the components an entity must have to be tracked.
	Signature() *BitField

	// Initialize is called when the system is added to a world, before any
	// entity is offered to it.
	Initialize()
	// Enter is called once when an entity starts being tracked.
	Enter(e *Entity)
	// Exit is called once when a tracked entity stops being tracked.
	Exit(e *Entity)
	// Update runs the system. elapsed is passed through from World.Update.
	Update(elapsed float64)
	// Dispose is called after the system has been removed from its world.
	Dispose()

	core() *BaseSystem
}

// BaseSystem implements the bookkeeping part of System. It must be embedded
// by value in every system type.
type BaseSystem struct {
	id        uint32
	priority  int
	frequency int
	disabled  bool
	signature *BitField
	entities  *SparseSet[*Entity]

	world   *World
	self    System
	counter int
}

// NewBaseSystem creates the embedded part of a system. A priority of -1 keeps
// the system out of the schedule; a frequency of n runs it every nth tick.
func NewBaseSystem(signature *BitField, priority, frequency int) BaseSystem {
	if signature == nil {
		signature = NewBitField(wordBits)
	}
	return BaseSystem{
		priority:  priority,
		frequency: frequency,
		signature: signature,
		entities:  NewSparseSet[*Entity](0),
	}
}

func (b *BaseSystem) core() *BaseSystem {
	return b
}

// ID returns the id assigned when the system was added to a world.
func (b *BaseSystem) ID() uint32 {
	return b.id
}

// Signature returns the required components.
func (b *BaseSystem) Signature() *BitField {
	return b.signature
}

// Priority returns the scheduling key; lower runs earlier.
func (b *BaseSystem) Priority() int {
	return b.priority
}

// SetPriority changes the scheduling key. World.Reschedule must be called for
// the change to take effect.
func (b *BaseSystem) SetPriority(priority int) {
	b.priority = priority
}

// Frequency returns the number of ticks between two runs.
func (b *BaseSystem) Frequency() int {
	return b.frequency
}

// SetFrequency changes the number of ticks between two runs.
func (b *BaseSystem) SetFrequency(frequency int) {
	b.frequency = frequency
	b.counter = 0
}

// Enabled reports whether the system runs when its turn comes.
func (b *BaseSystem) Enabled() bool {
	return !b.disabled
}

// Enable lets the system run again.
func (b *BaseSystem) Enable() {
	b.disabled = false
}

// Disable skips the system's Update until Enable is called. Membership is
// still maintained.
func (b *BaseSystem) Disable() {
	b.disabled = true
}

// Entities returns the tracked entities. Removing entities directly while
// ranging over Dense() skips and zeroes slots; use View.Iter, iterate
// backwards, or queue removals on World.Commands.
func (b *BaseSystem) Entities() *SparseSet[*Entity] {
	if b.entities == nil {
		b.entities = NewSparseSet[*Entity](0)
	}
	return b.entities
}

// World returns the world the system is registered in, or nil.
func (b *BaseSystem) World() *World {
	return b.world
}

// Name returns the name of the concrete system type.
func (b *BaseSystem) Name() string {
	return systemName(b.hooks())
}

// Test reports whether e qualifies for this system.
func (b *BaseSystem) Test(e *Entity) bool {
	if b.signature == nil {
		return true
	}
	return b.signature.Subset(e.Signature())
}

// Register starts tracking e if it qualifies. It reports whether e was added.
// Only entities of the world the system is registered in can be tracked.
func (b *BaseSystem) Register(e *Entity) bool {
	if !b.Test(e) {
		return false
	}
	return b.AddEntity(e)
}

// AddEntity starts tracking e and calls Enter. Adding a tracked entity again
// does nothing. It reports false if the system is not registered in e's world,
// since system ids are only unique within one world.
func (b *BaseSystem) AddEntity(e *Entity) bool {
	if e == nil || b.world == nil || b.world != e.world {
		return false
	}
	if !b.Entities().Add(e) {
		return false
	}
	self := b.hooks()
	e.systems.Add(self)
	self.Enter(e)
	return true
}

// RemoveEntity stops tracking e and calls Exit. Exit is only called if e was
// tracked.
func (b *BaseSystem) RemoveEntity(e *Entity) bool {
	if !b.Entities().Delete(e) {
		return false
	}
	self := b.hooks()
	e.systems.Delete(self)
	self.Exit(e)
	return true
}

func (b *BaseSystem) Initialize()            {}
func (b *BaseSystem) Enter(e *Entity)        {}
func (b *BaseSystem) Exit(e *Entity)         {}
func (b *BaseSystem) Update(elapsed float64) {}
func (b *BaseSystem) Dispose()               {}

// hooks returns the system that owns b so that overridden hooks are used.
func (b *BaseSystem) hooks() System {
	if b.self != nil {
		return b.self
	}
	return b
}

// due advances the tick counter and reports whether the system runs this tick.
// A system runs on the first tick and then every frequency ticks.
func (b *BaseSystem) due() bool {
	run := b.counter == 0
	b.counter++
	if b.counter >= b.frequency {
		b.counter = 0
	}
	return run
}

// Named is implemented by systems that report a name other than their Go
// type name in stats and logs.
type Named interface {
	SystemName() string
}

func systemName(s System) string {
	if n, ok := s.(Named); ok {
		return n.SystemName()
	}
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
