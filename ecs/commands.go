package ecs

// Commands buffers structural changes requested while the world is updating.
// The buffer is flushed at the end of every tick, so systems can create and
// remove entities without disturbing the entity sets being iterated.
type Commands struct {
	creates []createCommand
	removes []*Entity
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type createCommand struct {
	archetype *Archetype
	values    []any
}

// Defer queues a function to run after the other commands.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Create queues the creation of an entity of the given archetype.
func (c *Commands) Create(archetype *Archetype, values ...any) {
	c.creates = append(c.creates, createCommand{archetype: archetype, values: values})
}

// Remove queues the removal of an entity.
func (c *Commands) Remove(e *Entity) {
	c.removes = append(c.removes, e)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.removes) + len(c.defers)
}

// Flush applies every queued command to the world and resets the buffer.
// Removals run first, so an entity removed and recreated in the same tick
// can be served from the pool. Commands queued while flushing are kept for
// the next flush.
func (c *Commands) Flush(w *World) {
	creates, removes, defers := c.creates, c.removes, c.defers
	c.creates, c.removes, c.defers = nil, nil, nil

	removed := make(map[*Entity]bool, len(removes))
	for _, e := range removes {
		if removed[e] {
			continue
		}
		removed[e] = true
		w.RemoveEntity(e)
	}

	for _, cmd := range creates {
		w.CreateEntity(cmd.archetype, cmd.values...)
	}

	for _, df := range defers {
		df.fn()
	}
}
