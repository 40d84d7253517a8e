package ecs

import (
	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog"
)

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger used for lifecycle events. The default discards everything.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger.With().Str("module", "ecs").Logger()
	}
}

// WithStatsd sets the client tick timings are emitted to.
func WithStatsd(client ddstatsd.ClientInterface) WorldOption {
	return func(w *World) {
		if client != nil {
			w.statsd = client
		}
	}
}

// WithPooling controls whether removed entities are kept for reuse by later
// CreateEntity calls of the same archetype. Pooling is on by default.
func WithPooling(enabled bool) WorldOption {
	return func(w *World) {
		w.pooling = enabled
	}
}

// WithInitialCapacity pre-sizes the entity table.
func WithInitialCapacity(n int) WorldOption {
	return func(w *World) {
		if n > 0 {
			w.entities = make([]*Entity, 0, n)
		}
	}
}
