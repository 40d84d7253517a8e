package ecs_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/plus3/sigecs/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestWorldLogging(t *testing.T) {
	t.Run("lifecycle events carry the module field", func(t *testing.T) {
		var buf bytes.Buffer
		r, c := newTestRegistry()
		w := ecs.NewWorld(r, ecs.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

		w.AddSystem(newRecordingSystem("p", nil, 0, 1, c.Position))
		w.Reschedule()

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 2)
		assert.Equal(t, "ecs", lines[0]["module"])
		assert.Equal(t, "system added", lines[0]["message"])
		assert.Equal(t, "recordingSystem", lines[0]["system"])
		assert.Equal(t, "schedule rebuilt", lines[1]["message"])
	})

	t.Run("log entity", func(t *testing.T) {
		var buf bytes.Buffer
		r, c := newTestRegistry()
		w := ecs.NewWorld(r, ecs.WithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)))
		w.AddSystem(newRecordingSystem("p", nil, 0, 1, c.Position))

		e := w.CreateEntity(r.Root().With(c.Position, c.Frozen))
		require.NoError(t, w.LogEntity(zerolog.InfoLevel, e.EntityId()))

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, float64(e.EntityId()), lines[0]["entity_id"])
		assert.Equal(t, "{0,5}", lines[0]["signature"])
		assert.Equal(t, []any{"recordingSystem"}, lines[0]["systems"])
		assert.Len(t, lines[0]["components"], 2)
	})

	t.Run("log missing entity", func(t *testing.T) {
		r, _ := newTestRegistry()
		w := ecs.NewWorld(r)

		err := w.LogEntity(zerolog.InfoLevel, 7)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ecs.ErrEntityNotFound))
		assert.True(t, errors.Is(err, ecs.ErrEntityNotFound))
		assert.Contains(t, err.Error(), "entity 7")
	})

	t.Run("log world", func(t *testing.T) {
		var buf bytes.Buffer
		r, c := newTestRegistry()
		w := ecs.NewWorld(r, ecs.WithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)))
		w.AddSystem(newRecordingSystem("p", nil, 0, 1, c.Position))
		w.CreateEntity(r.Root().With(c.Position))

		w.LogWorld(zerolog.InfoLevel)

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 3)
		assert.Equal(t, float64(6), lines[0]["total_components"])
		assert.Equal(t, float64(1), lines[1]["total_systems"])
		assert.Equal(t, float64(1), lines[2]["entities"])
	})
}
