package ecs_test

import (
	"testing"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
)

type recordingStatsd struct {
	ddstatsd.NoOpClient
	timings map[string][]string
	gauges  map[string]float64
}

func newRecordingStatsd() *recordingStatsd {
	return &recordingStatsd{
		timings: make(map[string][]string),
		gauges:  make(map[string]float64),
	}
}

func (c *recordingStatsd) Timing(name string, value time.Duration, tags []string, rate float64) error {
	c.timings[name] = append(c.timings[name], tags...)
	return nil
}

func (c *recordingStatsd) Gauge(name string, value float64, tags []string, rate float64) error {
	c.gauges[name] = value
	return nil
}

func TestWorldMetrics(t *testing.T) {
	client := newRecordingStatsd()
	r, c := newTestRegistry()
	w := ecs.NewWorld(r, ecs.WithStatsd(client))

	w.AddSystem(newRecordingSystem("p", nil, 0, 1, c.Position))
	w.Reschedule()
	w.CreateEntity(r.Root().With(c.Position))
	w.CreateEntity(r.Root().With(c.Position))

	w.Update(0)
	w.Update(0)

	assert.Len(t, client.timings["tick"], 0)
	assert.Contains(t, client.timings, "tick")
	assert.Equal(t, []string{"system:recordingSystem", "system:recordingSystem"}, client.timings["system.update"])
	assert.Equal(t, float64(2), client.gauges["entities"])
}

func TestWithStatsdNil(t *testing.T) {
	r, _ := newTestRegistry()
	w := ecs.NewWorld(r, ecs.WithStatsd(nil))

	assert.NotPanics(t, func() { w.Update(0) })
}
