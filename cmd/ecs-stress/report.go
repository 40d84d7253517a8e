package main

import (
	"cmp"
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/goccy/go-json"
	"github.com/plus3/sigecs/ecs"
	"github.com/rotisserie/eris"
)

const slowestSystems = 10

type Report struct {
	// Configuration
	Duration       time.Duration `json:"duration_ns"`
	Seed           int64         `json:"seed"`
	Entities       int           `json:"entities"`
	DataComponents int           `json:"data_components"`
	TagComponents  int           `json:"tag_components"`
	Systems        int           `json:"systems"`
	Churn          int           `json:"churn"`
	Pooling        bool          `json:"pooling"`

	// Results
	TotalUpdates   int64               `json:"total_updates"`
	TotalTime      time.Duration       `json:"total_time_ns"`
	UpdateTime     Stats               `json:"update_time"`
	Churned        int64               `json:"churned"`
	World          *ecs.WorldStats     `json:"-"`
	Scheduler      *ecs.SchedulerStats `json:"-"`
	SlowestSystems []ecs.SystemStats   `json:"slowest_systems"`
	Final          WorldSummary        `json:"final"`
	Memory         MemorySummary       `json:"memory"`

	GCPauseMetrics bool             `json:"-"`
	MemStatsStart  runtime.MemStats `json:"-"`
	MemStatsEnd    runtime.MemStats `json:"-"`
}

type WorldSummary struct {
	Entities        int   `json:"entities"`
	Pooled          int   `json:"pooled"`
	Archetypes      int   `json:"archetypes"`
	Scheduled       int   `json:"scheduled_systems"`
	TotalExecutions int64 `json:"total_executions"`
}

type MemorySummary struct {
	HeapAllocDelta  int64  `json:"heap_alloc_delta"`
	TotalAllocDelta int64  `json:"total_alloc_delta"`
	SysDelta        int64  `json:"sys_delta"`
	NumGC           uint32 `json:"num_gc"`
	PauseTotal      uint64 `json:"pause_total_ns"`
}

type Stats struct {
	Min     time.Duration   `json:"min_ns"`
	Max     time.Duration   `json:"max_ns"`
	Avg     time.Duration   `json:"avg_ns"`
	P50     time.Duration   `json:"p50_ns"`
	P99     time.Duration   `json:"p99_ns"`
	Samples []time.Duration `json:"-"`
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P50 = sorted[len(sorted)/2]
	s.P99 = sorted[(len(sorted)*99)/100]
}

// Finalize derives the summary fields from the collected samples and stats.
func (r *Report) Finalize() {
	r.UpdateTime.Finalize()

	if r.World != nil {
		r.Final.Entities = r.World.EntityCount
		r.Final.Pooled = r.World.PooledCount
		r.Final.Archetypes = r.World.ArchetypeCount
	}

	if r.Scheduler != nil {
		r.Final.Scheduled = r.Scheduler.ScheduledCount
		r.Final.TotalExecutions = r.Scheduler.TotalExecutions

		systems := slices.Clone(r.Scheduler.Systems)
		slices.SortStableFunc(systems, func(a, b ecs.SystemStats) int {
			return cmp.Compare(b.TotalDuration, a.TotalDuration)
		})
		r.SlowestSystems = systems[:min(len(systems), slowestSystems)]
	}

	r.Memory = MemorySummary{
		HeapAllocDelta:  int64(r.MemStatsEnd.HeapAlloc) - int64(r.MemStatsStart.HeapAlloc),
		TotalAllocDelta: int64(r.MemStatsEnd.TotalAlloc) - int64(r.MemStatsStart.TotalAlloc),
		SysDelta:        int64(r.MemStatsEnd.Sys) - int64(r.MemStatsStart.Sys),
		NumGC:           r.MemStatsEnd.NumGC - r.MemStatsStart.NumGC,
		PauseTotal:      r.MemStatsEnd.PauseTotalNs - r.MemStatsStart.PauseTotalNs,
	}
}

// Write renders the report as "text" or "json".
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return r.WriteJSON(w)
	case "text":
		return r.Generate(w)
	default:
		return eris.Errorf("unknown report format %q", format)
	}
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(r), "encode report")
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Seed:** {{.Seed}}
- **Initial Entities:** {{.Entities}}
- **Generated Components:** {{.DataComponents}} data, {{.TagComponents}} tags
- **Generated Systems:** {{.Systems}}
- **Churn Per Tick:** {{.Churn}} (pooling: {{.Pooling}})

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Entities Churned:** {{.Churned}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
  - **P50:** {{.UpdateTime.P50}}
  - **P99:** {{.UpdateTime.P99}}

## World
- **Live Entities:** {{.Final.Entities}}
- **Pooled Entities:** {{.Final.Pooled}}
- **Archetypes:** {{.Final.Archetypes}}
- **Scheduled Systems:** {{.Final.Scheduled}}
- **System Executions:** {{.Final.TotalExecutions}}

## Slowest Systems
{{range .SlowestSystems}}- **{{.Name}}** (priority {{.Priority}}, every {{.Frequency}}): {{.ExecutionCount}} runs, {{.EntityCount}} entities, avg {{.AvgDuration}}, max {{.MaxDuration}}, total {{.TotalDuration}}
{{end}}
## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} MB (start) -> {{mb .MemStatsEnd.Sys}} MB (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.Memory.PauseTotal | ns}}
- **Num GC Cycles:** {{.Memory.NumGC}}
{{end}}`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return eris.Wrap(err, "parse report template")
	}

	return eris.Wrap(tmpl.Execute(w, r), "render report")
}
