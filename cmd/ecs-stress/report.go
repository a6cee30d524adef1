package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/engine"
	"github.com/rotisserie/eris"
)

type Report struct {
	// Configuration
	Duration    time.Duration
	Entities    int
	Components  int
	Systems     int
	OpsPerFrame int
	Seed        uint64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Ops            OpCounts
	Events         []EventCounts
	EventsAdded    int64
	EventsRemoved  int64
	Touched        int64
	Store          ecs.StoreStats
	Engine         *engine.Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
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
}

// Consistent reports whether every structural change produced exactly the
// notifications the store promises: one add per attach, one remove per
// detach and one remove per component of a removed entity.
func (r *Report) Consistent() bool {
	return r.EventsAdded == r.Ops.Attaches &&
		r.EventsRemoved == r.Ops.Detaches+r.Ops.RemovedComponents
}

const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Component Types:** {{.Components}}
- **Systems:** {{.Systems}}
- **Operations per Frame:** {{.OpsPerFrame}}
- **Seed:** {{.Seed}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{if .Engine}}
| System | Executions | Avg | Min | Max |
|--------|-----------:|----:|----:|----:|
{{- range .Engine.Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{- end}}
{{end}}
## Structural Operations
- **Entities Created:** {{.Ops.Creates}}
- **Attaches:** {{.Ops.Attaches}}
- **Detaches:** {{.Ops.Detaches}} ({{.Ops.Skipped}} skipped)
- **Entities Removed:** {{.Ops.Removes}} ({{.Ops.RemovedComponents}} components)
- **Component Writes:** {{.Touched}}

## Notifications
- **Added Events:** {{.EventsAdded}}
- **Removed Events:** {{.EventsRemoved}}
- **Consistent:** {{if .Consistent}}yes{{else}}NO{{end}}

| Type | Added | Removed |
|------|------:|--------:|
{{- range .Events}}
| {{.Name}} | {{.Added}} | {{.Removed}} |
{{- end}}

## Final Store
- **Entities:** {{.Store.EntityCount}}
- **Live Slots:** {{.Store.SlotCount}}
- **Next Slot:** {{.Store.NextSlot}}

| Type | Holders | Stored |
|------|--------:|-------:|
{{- range .Store.Types}}
| {{.Name}} | {{.Holders}} | {{.Stored}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} ({{mb .MemStatsEnd.HeapAlloc}} MiB)
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

var reportFuncs = template.FuncMap{
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

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return eris.Wrap(err, "parse report template")
	}
	if err := tmpl.Execute(w, r); err != nil {
		return eris.Wrap(err, "render report")
	}
	return nil
}
