package engine

import (
	"context"
	"reflect"
	"time"

	"github.com/plus3/entstore/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// ErrHalted is returned by Update and Run once a system has failed.
var ErrHalted = eris.New("engine halted")

// Stats provides statistics about engine execution.
type Stats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system or render service.
type SystemStats struct {
	Name           string
	Render         bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	render         bool
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type systemEntry struct {
	system ecs.System
	log    zerolog.Logger
	stats  *systemStatsInternal
}

type renderEntry[R any] struct {
	service ecs.RenderService[R]
	log     zerolog.Logger
	stats   *systemStatsInternal
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger sets the engine's logger. Each system gets a sub-logger with a
// "system" field.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.log = logger
	}
}

// Engine drives systems and render services over a store, one frame per
// Update. R is the renderer handed to render services.
type Engine[R any] struct {
	store    *ecs.Store
	renderer R
	systems  []systemEntry
	services []renderEntry[R]
	frames   int64
	halted   error
	log      zerolog.Logger
}

// New creates an engine for the given store and renderer.
func New[R any](store *ecs.Store, renderer R, opts ...Option) *Engine[R] {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[R]{
		store:    store,
		renderer: renderer,
		log:      o.log,
	}
}

// Store returns the store the engine drives.
func (e *Engine[R]) Store() *ecs.Store {
	return e.store
}

// AddSystem initializes the system and appends it to the update order. A
// system whose Initialize fails is not registered.
func (e *Engine[R]) AddSystem(system ecs.System) error {
	name := systemName(system)
	log := e.log.With().Str("system", name).Logger()
	if err := system.Initialize(e.store); err != nil {
		log.Error().Err(err).Msg("system failed to initialize")
		return eris.Wrapf(err, "initialize %s", name)
	}

	e.systems = append(e.systems, systemEntry{
		system: system,
		log:    log,
		stats:  newStats(name, false),
	})
	log.Debug().Msg("system registered")
	return nil
}

// AddRenderService initializes the render service with the engine's
// renderer and appends it to the render order. Render services always run
// after every system.
func (e *Engine[R]) AddRenderService(service ecs.RenderService[R]) error {
	name := systemName(service)
	log := e.log.With().Str("system", name).Logger()
	if err := service.Initialize(e.store, e.renderer); err != nil {
		log.Error().Err(err).Msg("render service failed to initialize")
		return eris.Wrapf(err, "initialize %s", name)
	}

	e.services = append(e.services, renderEntry[R]{
		service: service,
		log:     log,
		stats:   newStats(name, true),
	})
	log.Debug().Msg("render service registered")
	return nil
}

// Update runs every system and then every render service once with the
// given delta time. The first failure stops the frame, halts the engine and
// is returned wrapped with the failing system's name.
func (e *Engine[R]) Update(dt float64) error {
	if e.halted != nil {
		return eris.Wrapf(ErrHalted, "after %v", e.halted)
	}

	for _, entry := range e.systems {
		start := time.Now()
		err := entry.system.Update(dt, e.store)
		entry.stats.record(time.Since(start))
		if err != nil {
			return e.halt(entry.log, entry.stats.name, err)
		}
	}

	for _, entry := range e.services {
		start := time.Now()
		err := entry.service.Update(dt, e.store, e.renderer)
		entry.stats.record(time.Since(start))
		if err != nil {
			return e.halt(entry.log, entry.stats.name, err)
		}
	}

	e.frames++
	return nil
}

func (e *Engine[R]) halt(log zerolog.Logger, name string, err error) error {
	e.halted = eris.Wrapf(err, "update %s", name)
	log.Error().Err(err).Int64("frame", e.frames).Msg("system failed, engine halted")
	return e.halted
}

// Halted reports the error that stopped the engine, or nil while it runs.
func (e *Engine[R]) Halted() error {
	return e.halted
}

// Run executes Update repeatedly at the given interval until the context is
// cancelled or an update fails. Cancellation is not an error.
func (e *Engine[R]) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.log.Info().Dur("interval", interval).Int("systems", len(e.systems)).Int("render_services", len(e.services)).Msg("engine started")
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			e.log.Info().Int64("frames", e.frames).Msg("engine stopped")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := e.Update(dt); err != nil {
				return err
			}
		}
	}
}

// Stats returns statistics about system execution. Systems are listed in
// update order, followed by render services.
func (e *Engine[R]) Stats() *Stats {
	all := make([]*systemStatsInternal, 0, len(e.systems)+len(e.services))
	for _, entry := range e.systems {
		all = append(all, entry.stats)
	}
	for _, entry := range e.services {
		all = append(all, entry.stats)
	}

	stats := &Stats{
		SystemCount: len(all),
		Frames:      e.frames,
		Systems:     make([]SystemStats, len(all)),
	}

	var totalExecs int64
	for i, internal := range all {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			Render:         internal.render,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}

func newStats(name string, render bool) *systemStatsInternal {
	return &systemStatsInternal{
		name:        name,
		render:      render,
		minDuration: time.Duration(1<<63 - 1),
	}
}

func systemName(system any) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}
