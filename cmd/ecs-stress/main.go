// Command ecs-stress hammers a store with random structural changes and
// prints a markdown report of update times, operation and notification
// counts and memory use.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/engine"
	"github.com/rs/zerolog"
)

type runOptions struct {
	duration       time.Duration
	entities       int
	ops            int
	seed           uint64
	gcPauseMetrics bool
}

func main() {
	cfg, err := engine.LoadConfig()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	var opts runOptions
	flag.DurationVar(&opts.duration, "duration", 10*time.Second, "The total duration the test should run for.")
	flag.IntVar(&opts.entities, "entities", 10000, "The initial number of entities to create.")
	flag.IntVar(&opts.ops, "ops", 1000, "Random structural operations per frame.")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed. Zero picks one.")
	flag.BoolVar(&opts.gcPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level.")
	flag.Parse()

	log := cfg.Logger(os.Stderr)
	if opts.seed == 0 {
		opts.seed = rand.Uint64()
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	report, err := run(ctx, cfg, opts, log)
	if err != nil {
		log.Fatal().Err(err).Msg("stress test failed")
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	if !report.Consistent() {
		log.Error().
			Int64("attaches", report.Ops.Attaches).
			Int64("added_events", report.EventsAdded).
			Int64("removed_events", report.EventsRemoved).
			Msg("notification counts do not match the operations performed")
		os.Exit(1)
	}
	log.Info().Msg("stress test complete")
}

// run populates a store, drives the engine until ctx is done and collects
// the report.
func run(ctx context.Context, cfg engine.Config, opts runOptions, log zerolog.Logger) (*Report, error) {
	store := ecs.NewStore(cfg.StoreOptions(log)...)
	eng := engine.New(store, struct{}{}, engine.WithLogger(log))

	kinds := stressKinds()
	churn := &ChurnSystem{
		Rand:        rand.New(rand.NewPCG(opts.seed, opts.seed>>1|1)),
		Kinds:       kinds,
		OpsPerFrame: opts.ops,
		Target:      opts.entities,
	}
	mutate := &MutateSystem{Kinds: kinds}
	observer := &ObserverSystem{Kinds: kinds}

	// The observer subscribes first so it sees the initial population.
	if err := eng.AddSystem(observer); err != nil {
		return nil, err
	}
	if err := eng.AddSystem(churn); err != nil {
		return nil, err
	}
	if err := eng.AddSystem(mutate); err != nil {
		return nil, err
	}

	log.Info().Int("entities", opts.entities).Msg("populating store")
	if err := churn.Populate(store, opts.entities); err != nil {
		return nil, err
	}

	report := &Report{
		Duration:       opts.duration,
		Entities:       opts.entities,
		Components:     len(kinds),
		Systems:        eng.Stats().SystemCount,
		OpsPerFrame:    opts.ops,
		Seed:           opts.seed,
		GCPauseMetrics: opts.gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info().Dur("duration", opts.duration).Msg("running simulation")
	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := eng.Update(deltaTime.Seconds()); err != nil {
				return nil, err
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	observer.Drain()
	report.Ops = churn.Counts()
	report.Events = observer.Counts()
	report.EventsAdded, report.EventsRemoved = observer.Totals()
	report.Touched = mutate.Touched()
	report.Store = store.CollectStats()
	report.Engine = eng.Stats()

	log.Info().
		Int64("updates", report.TotalUpdates).
		Int("entities", report.Store.EntityCount).
		Msg("simulation finished")
	return report, nil
}
