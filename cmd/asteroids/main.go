// Command asteroids drifts randomly generated voxel asteroids around a
// wrapping world and bounces them off each other. It runs in a window or,
// with -backend=term, inside the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"

	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/engine"
	"github.com/plus3/entstore/render"
	"github.com/rs/zerolog"
)

type options struct {
	spawnInterval float64
	maxAsteroids  int
	lifetime      float64
	seed          uint64
	logFile       string
}

func main() {
	fallback := zerolog.New(os.Stderr)
	cfg, err := engine.LoadConfig()
	if err != nil {
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	var opts options
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "Rendering backend: ebiten or term.")
	flag.Float64Var(&cfg.TickRate, "tick-rate", cfg.TickRate, "Frames per second.")
	flag.BoolVar(&cfg.DebugUI, "debug", cfg.DebugUI, "Show the ImGui store inspector (ebiten backend only).")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level.")
	flag.Float64Var(&opts.spawnInterval, "spawn-interval", 0.5, "Seconds between new asteroids.")
	flag.IntVar(&opts.maxAsteroids, "max", 40, "Maximum number of live asteroids. Zero means no limit.")
	flag.Float64Var(&opts.lifetime, "lifetime", 20, "Seconds an asteroid lives. Zero means forever.")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed. Zero picks one.")
	flag.StringVar(&opts.logFile, "log", "", "Write logs to this file instead of stderr.")
	flag.Parse()

	logOut, closeLog, err := openLog(opts.logFile, cfg.Backend)
	if err != nil {
		fallback.Fatal().Err(err).Msg("failed to open log file")
	}
	defer closeLog()

	log := cfg.Logger(logOut)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if opts.seed == 0 {
		opts.seed = rand.Uint64()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Error().Err(err).Msg("asteroids stopped")
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg engine.Config, opts options, log zerolog.Logger) error {
	store := ecs.NewStore(cfg.StoreOptions(log)...)
	queue := render.NewDrawQueue()
	eng, generator, err := newGame(store, queue, opts, log)
	if err != nil {
		return err
	}

	log.Info().
		Str("backend", cfg.Backend).
		Float64("tick_rate", cfg.TickRate).
		Bool("debug_ui", cfg.DebugUI).
		Uint64("seed", opts.seed).
		Msg("starting asteroids")

	switch cfg.Backend {
	case engine.BackendTerm:
		err = runTerminal(ctx, eng, cfg.Interval())
	default:
		err = runWindow(eng, queue, cfg.TickRate, cfg.DebugUI)
	}

	stats := eng.Stats()
	log.Info().
		Int64("frames", stats.Frames).
		Int("spawned", generator.Spawned()).
		Int("entities", store.EntityCount()).
		Msg("asteroids finished")
	return err
}

// newGame registers the asteroid systems on a fresh engine. Render services
// that present the queue are added by the backend.
func newGame(store *ecs.Store, queue *render.DrawQueue, opts options, log zerolog.Logger) (*engine.Engine[*render.DrawQueue], *AsteroidGenerator, error) {
	seed := opts.seed
	eng := engine.New(store, queue, engine.WithLogger(log))

	generator := &AsteroidGenerator{
		Interval:     float32(opts.spawnInterval),
		MaxAsteroids: opts.maxAsteroids,
		Lifetime:     float32(opts.lifetime),
		Rand:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	collisions := &CollisionSystem{}
	lifetimes := &LifetimeSystem{}

	for _, sys := range []ecs.System{generator, collisions, &PhysicsSystem{}, lifetimes} {
		if err := eng.AddSystem(sys); err != nil {
			return nil, nil, err
		}
	}

	asteroids := &AsteroidRenderService{
		Status: func() string {
			return fmt.Sprintf("collisions: %d  expired: %d", collisions.Total(), lifetimes.Expired())
		},
	}
	if err := eng.AddRenderService(asteroids); err != nil {
		return nil, nil, err
	}
	return eng, generator, nil
}

// openLog picks the log destination. The terminal backend owns the screen,
// so without a log file its logs are discarded.
func openLog(path, backend string) (io.Writer, func(), error) {
	if path == "" {
		if strings.EqualFold(backend, engine.BackendTerm) {
			return io.Discard, func() {}, nil
		}
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
