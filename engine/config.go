package engine

import (
	"io"
	"os"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/plus3/entstore/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	BackendEbiten = "ebiten"
	BackendTerm   = "term"
)

// Config holds the settings shared by the commands. Every field can be set
// from the environment.
type Config struct {
	TickRate          float64 `config:"ENTSTORE_TICK_RATE"`
	LogLevel          string  `config:"ENTSTORE_LOG_LEVEL"`
	EntityCapacity    int     `config:"ENTSTORE_ENTITY_CAPACITY"`
	ComponentCapacity int     `config:"ENTSTORE_COMPONENT_CAPACITY"`
	Backend           string  `config:"ENTSTORE_BACKEND"`
	DebugUI           bool    `config:"ENTSTORE_DEBUG_UI"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		TickRate:          60,
		LogLevel:          zerolog.InfoLevel.String(),
		EntityCapacity:    100,
		ComponentCapacity: 10,
		Backend:           BackendEbiten,
	}
}

// LoadConfig applies matching environment variables on top of the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config from environment")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values that have no sensible fallback.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return eris.Errorf("tick rate must be positive, got %v", c.TickRate)
	}
	if c.Backend != BackendEbiten && c.Backend != BackendTerm {
		return eris.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "log level %q", c.LogLevel)
	}
	return nil
}

// Interval converts the tick rate into the duration between frames.
func (c Config) Interval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Duration(float64(time.Second) / c.TickRate)
}

// StoreOptions returns the store options the configuration implies.
func (c Config) StoreOptions(logger zerolog.Logger) []ecs.Option {
	return []ecs.Option{
		ecs.WithLogger(logger.With().Str("component", "store").Logger()),
		ecs.WithEntityCapacity(c.EntityCapacity),
		ecs.WithComponentCapacity(c.ComponentCapacity),
	}
}

// Logger builds a logger writing to w at the configured level. Terminals get
// zerolog's console format.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

