// Package config loads command settings from the environment and flags.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"mad-puzzle/internal/adjacency"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/layout/sqlite"
	"mad-puzzle/internal/session"
)

// Config holds the settings shared by the puzzle commands.
type Config struct {
	Preset        string `env:"PUZZLE_PRESET" envDefault:"elements"`
	Catalog       string `env:"PUZZLE_CATALOG"`
	Layout        string `env:"PUZZLE_LAYOUT"`
	Width         int    `env:"PUZZLE_WIDTH" envDefault:"8"`
	Height        int    `env:"PUZZLE_HEIGHT" envDefault:"8"`
	Adjacency     string `env:"PUZZLE_ADJACENCY" envDefault:"anywhere"`
	Cascade       string `env:"PUZZLE_CASCADE" envDefault:"stable"`
	MaxIterations int    `env:"PUZZLE_MAX_ITERATIONS" envDefault:"64"`
	Seed          int64  `env:"PUZZLE_SEED" envDefault:"42"`
	LogLevel      string `env:"PUZZLE_LOG_LEVEL" envDefault:"info"`
	LogDev        bool   `env:"PUZZLE_LOG_DEV"`
	Store         string `env:"PUZZLE_STORE"`
	Addr          string `env:"PUZZLE_ADDR" envDefault:":8080"`
	Scale         int    `env:"PUZZLE_SCALE" envDefault:"48"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the environment configuration with defaults applied.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bind attaches the configuration to the provided FlagSet. Values already
// loaded from the environment become the flag defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Preset, "preset", c.Preset, "puzzle preset to start from")
	fs.StringVar(&c.Catalog, "catalog", c.Catalog, "catalog file (yaml or json) overriding the preset rules")
	fs.StringVar(&c.Layout, "layout", c.Layout, "stored layout to load on start")
	fs.IntVar(&c.Width, "w", c.Width, "board width")
	fs.IntVar(&c.Height, "h", c.Height, "board height")
	fs.StringVar(&c.Adjacency, "adjacency", c.Adjacency, "pair policy: anywhere, orthogonal, orthogonal+diagonal")
	fs.StringVar(&c.Cascade, "cascade", c.Cascade, "cascade after a pair: pair, neighbors, stable, matching")
	fs.IntVar(&c.MaxIterations, "max-iterations", c.MaxIterations, "step cap for the stable cascade")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for preset layouts")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.BoolVar(&c.LogDev, "log-dev", c.LogDev, "human readable logs")
	fs.StringVar(&c.Store, "store", c.Store, "layout store: a directory, or a .db/.sqlite file")
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell in the viewer")
}

// Session converts the configuration into session settings.
func (c *Config) Session() (session.Config, error) {
	adj, err := adjacency.ParseMode(c.Adjacency)
	if err != nil {
		return session.Config{}, fmt.Errorf("adjacency: %w", err)
	}
	cascade, err := session.ParseCascadeMode(c.Cascade)
	if err != nil {
		return session.Config{}, fmt.Errorf("cascade: %w", err)
	}
	return session.Config{
		Width:         c.Width,
		Height:        c.Height,
		Adjacency:     adj,
		Cascade:       cascade,
		MaxIterations: c.MaxIterations,
	}, nil
}

// OpenStore opens the configured layout store. It returns nil when no store
// is configured.
func (c *Config) OpenStore() (layout.Store, error) {
	path := strings.TrimSpace(c.Store)
	if path == "" {
		return nil, nil
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") {
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := layout.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
