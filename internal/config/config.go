// Package config loads gridsearch configuration from a YAML file and
// GRIDSEARCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/labstack/gommon/bytes"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/logging"
)

// Config holds the complete gridsearch configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Logging logging.Config `koanf:"logging"`
	Search  SearchConfig   `koanf:"search"`
	Viewer  ViewerConfig   `koanf:"viewer"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// MaxSessions caps concurrently open stepping sessions.
	MaxSessions int `koanf:"max_sessions"`
	// MaxCells caps the size of mazes the API will parse or generate.
	MaxCells int `koanf:"max_cells"`
	// BodyLimit caps request bodies, in echo's size notation ("1M").
	BodyLimit string `koanf:"body_limit"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// SearchConfig holds defaults for search runs.
type SearchConfig struct {
	Strategy      string `koanf:"strategy"`
	Workers       int    `koanf:"workers"`
	MaxExpansions int    `koanf:"max_expansions"`
}

// DefaultStrategy parses Strategy. Call after Validate.
func (s SearchConfig) DefaultStrategy() gridsearch.Strategy {
	strategy, _ := gridsearch.ParseStrategy(s.Strategy)
	return strategy
}

// Options returns the engine options these settings imply.
func (s SearchConfig) Options() []gridsearch.Option {
	return []gridsearch.Option{
		gridsearch.WithWorkers(s.Workers),
		gridsearch.WithMaxExpansions(s.MaxExpansions),
	}
}

// ViewerConfig holds terminal viewer settings.
type ViewerConfig struct {
	// StepDelay is the pause between drawn expansions.
	StepDelay Duration `koanf:"step_delay"`
}

const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8080
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxSessions     = 64
	DefaultMaxCells        = 1 << 20
	DefaultBodyLimit       = "2M"
	DefaultStrategy        = "astar"
	DefaultStepDelay       = 50 * time.Millisecond
)

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if cfg.Server.MaxSessions == 0 {
		cfg.Server.MaxSessions = DefaultMaxSessions
	}
	if cfg.Server.MaxCells == 0 {
		cfg.Server.MaxCells = DefaultMaxCells
	}
	if cfg.Server.BodyLimit == "" {
		cfg.Server.BodyLimit = DefaultBodyLimit
	}

	defaults := logging.NewDefaultConfig()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Format
	}
	if cfg.Logging.Fields == nil {
		cfg.Logging.Fields = defaults.Fields
	}

	if cfg.Search.Strategy == "" {
		cfg.Search.Strategy = DefaultStrategy
	}
	if cfg.Search.Workers == 0 {
		cfg.Search.Workers = runtime.NumCPU()
	}

	if cfg.Viewer.StepDelay == 0 {
		cfg.Viewer.StepDelay = Duration(DefaultStepDelay)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("max sessions must be positive, got %d", c.Server.MaxSessions)
	}
	if c.Server.MaxCells < 2 {
		return fmt.Errorf("max cells must be at least 2, got %d", c.Server.MaxCells)
	}
	if n, err := bytes.Parse(c.Server.BodyLimit); err != nil || n <= 0 {
		return fmt.Errorf("invalid body limit: %q", c.Server.BodyLimit)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if _, err := gridsearch.ParseStrategy(c.Search.Strategy); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search workers must be positive, got %d", c.Search.Workers)
	}
	if c.Search.MaxExpansions < 0 {
		return fmt.Errorf("search max expansions cannot be negative, got %d", c.Search.MaxExpansions)
	}
	return nil
}
