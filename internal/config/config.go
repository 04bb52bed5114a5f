// Package config provides hierarchical configuration loading for ruffls.
// Precedence: defaults < YAML file < environment variables < CLI flags.
package config

import (
	"fmt"
	"sync"
)

// Config holds all runtime configuration for the daemon.
type Config struct {
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Lint    Lint    `yaml:"lint"`
	OTEL    OTEL    `yaml:"otel"`
}

// Server holds transport-binding configuration.
type Server struct {
	Transport string `yaml:"transport"` // "stdio" | "socket" | "pipe"
	Port      int    `yaml:"port"`      // used when transport == "socket"
	PipeName  string `yaml:"pipe_name"` // used when transport == "pipe"
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Lint holds lint-engine invocation and caching configuration.
type Lint struct {
	Binary          string `yaml:"binary"` // e.g. "ruff"
	Args            string `yaml:"args"`   // space-separated extra args
	CacheMaxEntries int64  `yaml:"cache_max_entries"`
	BreakerMaxFails int    `yaml:"breaker_max_failures"`
}

// OTEL holds OpenTelemetry configuration.
type OTEL struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	Insecure    bool    `yaml:"insecure"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// Defaults returns a Config with sensible defaults for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Transport: "stdio",
			Port:      0,
			PipeName:  "",
		},
		Logging: Logging{
			Level:   "info",
			Service: "ruffls",
			Async:   true,
		},
		Lint: Lint{
			Binary:          "ruff",
			Args:            "check --output-format json",
			CacheMaxEntries: 4096,
			BreakerMaxFails: 5,
		},
		OTEL: OTEL{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "ruffls",
			Insecure:    true,
			SampleRate:  1.0,
		},
	}
}

// Holder provides thread-safe access to a Config with hot-reload support.
// Get returns a copy, so a Config obtained from Get is stale after a Reload;
// callers must re-fetch for each use rather than caching the copy.
type Holder struct {
	mu       sync.RWMutex
	cfg      Config
	yamlPath string
}

// NewHolder creates a Holder from an initial Config and the YAML path used
// for reloading.
func NewHolder(cfg *Config, yamlPath string) *Holder {
	return &Holder{cfg: *cfg, yamlPath: yamlPath}
}

// Get returns a copy of the current Config.
func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Reload re-reads the YAML file and environment variables, validates, and
// swaps the config in-place. If validation fails, the old config is kept.
func (h *Holder) Reload() error {
	newCfg, err := LoadFrom(h.yamlPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	h.mu.Lock()
	h.cfg = *newCfg
	h.mu.Unlock()
	return nil
}
