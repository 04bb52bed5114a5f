package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load returns a Config using the hierarchy defaults < YAML < ENV, reading
// the YAML file from path. The file is optional; a missing file is not an
// error.
func Load(yamlPath string) (*Config, error) {
	return LoadFrom(yamlPath)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg. Returns nil if
// the file does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays environment variables onto cfg. Only non-empty env
// values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Transport, "RUFFLS_TRANSPORT")
	setInt(&cfg.Server.Port, "RUFFLS_PORT")
	setString(&cfg.Server.PipeName, "RUFFLS_PIPE_NAME")

	setString(&cfg.Logging.Level, "RUFFLS_LOG_LEVEL")
	setString(&cfg.Logging.Service, "RUFFLS_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "RUFFLS_LOG_ASYNC")

	setString(&cfg.Lint.Binary, "RUFFLS_LINT_BINARY")
	setString(&cfg.Lint.Args, "RUFFLS_LINT_ARGS")
	setInt64(&cfg.Lint.CacheMaxEntries, "RUFFLS_LINT_CACHE_MAX_ENTRIES")
	setInt(&cfg.Lint.BreakerMaxFails, "RUFFLS_LINT_BREAKER_MAX_FAILURES")

	setBool(&cfg.OTEL.Enabled, "RUFFLS_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "RUFFLS_OTEL_ENDPOINT")
	setString(&cfg.OTEL.ServiceName, "RUFFLS_OTEL_SERVICE_NAME")
	setBool(&cfg.OTEL.Insecure, "RUFFLS_OTEL_INSECURE")
	setFloat64(&cfg.OTEL.SampleRate, "RUFFLS_OTEL_SAMPLE_RATE")
}

// validate checks that required fields are set and internally consistent.
func validate(cfg *Config) error {
	switch cfg.Server.Transport {
	case "stdio", "socket", "pipe":
	default:
		return fmt.Errorf("server.transport must be one of stdio, socket, pipe, got %q", cfg.Server.Transport)
	}
	if cfg.Server.Transport == "socket" && cfg.Server.Port <= 0 {
		return errors.New("server.port is required when transport is socket")
	}
	if cfg.Server.Transport == "pipe" && cfg.Server.PipeName == "" {
		return errors.New("server.pipe_name is required when transport is pipe")
	}
	if cfg.Lint.Binary == "" {
		return errors.New("lint.binary is required")
	}
	if cfg.Lint.CacheMaxEntries < 1 {
		return errors.New("lint.cache_max_entries must be >= 1")
	}
	if cfg.Lint.BreakerMaxFails < 1 {
		return errors.New("lint.breaker_max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
