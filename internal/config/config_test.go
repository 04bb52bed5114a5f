package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Fatalf("defaults should validate, got: %v", err)
	}
}

func TestLoadFromMissingYAMLUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Transport != "stdio" {
		t.Fatalf("expected default transport, got %q", cfg.Server.Transport)
	}
}

func TestLoadFromYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruffls.yaml")
	content := "server:\n  transport: socket\n  port: 7777\nlint:\n  binary: ruff\n  cache_max_entries: 10\n  breaker_max_failures: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Transport != "socket" || cfg.Server.Port != 7777 {
		t.Fatalf("got server %+v", cfg.Server)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected untouched default logging level, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [this is not a mapping"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("RUFFLS_LOG_LEVEL", "debug")
	t.Setenv("RUFFLS_LINT_BINARY", "ruff-custom")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("got log level %q", cfg.Logging.Level)
	}
	if cfg.Lint.Binary != "ruff-custom" {
		t.Fatalf("got lint binary %q", cfg.Lint.Binary)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruffls.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("RUFFLS_LOG_LEVEL", "trace")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "trace" {
		t.Fatalf("expected env to win over yaml, got %q", cfg.Logging.Level)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad transport", func(c *Config) { c.Server.Transport = "carrier-pigeon" }, true},
		{"socket without port", func(c *Config) { c.Server.Transport = "socket"; c.Server.Port = 0 }, true},
		{"socket with port", func(c *Config) { c.Server.Transport = "socket"; c.Server.Port = 1 }, false},
		{"pipe without name", func(c *Config) { c.Server.Transport = "pipe" }, true},
		{"pipe with name", func(c *Config) { c.Server.Transport = "pipe"; c.Server.PipeName = "\\\\.\\pipe\\ruffls" }, false},
		{"empty lint binary", func(c *Config) { c.Lint.Binary = "" }, true},
		{"zero cache entries", func(c *Config) { c.Lint.CacheMaxEntries = 0 }, true},
		{"zero breaker failures", func(c *Config) { c.Lint.BreakerMaxFails = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := validate(&cfg)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
		})
	}
}

func TestHolderGetReturnsCopy(t *testing.T) {
	cfg := Defaults()
	h := NewHolder(&cfg, "")

	got := h.Get()
	got.Logging.Level = "mutated"

	if h.Get().Logging.Level == "mutated" {
		t.Fatal("Get should return an independent copy")
	}
}

func TestHolderReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruffls.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	h := NewHolder(cfg, path)

	if h.Get().Logging.Level != "info" {
		t.Fatalf("got %q", h.Get().Logging.Level)
	}

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if h.Get().Logging.Level != "debug" {
		t.Fatalf("expected reload to pick up change, got %q", h.Get().Logging.Level)
	}
}

func TestHolderReloadKeepsOldConfigOnValidationFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruffls.yaml")
	if err := os.WriteFile(path, []byte("lint:\n  binary: ruff\n  cache_max_entries: 10\n  breaker_max_failures: 3\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	h := NewHolder(cfg, path)

	if err := os.WriteFile(path, []byte("lint:\n  binary: \"\"\n"), 0o600); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}
	if err := h.Reload(); err == nil {
		t.Fatal("expected reload to fail validation")
	}
	if h.Get().Lint.Binary != "ruff" {
		t.Fatalf("expected old config retained after failed reload, got %q", h.Get().Lint.Binary)
	}
}
