package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Cache.Backend != CacheSQLite {
		t.Errorf("expected default cache backend %q, got %q", CacheSQLite, cfg.Cache.Backend)
	}
	if cfg.Cache.Expiry != 24*time.Hour {
		t.Errorf("expected default expiry 24h, got %s", cfg.Cache.Expiry)
	}
	if cfg.MenuConfig != "menu-config.json" {
		t.Errorf("expected default menu_config %q, got %q", "menu-config.json", cfg.MenuConfig)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Layout.Breakpoint != 768 {
		t.Errorf("expected default breakpoint 768, got %d", cfg.Layout.Breakpoint)
	}
	if cfg.MaxConcurrency != 5 {
		t.Errorf("expected default max_concurrency 5, got %d", cfg.MaxConcurrency)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docview.yml")

	original := DefaultConfig()
	original.Source = "https://example.com/tutorial"
	original.Cache.Backend = CacheMemory
	original.Cache.Expiry = 2 * time.Hour
	original.Render.ScrollDelay = 150 * time.Millisecond
	original.Exclude = []string{"**/wip/**"}
	original.Watch = false

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Source != original.Source {
		t.Errorf("source: got %q, want %q", loaded.Source, original.Source)
	}
	if loaded.Cache.Backend != original.Cache.Backend {
		t.Errorf("cache.backend: got %q, want %q", loaded.Cache.Backend, original.Cache.Backend)
	}
	if loaded.Cache.Expiry != original.Cache.Expiry {
		t.Errorf("cache.expiry: got %s, want %s", loaded.Cache.Expiry, original.Cache.Expiry)
	}
	if loaded.Render.ScrollDelay != original.Render.ScrollDelay {
		t.Errorf("render.scroll_delay: got %s, want %s", loaded.Render.ScrollDelay, original.Render.ScrollDelay)
	}
	if loaded.Watch {
		t.Error("watch: got true, want false")
	}
	if len(loaded.Exclude) != 1 || loaded.Exclude[0] != "**/wip/**" {
		t.Errorf("exclude: got %v, want [**/wip/**]", loaded.Exclude)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Cache.Backend != CacheSQLite {
		t.Errorf("expected default backend, got %q", cfg.Cache.Backend)
	}
	if len(cfg.Exclude) != len(DefaultExcludes) {
		t.Errorf("expected default excludes, got %v", cfg.Exclude)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("DOCVIEW_SERVER_PORT", "9090")
	t.Setenv("DOCVIEW_LOG_LEVEL", "debug")
	t.Setenv("DOCVIEW_CACHE_BACKEND", "memory")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("env override failed: got port %d, want 9090", loaded.Server.Port)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("env override failed: got log_level %q, want debug", loaded.LogLevel)
	}
	if loaded.Cache.Backend != CacheMemory {
		t.Errorf("env override failed: got backend %q, want memory", loaded.Cache.Backend)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"DOCVIEW_SERVER_PORT", "server.port"},
		{"DOCVIEW_SERVER_ALLOW_ALL", "server.allow_all"},
		{"DOCVIEW_RENDER_MAX_INLINE_FORMULA", "render.max_inline_formula"},
		{"DOCVIEW_MAX_CONCURRENCY", "max_concurrency"},
		{"DOCVIEW_SOURCE", "source"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty source", func(c *Config) { c.Source = "" }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }},
		{"sqlite without path", func(c *Config) { c.Cache.Path = "" }},
		{"zero expiry", func(c *Config) { c.Cache.Expiry = 0 }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }},
		{"negative formula cap", func(c *Config) { c.Render.MaxInlineFormula = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}

	cfg.Cache.Backend = CacheMemory
	cfg.Cache.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("memory backend needs no path, got: %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	level, err := cfg.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel failed: %v", err)
	}
	if level != slog.LevelWarn {
		t.Errorf("got %s, want WARN", level)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.md", []string{"**/*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
