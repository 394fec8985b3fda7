package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "DOCVIEW_"

// envSections are the nested config blocks an environment variable can
// address, e.g. DOCVIEW_SERVER_PORT -> server.port.
var envSections = []string{"cache", "server", "render", "layout"}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCVIEW_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults. Lists are decoded into empty slices so a
	// configured list replaces the default rather than overwriting it
	// element by element.
	cfg := DefaultConfig()
	cfg.Include, cfg.Exclude = nil, nil

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.Include == nil {
		cfg.Include = defaults.Include
	}
	if cfg.Exclude == nil {
		cfg.Exclude = defaults.Exclude
	}
	return cfg, nil
}

// envKey maps DOCVIEW_SERVER_PORT to server.port and DOCVIEW_LOG_LEVEL to
// log_level.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized cache backends.
var validBackends = map[CacheBackend]bool{
	CacheMemory: true,
	CacheSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}

	if !validBackends[c.Cache.Backend] {
		return fmt.Errorf("invalid cache.backend %q: must be one of memory, sqlite", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheSQLite && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required for the sqlite backend")
	}
	if c.Cache.Expiry <= 0 {
		return fmt.Errorf("cache.expiry must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.Render.MaxInlineFormula < 0 {
		return fmt.Errorf("render.max_inline_formula must be non-negative")
	}
	if c.Render.ScrollDelay < 0 {
		return fmt.Errorf("render.scroll_delay must be non-negative")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel. An empty level means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}
