package config

import "time"

// CacheBackend selects where fetched content and the menu tree are cached.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
)

// Config is the top-level docview configuration, corresponding to .docview.yml.
type Config struct {
	Source         string       `yaml:"source" koanf:"source"`
	MenuConfig     string       `yaml:"menu_config" koanf:"menu_config"`
	ContentDir     string       `yaml:"content_dir" koanf:"content_dir"`
	Include        []string     `yaml:"include" koanf:"include"`
	Exclude        []string     `yaml:"exclude" koanf:"exclude"`
	Cache          CacheConfig  `yaml:"cache" koanf:"cache"`
	Server         ServerConfig `yaml:"server" koanf:"server"`
	Render         RenderConfig `yaml:"render" koanf:"render"`
	Layout         LayoutConfig `yaml:"layout" koanf:"layout"`
	MaxConcurrency int          `yaml:"max_concurrency" koanf:"max_concurrency"`
	Watch          bool         `yaml:"watch" koanf:"watch"`
	LogLevel       string       `yaml:"log_level" koanf:"log_level"`
}

// CacheConfig holds cache settings. Path is only used by the sqlite backend.
type CacheConfig struct {
	Backend CacheBackend  `yaml:"backend" koanf:"backend"`
	Path    string        `yaml:"path" koanf:"path"`
	Expiry  time.Duration `yaml:"expiry" koanf:"expiry"`
}

// ServerConfig holds settings for docview serve.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	Open     bool `yaml:"open" koanf:"open"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

// RenderConfig holds content rendering settings.
type RenderConfig struct {
	HighlightStyle   string        `yaml:"highlight_style" koanf:"highlight_style"`
	MaxInlineFormula int           `yaml:"max_inline_formula" koanf:"max_inline_formula"`
	ScrollMargin     int           `yaml:"scroll_margin" koanf:"scroll_margin"`
	ScrollDelay      time.Duration `yaml:"scroll_delay" koanf:"scroll_delay"`
}

// LayoutConfig holds responsive layout settings.
type LayoutConfig struct {
	Breakpoint int `yaml:"breakpoint" koanf:"breakpoint"`
}
