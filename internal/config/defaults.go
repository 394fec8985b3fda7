package config

import "time"

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = ".docview.yml"

// DefaultExcludes are glob patterns, relative to the content directory,
// that never count as content.
var DefaultExcludes = []string{
	"**/drafts/**",
	"**/_*.md",
	"**/node_modules/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:     ".",
		MenuConfig: "menu-config.json",
		ContentDir: "content",
		Include:    []string{"**/*.md"},
		Exclude:    DefaultExcludes,
		Cache: CacheConfig{
			Backend: CacheSQLite,
			Path:    ".docview/cache.db",
			Expiry:  24 * time.Hour,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Render: RenderConfig{
			HighlightStyle:   "github",
			MaxInlineFormula: 4096,
			ScrollMargin:     20,
			ScrollDelay:      200 * time.Millisecond,
		},
		Layout: LayoutConfig{
			Breakpoint: 768,
		},
		MaxConcurrency: 5,
		Watch:          true,
		LogLevel:       "info",
	}
}
