package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/ziadkadry99/docview/internal/cache"
	"github.com/ziadkadry99/docview/internal/config"
	"github.com/ziadkadry99/docview/internal/content"
	"github.com/ziadkadry99/docview/internal/db"
	"github.com/ziadkadry99/docview/internal/fetch"
	"github.com/ziadkadry99/docview/internal/menu"
	"github.com/ziadkadry99/docview/internal/walker"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docview init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger returns a text logger on stderr at the configured level, or at
// debug level with --verbose.
func newLogger(cfg *config.Config) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil || verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// viewer is the content stack shared by the commands: the source, the
// cache and the rendering pipeline.
type viewer struct {
	cfg      *config.Config
	logger   *slog.Logger
	source   fetch.Fetcher
	files    fs.FS // nil when the source is a URL
	store    *cache.Store
	cached   *fetch.Cached
	pipeline *content.Pipeline
	database *db.DB
}

// openViewer builds the content stack from the config.
func openViewer() (*viewer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	v := &viewer{cfg: cfg, logger: logger}

	if fetch.IsURL(cfg.Source) {
		f, err := fetch.NewHTTP(cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("creating fetcher: %w", err)
		}
		v.source = fetch.NewLoggingFetcher(f, logger)
	} else {
		if info, err := os.Stat(cfg.Source); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("source %s is not a directory", cfg.Source)
		}
		v.files = os.DirFS(cfg.Source)
		v.source = fetch.NewLoggingFetcher(fetch.NewDir(v.files), logger)
	}

	var backend cache.Backend
	switch cfg.Cache.Backend {
	case config.CacheSQLite:
		database, err := db.Open(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		v.database = database
		backend = cache.NewSQLite(database)
	default:
		backend = cache.NewMemory()
	}
	v.store = cache.New(backend,
		cache.WithExpiry(cfg.Cache.Expiry),
		cache.WithLogger(logger),
	)
	v.cached = fetch.NewCached(v.source, v.store)
	v.pipeline = content.NewPipeline(v.cached,
		content.WithLogger(logger),
		content.WithHighlightStyle(cfg.Render.HighlightStyle),
		content.WithMaxInlineFormula(cfg.Render.MaxInlineFormula),
		content.WithScroll(cfg.Render.ScrollMargin, cfg.Render.ScrollDelay),
	)
	return v, nil
}

// Close releases the cache database.
func (v *viewer) Close() error {
	if v.database != nil {
		return v.database.Close()
	}
	return nil
}

// builder loads the menu configuration and returns a builder over it.
func (v *viewer) builder(ctx context.Context) *menu.Builder {
	doc := menu.LoadDocument(ctx, v.source, v.cfg.MenuConfig, v.logger)
	return menu.NewBuilder(doc, v.store, v.pipeline,
		menu.WithContentDir(v.cfg.ContentDir),
		menu.WithLogger(v.logger),
	)
}

// contentFiles lists the Markdown files of a local source as paths relative
// to the source root.
func (v *viewer) contentFiles() ([]string, error) {
	if v.files == nil {
		return nil, fmt.Errorf("source %s is not a local directory", v.cfg.Source)
	}
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: filepath.Join(v.cfg.Source, filepath.FromSlash(v.cfg.ContentDir)),
		Include: v.cfg.Include,
		Exclude: v.cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = path.Join(v.cfg.ContentDir, f.RelPath)
	}
	return paths, nil
}
