// Package site serves the viewer to a browser: the shell page, one
// websocket session per reader and a small JSON/HTML API.
package site

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/docview/internal/app"
	"github.com/ziadkadry99/docview/internal/cache"
	"github.com/ziadkadry99/docview/internal/content"
	"github.com/ziadkadry99/docview/internal/fetch"
	"github.com/ziadkadry99/docview/internal/menu"
	"github.com/ziadkadry99/docview/internal/view"
)

// DefaultTitle is the page title when none is configured.
const DefaultTitle = "Documentation"

// Site holds what every session shares: the content source, the cache and
// the rendering pipeline.
type Site struct {
	source     fetch.Fetcher
	cached     *fetch.Cached
	store      *cache.Store
	pipeline   *content.Pipeline
	files      fs.FS
	logger     *slog.Logger
	title      string
	document   string
	contentDir string
	breakpoint int
	margin     int

	hub *hub

	mu      sync.Mutex
	builder *menu.Builder
}

// Option configures a Site.
type Option func(*Site)

// WithLogger sets the site logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) { s.logger = l }
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Site) { s.title = title }
}

// WithDocument sets the path of the menu configuration document.
func WithDocument(path string) Option {
	return func(s *Site) { s.document = path }
}

// WithContentDir sets the content root.
func WithContentDir(dir string) Option {
	return func(s *Site) { s.contentDir = dir }
}

// WithBreakpoint sets the responsive breakpoint passed to every session.
func WithBreakpoint(px int) Option {
	return func(s *Site) { s.breakpoint = px }
}

// WithScrollMargin sets the heading scroll margin passed to every session.
func WithScrollMargin(px int) Option {
	return func(s *Site) { s.margin = px }
}

// WithFiles serves fsys under the content root and the configuration
// document path. It is used when the source is a local directory.
func WithFiles(fsys fs.FS) Option {
	return func(s *Site) { s.files = fsys }
}

// New returns a Site. source reads the configuration document; cached
// and pipeline serve content.
func New(source fetch.Fetcher, cached *fetch.Cached, store *cache.Store, pipeline *content.Pipeline, opts ...Option) *Site {
	s := &Site{
		source:     source,
		cached:     cached,
		store:      store,
		pipeline:   pipeline,
		logger:     slog.Default(),
		title:      DefaultTitle,
		document:   menu.DefaultDocument,
		contentDir: menu.DefaultContentDir,
		breakpoint: view.DefaultBreakpoint,
		margin:     content.DefaultScrollMargin,
		hub:        newHub(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RegisterRoutes mounts the site on r. timeout wraps every route except
// the websocket.
func (s *Site) RegisterRoutes(r chi.Router, timeout func(http.Handler) http.Handler) {
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		if timeout != nil {
			r.Use(timeout)
		}
		r.Get("/", s.handleIndex)
		r.Get("/static/style.css", serveAsset("text/css; charset=utf-8", cssContent))
		r.Get("/static/app.js", serveAsset("application/javascript; charset=utf-8", jsContent))

		r.Get("/api/menu", s.handleMenu)
		r.Get("/api/render", s.handleRender)
		r.Get("/api/search", s.handleSearch)

		if s.files != nil {
			files := http.FileServer(http.FS(s.files))
			r.Get("/"+s.document, files.ServeHTTP)
			r.Get("/"+s.contentDir+"/*", files.ServeHTTP)
		}
	})
}

// Sessions returns the number of connected readers.
func (s *Site) Sessions() int { return s.hub.len() }

// menuBuilder returns the builder for the current configuration document,
// loading the document on first use.
func (s *Site) menuBuilder(ctx context.Context) *menu.Builder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.builder == nil {
		doc := menu.LoadDocument(ctx, s.source, s.document, s.logger)
		s.builder = menu.NewBuilder(doc, s.store, s.pipeline,
			menu.WithContentDir(s.contentDir),
			menu.WithLogger(s.logger),
		)
	}
	return s.builder
}

// newApp returns the controller of one session.
func (s *Site) newApp(surface view.Surface, logger *slog.Logger) *app.App {
	return app.New(s.source, s.store, s.pipeline, surface,
		app.WithLogger(logger),
		app.WithDocument(s.document),
		app.WithContentDir(s.contentDir),
		app.WithBreakpoint(s.breakpoint),
		app.WithScrollMargin(s.margin),
	)
}

// Changed reacts to an edit of the content file at path: its cached text is
// dropped, its cached menu entry is marked unresolved and every session is
// asked to reload it.
func (s *Site) Changed(ctx context.Context, path string) {
	s.cached.Forget(path)
	s.menuBuilder(ctx).Invalidate(path)
	s.logger.Info("content changed", "path", path, "sessions", s.hub.len())
	s.hub.broadcast(app.Event{Type: app.EventReload, Path: path})
}

// DocumentChanged drops the cached menu tree so the next session and the
// next API call rebuild it from the new configuration document.
func (s *Site) DocumentChanged() {
	s.mu.Lock()
	s.builder = nil
	s.mu.Unlock()
	s.store.Clear(cache.MenuKey)
	s.logger.Info("menu configuration changed", "document", s.document)
}
