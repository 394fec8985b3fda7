// Package app wires one reader session: it loads the menu configuration,
// builds the menu, and dispatches page events to the navigation
// controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/docview/internal/cache"
	"github.com/ziadkadry99/docview/internal/content"
	"github.com/ziadkadry99/docview/internal/fetch"
	"github.com/ziadkadry99/docview/internal/menu"
	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/view"
)

// ErrNotStarted is returned by Handle before Start has run.
var ErrNotStarted = errors.New("app not started")

const emptyHTML = `<h1>No content</h1>
<p>The menu configuration lists no sections.</p>`

// App is the controller of a single reader.
type App struct {
	fetcher    fetch.Fetcher
	store      *cache.Store
	pipeline   *content.Pipeline
	surface    view.Surface
	logger     *slog.Logger
	document   string
	contentDir string
	margin     int

	mu     sync.Mutex
	layout view.Layout
	ctrl   *nav.Controller
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the app logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithDocument sets the path of the menu configuration document.
func WithDocument(path string) Option {
	return func(a *App) { a.document = path }
}

// WithContentDir sets the content root.
func WithContentDir(dir string) Option {
	return func(a *App) { a.contentDir = dir }
}

// WithBreakpoint sets the viewport width at or below which panels become
// overlays.
func WithBreakpoint(px int) Option {
	return func(a *App) { a.layout = view.NewLayout(px) }
}

// WithScrollMargin sets the gap kept below the header for heading scrolls.
func WithScrollMargin(px int) Option {
	return func(a *App) { a.margin = px }
}

// New returns an App. f reads the menu configuration; pipeline renders
// content into surface.
func New(f fetch.Fetcher, store *cache.Store, pipeline *content.Pipeline, surface view.Surface, opts ...Option) *App {
	a := &App{
		fetcher:    f,
		store:      store,
		pipeline:   pipeline,
		surface:    surface,
		logger:     slog.Default(),
		document:   menu.DefaultDocument,
		contentDir: menu.DefaultContentDir,
		margin:     content.DefaultScrollMargin,
		layout:     view.NewLayout(view.DefaultBreakpoint),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Start loads the configuration, renders the main menu and selects the
// first section. A missing or broken configuration leaves an empty menu.
func (a *App) Start(ctx context.Context) error {
	doc := menu.LoadDocument(ctx, a.fetcher, a.document, a.logger)
	builder := menu.NewBuilder(doc, a.store, a.pipeline,
		menu.WithContentDir(a.contentDir),
		menu.WithLogger(a.logger),
	)
	tree := builder.GenerateMenuData(ctx)
	ctrl := nav.NewController(tree, builder, a.pipeline, a.surface,
		nav.WithLogger(a.logger),
		nav.WithScrollMargin(a.margin),
	)

	a.mu.Lock()
	a.ctrl = ctrl
	layout := a.layout
	a.mu.Unlock()

	a.surface.SetHTML(view.MainMenu, menu.RenderMainMenu(tree, ""))
	a.surface.ApplyLayout(layout)

	first := tree.First()
	if first == nil {
		a.logger.Info("no sections configured", "document", a.document)
		a.surface.SetHTML(view.SubMenu, "")
		a.surface.SetHTML(view.ContentArea, emptyHTML)
		return nil
	}
	return ctrl.SelectSection(ctx, first.Key)
}

// Controller returns the navigation controller, or nil before Start.
func (a *App) Controller() *nav.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl
}

// Layout returns the current responsive layout.
func (a *App) Layout() view.Layout {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.layout
}

// Handle dispatches one page event and renders the content it selects.
func (a *App) Handle(ctx context.Context, ev Event) error {
	l, err := a.Apply(ctx, ev)
	l.Run(ctx)
	return err
}

// Apply performs the state change of ev and returns the content load it
// issued, if any. Callers that apply events in arrival order may run the
// returned loads concurrently; a load superseded by a later event renders
// nothing.
func (a *App) Apply(ctx context.Context, ev Event) (*nav.Load, error) {
	ctrl := a.Controller()
	if ctrl == nil {
		return nil, ErrNotStarted
	}

	if ev.selection() {
		a.updateLayout(view.Layout.AfterSelection)
	}

	switch ev.Type {
	case EventSelectSection:
		return ctrl.BeginSection(ctx, ev.Section)
	case EventSelectFile:
		return ctrl.BeginFile(ctx, ev.File)
	case EventSelectHeading:
		return ctrl.BeginHeading(ctx, ev.File, ev.Heading)
	case EventReload:
		return ctrl.BeginReload(ctx, ev.Path), nil
	case EventToggleMenu:
		a.updateLayout(view.Layout.ToggleMenu)
	case EventToggleSubmenu:
		a.updateLayout(view.Layout.ToggleSubmenu)
	case EventDismissOverlay:
		a.updateLayout(view.Layout.DismissOverlay)
	case EventResize:
		a.updateLayout(func(l view.Layout) view.Layout { return l.Resize(ev.Width) })
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil, nil
}

func (a *App) updateLayout(fn func(view.Layout) view.Layout) {
	a.mu.Lock()
	before := a.layout
	a.layout = fn(a.layout)
	after := a.layout
	a.mu.Unlock()

	if after != before {
		a.surface.ApplyLayout(after)
	}
}
