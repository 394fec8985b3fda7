package nav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ziadkadry99/docview/internal/content"
	"github.com/ziadkadry99/docview/internal/menu"
	"github.com/ziadkadry99/docview/internal/view"
)

// SameFileScrollDelay is the delay before scrolling to a heading of the
// file already on screen.
const SameFileScrollDelay = 100 * time.Millisecond

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownEntry   = errors.New("unknown menu entry")
)

// Controller drives the navigation state machine of one reader. Each
// navigation is split in two: a transition that updates state, renders the
// menus and issues a load token, and a Load that renders the content. Only
// the Load of the most recent transition writes to the surface, so callers
// that run transitions in event order get last-request-wins even when loads
// overlap.
type Controller struct {
	mu       sync.Mutex
	out      sync.Mutex
	state    *State
	tree     *menu.Tree
	builder  *menu.Builder
	pipeline *content.Pipeline
	surface  view.Surface
	logger   *slog.Logger
	margin   int

	seq atomic.Uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithScrollMargin sets the gap kept below the header when scrolling to a
// heading of the current file.
func WithScrollMargin(px int) Option {
	return func(c *Controller) { c.margin = px }
}

// NewController returns an idle controller over tree.
func NewController(tree *menu.Tree, builder *menu.Builder, pipeline *content.Pipeline, surface view.Surface, opts ...Option) *Controller {
	c := &Controller{
		state:    NewState(),
		tree:     tree,
		builder:  builder,
		pipeline: pipeline,
		surface:  surface,
		logger:   slog.Default(),
		margin:   content.DefaultScrollMargin,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the navigation state.
func (c *Controller) State() *State { return c.state }

// Tree returns the menu tree the controller navigates.
func (c *Controller) Tree() *menu.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

// Load renders the content chosen by a transition. A nil Load does
// nothing.
type Load struct {
	c         *Controller
	token     uint64
	path      string
	headings  []content.Heading
	headingID string
}

// Run renders the file unless a newer transition has superseded it.
func (l *Load) Run(ctx context.Context) {
	if l == nil {
		return
	}
	l.c.load(ctx, l)
}

// SelectSection activates section key, expands its first file and loads
// it.
func (c *Controller) SelectSection(ctx context.Context, key string) error {
	l, err := c.BeginSection(ctx, key)
	l.Run(ctx)
	return err
}

// BeginSection is the transition of SelectSection.
func (c *Controller) BeginSection(ctx context.Context, key string) (*Load, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.tree.Section(key)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, key)
	}
	c.state.SetSection(key)
	c.surface.SetHTML(view.MainMenu, menu.RenderMainMenu(c.tree, key))

	first := s.First()
	if first == nil {
		c.surface.SetHTML(view.SubMenu, "")
		return nil, nil
	}
	c.state.Focus(first.ID)
	headings := c.resolve(ctx, first)
	c.state.SetFile(first.ID, first.FilePath, headings)
	c.renderSubMenu()
	return c.request(first.FilePath, headings, ""), nil
}

// SelectFile toggles the expansion of entry id, resolving its headings the
// first time it expands, and loads the file from the top.
func (c *Controller) SelectFile(ctx context.Context, id string) error {
	l, err := c.BeginFile(ctx, id)
	l.Run(ctx)
	return err
}

// BeginFile is the transition of SelectFile.
func (c *Controller) BeginFile(ctx context.Context, id string) (*Load, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, e := c.tree.Entry(id)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	c.enterSection(s)

	headings := e.Headings
	if c.state.Toggle(id) {
		headings = c.resolve(ctx, e)
	}
	c.state.SetFile(id, e.FilePath, headings)
	c.renderSubMenu()
	return c.request(e.FilePath, headings, ""), nil
}

// SelectHeading collapses every entry but fileID and shows headingID. If
// the file is already on screen it only scrolls; otherwise the file is
// loaded and scrolled once rendered.
func (c *Controller) SelectHeading(ctx context.Context, fileID, headingID string) error {
	l, err := c.BeginHeading(ctx, fileID, headingID)
	l.Run(ctx)
	return err
}

// BeginHeading is the transition of SelectHeading.
func (c *Controller) BeginHeading(ctx context.Context, fileID, headingID string) (*Load, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, e := c.tree.Entry(fileID)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntry, fileID)
	}
	c.enterSection(s)
	c.state.Focus(fileID)

	if c.state.Snapshot().FilePath == e.FilePath {
		c.state.SetActiveHeading(headingID)
		c.renderSubMenu()
		c.out.Lock()
		c.surface.Scroll(view.Scroll{ID: headingID, Margin: c.margin, Delay: SameFileScrollDelay})
		c.out.Unlock()
		return nil, nil
	}

	headings := c.resolve(ctx, e)
	c.state.SetFile(fileID, e.FilePath, headings)
	c.state.SetActiveHeading(headingID)
	c.renderSubMenu()
	return c.request(e.FilePath, headings, headingID), nil
}

// Reload handles a change of the file at path: its headings are parsed
// again and, if it is the current file, it is rendered again.
func (c *Controller) Reload(ctx context.Context, path string) {
	c.BeginReload(ctx, path).Run(ctx)
}

// BeginReload is the transition of Reload.
func (c *Controller) BeginReload(ctx context.Context, path string) *Load {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tree.Invalidate(path)
	snap := c.state.Snapshot()
	if snap.FilePath != path {
		return nil
	}

	_, e := c.tree.EntryByPath(path)
	headings := snap.Headings
	if e != nil && snap.Expansion.IsExpanded(e.ID) {
		headings = c.resolve(ctx, e)
		c.state.SetHeadings(headings)
		c.renderSubMenu()
	}
	return c.request(path, headings, snap.ActiveHeading)
}

// enterSection switches to s when an event targets an entry outside the
// current section.
func (c *Controller) enterSection(s *menu.Section) {
	if c.state.Snapshot().Section == s.Key {
		return
	}
	c.state.SetSection(s.Key)
	c.surface.SetHTML(view.MainMenu, menu.RenderMainMenu(c.tree, s.Key))
}

func (c *Controller) resolve(ctx context.Context, e *menu.Entry) []content.Heading {
	if e.Resolved {
		return e.Headings
	}
	c.surface.ShowProgress("Loading menu structure...", 10)
	defer c.surface.HideProgress()
	return c.builder.Resolve(ctx, c.tree, e)
}

func (c *Controller) renderSubMenu() {
	snap := c.state.Snapshot()
	c.surface.SetHTML(view.SubMenu, menu.RenderSubMenu(c.tree.Section(snap.Section), menu.SubMenuState{
		Expansion:     snap.Expansion,
		ActiveEntry:   snap.FileID,
		ActiveHeading: snap.ActiveHeading,
	}))
}

// request issues the next load token. It must be called with c.mu held so
// tokens follow transition order.
func (c *Controller) request(path string, headings []content.Heading, headingID string) *Load {
	c.state.SetPhase(FileLoading)
	return &Load{
		c:         c,
		token:     c.seq.Add(1),
		path:      path,
		headings:  headings,
		headingID: headingID,
	}
}

func (c *Controller) load(ctx context.Context, l *Load) {
	s := guarded{inner: c.surface, token: l.token, current: &c.seq, mu: &c.out}
	c.pipeline.Load(ctx, s, l.path, l.headings, l.headingID)

	if s.live() {
		c.state.SetPhase(FileLoaded)
		return
	}
	c.logger.Debug("dropped superseded load", "path", l.path, "token", l.token)
}
