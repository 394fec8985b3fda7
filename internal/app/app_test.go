package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docview/internal/cache"
	"github.com/ziadkadry99/docview/internal/content"
	"github.com/ziadkadry99/docview/internal/fetch"
	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/view"
)

var site = fstest.MapFS{
	"menu-config.json": {Data: []byte(`{
  "menuConfig": {"llm": {"title": "LLM", "order": 2}, "basics": {"title": "Basics", "order": 1}},
  "fileTitleMap": {"intro": "Introduction", "setup": "Setup"},
  "fileOrder": {"llm": {"intro": 1}, "basics": {"setup": 1}}
}`)},
	"content/llm/intro.md":    {Data: []byte("## Overview\n\nllm intro\n")},
	"content/basics/setup.md": {Data: []byte("## Install\n\nbasics setup\n")},
}

func newApp(t *testing.T, fsys fstest.MapFS, opts ...Option) (*App, *view.Buffer) {
	t.Helper()
	f := fetch.NewDir(fsys)
	store := cache.New(cache.NewMemory())
	pipeline := content.NewPipeline(fetch.NewCached(f, store))
	buf := view.NewBuffer()
	return New(f, store, pipeline, buf, opts...), buf
}

func TestStartSelectsFirstSection(t *testing.T) {
	a, buf := newApp(t, site)
	require.NoError(t, a.Start(context.Background()))

	assert.Contains(t, buf.HTML(view.MainMenu), `<li data-menu="basics" class="active">Basics</li>`)
	assert.Contains(t, buf.HTML(view.ContentArea), "basics setup")
	assert.Equal(t, view.NewLayout(view.DefaultBreakpoint), buf.Layout())

	snap := a.Controller().State().Snapshot()
	assert.Equal(t, nav.FileLoaded, snap.Phase)
	assert.Equal(t, "basics-setup", snap.FileID)
}

func TestStartWithoutConfiguration(t *testing.T) {
	var logs bytes.Buffer
	a, buf := newApp(t, fstest.MapFS{}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.NoError(t, a.Start(context.Background()))
	assert.Empty(t, buf.HTML(view.MainMenu))
	assert.Contains(t, buf.HTML(view.ContentArea), "No content")
	assert.Contains(t, logs.String(), "loading menu configuration failed")
	assert.Equal(t, nav.Idle, a.Controller().State().Snapshot().Phase)
}

func TestHandleBeforeStart(t *testing.T) {
	a, _ := newApp(t, site)
	err := a.Handle(context.Background(), Event{Type: EventToggleMenu})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestHandleSelection(t *testing.T) {
	a, buf := newApp(t, site)
	ctx := context.Background()
	require.NoError(t, a.Start(ctx))

	require.NoError(t, a.Handle(ctx, Event{Type: EventSelectSection, Section: "llm"}))
	assert.Contains(t, buf.HTML(view.ContentArea), "llm intro")

	require.NoError(t, a.Handle(ctx, Event{Type: EventSelectHeading, File: "llm-intro", Heading: "overview"}))
	scrolls := buf.Scrolls()
	require.NotEmpty(t, scrolls)
	assert.Equal(t, "overview", scrolls[len(scrolls)-1].ID)

	assert.Error(t, a.Handle(ctx, Event{Type: EventSelectFile, File: "nope"}))
	assert.Error(t, a.Handle(ctx, Event{Type: "explode"}))
}

func TestHandleLayout(t *testing.T) {
	a, buf := newApp(t, site, WithBreakpoint(600))
	ctx := context.Background()
	require.NoError(t, a.Start(ctx))

	require.NoError(t, a.Handle(ctx, Event{Type: EventResize, Width: 500}))
	require.NoError(t, a.Handle(ctx, Event{Type: EventToggleSubmenu}))
	assert.True(t, buf.Layout().Sidebar)
	assert.True(t, buf.Layout().Overlay)

	require.NoError(t, a.Handle(ctx, Event{Type: EventSelectFile, File: "basics-setup"}))
	assert.False(t, buf.Layout().Sidebar, "selection closes panels on narrow viewports")
	assert.False(t, buf.Layout().Overlay)

	require.NoError(t, a.Handle(ctx, Event{Type: EventToggleMenu}))
	assert.True(t, a.Layout().MainNav)
	require.NoError(t, a.Handle(ctx, Event{Type: EventDismissOverlay}))
	assert.Equal(t, view.Layout{Breakpoint: 600, Width: 500}, buf.Layout())
}

func TestHandleLayoutWide(t *testing.T) {
	a, buf := newApp(t, site)
	ctx := context.Background()
	require.NoError(t, a.Start(ctx))

	require.NoError(t, a.Handle(ctx, Event{Type: EventResize, Width: 1400}))
	require.NoError(t, a.Handle(ctx, Event{Type: EventToggleSubmenu}))
	require.NoError(t, a.Handle(ctx, Event{Type: EventSelectSection, Section: "llm"}))
	assert.True(t, buf.Layout().Sidebar, "wide layouts keep panels open")
}

func TestApplyOrdersLoads(t *testing.T) {
	a, buf := newApp(t, site)
	ctx := context.Background()
	require.NoError(t, a.Start(ctx))

	older, err := a.Apply(ctx, Event{Type: EventSelectSection, Section: "llm"})
	require.NoError(t, err)
	newer, err := a.Apply(ctx, Event{Type: EventSelectSection, Section: "basics"})
	require.NoError(t, err)

	newer.Run(ctx)
	older.Run(ctx)
	assert.Contains(t, buf.HTML(view.ContentArea), "basics setup")
	assert.NotContains(t, buf.HTML(view.ContentArea), "llm intro")

	l, err := a.Apply(ctx, Event{Type: EventToggleMenu})
	require.NoError(t, err)
	assert.Nil(t, l)
}
