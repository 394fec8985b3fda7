package site

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docview/internal/cache"
	"github.com/ziadkadry99/docview/internal/content"
	"github.com/ziadkadry99/docview/internal/fetch"
	"github.com/ziadkadry99/docview/internal/menu"
	"github.com/ziadkadry99/docview/internal/server"
	"github.com/ziadkadry99/docview/internal/view"
)

const testDocument = `{
  "menuConfig": {"llm": {"title": "LLM", "order": 2}, "basics": {"title": "Basics", "order": 1}},
  "fileTitleMap": {"intro": "Introduction", "setup": "Setup"},
  "fileOrder": {"llm": {"intro": 1}, "basics": {"setup": 1}}
}`

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		"menu-config.json":        {Data: []byte(testDocument)},
		"content/llm/intro.md":    {Data: []byte("## Overview\n\nllm intro\n")},
		"content/basics/setup.md": {Data: []byte("## Install\n\nbasics setup\n")},
	}
}

type fixture struct {
	site   *Site
	store  *cache.Store
	cached *fetch.Cached
	srv    *httptest.Server
}

// swappable is a Fetcher whose source can be replaced while sessions read.
type swappable struct {
	mu   sync.Mutex
	next fetch.Fetcher
}

func (s *swappable) Fetch(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	next := s.next
	s.mu.Unlock()
	return next.Fetch(ctx, path)
}

func (s *swappable) set(next fetch.Fetcher) {
	s.mu.Lock()
	s.next = next
	s.mu.Unlock()
}

func newFixture(t *testing.T, fsys fstest.MapFS) *fixture {
	t.Helper()
	return newFixtureWith(t, fetch.NewDir(fsys), fsys)
}

func newFixtureWith(t *testing.T, f fetch.Fetcher, fsys fs.FS) *fixture {
	t.Helper()
	store := cache.New(cache.NewMemory())
	cached := fetch.NewCached(f, store)
	pipeline := content.NewPipeline(cached)
	s := New(f, cached, store, pipeline, WithFiles(fsys), WithTitle("Test Docs"))

	host := server.New(server.Config{}, nil)
	s.RegisterRoutes(host.Router(), host.Timeout())
	srv := httptest.NewServer(host.Router())
	t.Cleanup(srv.Close)

	return &fixture{site: s, store: store, cached: cached, srv: srv}
}

func (fx *fixture) get(t *testing.T, target string, header ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, fx.srv.URL+target, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndexPage(t *testing.T) {
	fx := newFixture(t, testFiles())
	resp, body := fx.get(t, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>Test Docs</title>")
	for _, id := range []string{"main-menu", "sub-menu", "content-area", "menu-toggle", "overlay", "submenu-float-btn"} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	for _, class := range []string{`class="header"`, `class="sidebar"`, `class="main-nav"`} {
		assert.Contains(t, body, class)
	}
}

func TestStaticAssets(t *testing.T) {
	fx := newFixture(t, testFiles())

	resp, body := fx.get(t, "/static/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, body, `new WebSocket(`)

	resp, body = fx.get(t, "/static/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".sidebar")
}

func TestMenuAPI(t *testing.T) {
	fx := newFixture(t, testFiles())
	resp, body := fx.get(t, "/api/menu")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tree menu.Tree
	require.NoError(t, json.Unmarshal([]byte(body), &tree))
	require.Len(t, tree.Sections, 2)
	assert.Equal(t, "basics", tree.Sections[0].Key)
	assert.Equal(t, "content/basics/setup.md", tree.Sections[0].Entries[0].FilePath)
}

func TestRenderAPI(t *testing.T) {
	fx := newFixture(t, testFiles())

	resp, body := fx.get(t, "/api/render?path=content/llm/intro.md")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<h2 id="overview">Overview</h2>`)
	assert.Contains(t, body, "llm intro")
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	resp, _ = fx.get(t, "/api/render?path=content/llm/intro.md", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp, _ = fx.get(t, "/api/render?path=content/llm/missing.md")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = fx.get(t, "/api/render?path=content/../menu-config.json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchAPI(t *testing.T) {
	fx := newFixture(t, testFiles())

	resp, body := fx.get(t, "/api/search?q=intro")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out searchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotEmpty(t, out.Results)
	assert.Equal(t, "llm-intro", out.Results[0].EntryID)

	resp, _ = fx.get(t, "/api/search")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = fx.get(t, "/api/search?q=intro&limit=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContentFiles(t *testing.T) {
	fx := newFixture(t, testFiles())

	resp, body := fx.get(t, "/content/llm/intro.md")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "## Overview\n\nllm intro\n", body)

	resp, body = fx.get(t, "/menu-config.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "menuConfig")
}

func TestContentPath(t *testing.T) {
	s := New(nil, nil, nil, nil)
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"content/llm/intro.md", "content/llm/intro.md", true},
		{"/content/llm/intro.md", "content/llm/intro.md", true},
		{"content/llm/../llm/intro.md", "content/llm/intro.md", true},
		{"content/../secret.md", "", false},
		{"../content/x.md", "", false},
		{"content/llm/intro.txt", "", false},
		{"other/intro.md", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := s.contentPath(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

// readUntil reads operations from conn, acknowledging math and diagram
// calls like the page does, until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(op) bool) op {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var o op
		require.NoError(t, conn.ReadJSON(&o))
		if o.Op == opMath || o.Op == opDiagrams {
			require.NoError(t, conn.WriteJSON(map[string]any{"type": ackType, "seq": o.Seq}))
		}
		if match(o) {
			return o
		}
	}
}

func contentContains(text string) func(op) bool {
	return func(o op) bool {
		return o.Op == opHTML && o.Target == view.ContentArea && strings.Contains(o.HTML, text)
	}
}

func dial(t *testing.T, fx *fixture) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(fx.srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketSession(t *testing.T) {
	fx := newFixture(t, testFiles())
	conn := dial(t, fx)

	menuOp := readUntil(t, conn, func(o op) bool { return o.Op == opHTML && o.Target == view.MainMenu })
	assert.Contains(t, menuOp.HTML, `data-menu="basics"`)
	readUntil(t, conn, contentContains("basics setup"))
	assert.Equal(t, 1, fx.site.Sessions())

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select_section", "section": "llm"}))
	sub := readUntil(t, conn, func(o op) bool { return o.Op == opHTML && o.Target == view.SubMenu })
	assert.Contains(t, sub.HTML, `data-id="llm-intro"`)
	readUntil(t, conn, contentContains("llm intro"))

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select_heading", "file": "llm-intro", "heading": "overview"}))
	sc := readUntil(t, conn, func(o op) bool { return o.Op == opScroll })
	assert.Equal(t, "overview", sc.ID)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "explode"}))
	e := readUntil(t, conn, func(o op) bool { return o.Op == opError })
	assert.Contains(t, e.Error, "explode")
}

func TestRapidSelectionsLastWins(t *testing.T) {
	fx := newFixture(t, testFiles())

	for round := 0; round < 10; round++ {
		conn := dial(t, fx)
		readUntil(t, conn, contentContains("basics setup"))

		require.NoError(t, conn.WriteJSON(map[string]any{"type": "select_section", "section": "llm"}))
		require.NoError(t, conn.WriteJSON(map[string]any{"type": "select_section", "section": "basics"}))
		require.NoError(t, conn.WriteJSON(map[string]any{"type": "toggle_menu"}))

		var mainMenu, lastContent string
		var sawLayout, sawBasics bool
		readUntil(t, conn, func(o op) bool {
			switch {
			case o.Op == opHTML && o.Target == view.MainMenu:
				mainMenu = o.HTML
			case o.Op == opHTML && o.Target == view.ContentArea:
				lastContent = o.HTML
				if strings.Contains(o.HTML, "basics setup") {
					sawBasics = true
				}
			case o.Op == opLayout && o.Layout != nil && o.Layout.MainNav:
				sawLayout = true
			}
			return sawLayout && sawBasics
		})

		assert.Contains(t, mainMenu, `data-menu="basics" class="active"`, "round %d", round)
		assert.Contains(t, lastContent, "basics setup", "round %d", round)
		conn.Close()
	}
}

func TestDocumentChangeWithOpenSession(t *testing.T) {
	src := &swappable{next: fetch.NewDir(testFiles())}
	fx := newFixtureWith(t, src, nil)
	conn := dial(t, fx)
	readUntil(t, conn, contentContains("basics setup"))

	changed := testFiles()
	changed["menu-config.json"] = &fstest.MapFile{Data: []byte(`{"fileOrder": {"fresh": {"news": 1}}}`)}
	src.set(fetch.NewDir(changed))
	fx.site.DocumentChanged()

	// The open session still navigates its old tree and resolves headings.
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select_file", "file": "llm-intro"}))
	readUntil(t, conn, contentContains("llm intro"))

	resp, body := fx.get(t, "/api/menu")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tree menu.Tree
	require.NoError(t, json.Unmarshal([]byte(body), &tree))
	require.Len(t, tree.Sections, 1)
	assert.Equal(t, "fresh", tree.Sections[0].Key)
}

func TestChangedReloadsSessions(t *testing.T) {
	src := &swappable{next: fetch.NewDir(testFiles())}
	fx := newFixtureWith(t, src, nil)
	conn := dial(t, fx)
	readUntil(t, conn, contentContains("basics setup"))

	edited := testFiles()
	edited["content/basics/setup.md"] = &fstest.MapFile{Data: []byte("## Install\n\nedited setup\n")}
	src.set(fetch.NewDir(edited))
	fx.site.Changed(context.Background(), "content/basics/setup.md")

	readUntil(t, conn, contentContains("edited setup"))
}

func TestWatcherHandle(t *testing.T) {
	dir := t.TempDir()
	for name, f := range testFiles() {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
	}

	f := fetch.NewDir(os.DirFS(dir))
	store := cache.New(cache.NewMemory())
	cached := fetch.NewCached(f, store)
	s := New(f, cached, store, content.NewPipeline(cached))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := s.Watch(ctx, dir)
	require.NoError(t, err)
	defer w.Close()

	path := "content/llm/intro.md"
	_, err = cached.Fetch(ctx, path)
	require.NoError(t, err)
	require.True(t, cached.Cached(path))

	w.handle(ctx, fsnotify.Event{Name: filepath.Join(dir, "content", "llm", "intro.md"), Op: fsnotify.Write})
	assert.False(t, cached.Cached(path))

	s.menuBuilder(ctx).GenerateMenuData(ctx)
	var tree menu.Tree
	require.True(t, store.Get(cache.MenuKey, &tree))

	w.handle(ctx, fsnotify.Event{Name: filepath.Join(dir, "menu-config.json"), Op: fsnotify.Write})
	assert.False(t, store.Get(cache.MenuKey, &tree))

	newDir := filepath.Join(dir, "content", "extra")
	require.NoError(t, os.Mkdir(newDir, 0o755))
	w.handle(ctx, fsnotify.Event{Name: newDir, Op: fsnotify.Create})
	assert.Contains(t, w.fsw.WatchList(), newDir)
}
