package fetch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docview/internal/cache"
)

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/content/llm/intro.md":
			w.Write([]byte("# Intro"))
		case "/docs/broken.md":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := NewHTTP(srv.URL + "/docs")
	require.NoError(t, err)

	text, err := f.Fetch(context.Background(), "content/llm/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "# Intro", text)

	_, err = f.Fetch(context.Background(), "content/llm/missing.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)

	_, err = f.Fetch(context.Background(), "broken.md")
	assert.True(t, errors.Is(err, ErrNotFound), "any non-success status counts as not found")
}

func TestNewHTTPRejectsBadScheme(t *testing.T) {
	_, err := NewHTTP("ftp://example.com")
	assert.Error(t, err)
}

func TestDirFetch(t *testing.T) {
	fsys := fstest.MapFS{
		"content/llm/intro.md": {Data: []byte("# Intro")},
	}
	f := NewDir(fsys)

	text, err := f.Fetch(context.Background(), "/content/llm/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "# Intro", text)

	_, err = f.Fetch(context.Background(), "content/llm/nope.md")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.Fetch(context.Background(), "../etc/passwd")
	assert.True(t, errors.Is(err, ErrNotFound))
}

type countingFetcher struct {
	calls atomic.Int32
	delay time.Duration
	text  string
	err   error
}

func (c *countingFetcher) Fetch(ctx context.Context, path string) (string, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return c.text, c.err
}

func TestCachedFetchesOnce(t *testing.T) {
	inner := &countingFetcher{text: "# Cached", delay: 20 * time.Millisecond}
	c := NewCached(inner, cache.New(cache.NewMemory()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := c.Fetch(context.Background(), "content/a.md")
			assert.NoError(t, err)
			assert.Equal(t, "# Cached", text)
		}()
	}
	wg.Wait()

	text, err := c.Fetch(context.Background(), "content/a.md")
	require.NoError(t, err)
	assert.Equal(t, "# Cached", text)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.True(t, c.Cached("content/a.md"))

	c.Forget("content/a.md")
	assert.False(t, c.Cached("content/a.md"))
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	inner := &countingFetcher{err: &StatusError{Code: 404, Path: "content/a.md"}}
	c := NewCached(inner, cache.New(cache.NewMemory()))

	_, err := c.Fetch(context.Background(), "content/a.md")
	require.Error(t, err)
	_, err = c.Fetch(context.Background(), "content/a.md")
	require.Error(t, err)

	assert.Equal(t, int32(2), inner.calls.Load())
	assert.False(t, c.Cached("content/a.md"))
}

func TestLoggingFetcher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := NewLoggingFetcher(&countingFetcher{text: "hello"}, logger)
	_, err := ok.Fetch(context.Background(), "content/a.md")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "path=content/a.md")
	assert.Contains(t, buf.String(), "bytes=5")

	buf.Reset()
	bad := NewLoggingFetcher(&countingFetcher{err: errors.New("network error")}, logger)
	_, err = bad.Fetch(context.Background(), "content/b.md")
	require.Error(t, err)
	assert.Contains(t, buf.String(), `err="network error"`)
}
