package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docview/internal/db"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	d, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return map[string]Backend{
		"memory": NewMemory(),
		"sqlite": NewSQLite(d),
	}
}

func TestStoreSetGet(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(backend)
			store.Set(ContentKey("content/llm/intro.md"), "# Intro")

			var got string
			require.True(t, store.Get(ContentKey("content/llm/intro.md"), &got))
			assert.Equal(t, "# Intro", got)

			var missing string
			assert.False(t, store.Get(ContentKey("content/llm/other.md"), &missing))
		})
	}
}

func TestStoreExpiryEvicts(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
			store := New(backend, WithClock(c.now))
			store.Set(MenuKey, map[string]int{"llm": 1})

			c.t = c.t.Add(DefaultExpiry - time.Second)
			var fresh map[string]int
			require.True(t, store.Get(MenuKey, &fresh))

			c.t = c.t.Add(time.Second)
			var stale map[string]int
			assert.False(t, store.Get(MenuKey, &stale), "record at exactly the expiry is stale")

			_, err := backend.Read(MenuKey)
			assert.True(t, errors.Is(err, ErrMissing), "stale record should be evicted")
			assert.False(t, store.Get(MenuKey, &stale))
		})
	}
}

func TestStoreMalformedRecord(t *testing.T) {
	backend := NewMemory()
	require.NoError(t, backend.Write("broken", "{not json"))
	require.NoError(t, backend.Write("nodata", `{"timestamp": 1}`))

	store := New(backend)
	var v string
	assert.False(t, store.Get("broken", &v))
	assert.False(t, store.Get("nodata", &v))

	keys, err := backend.Keys("")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

type failingBackend struct{}

func (failingBackend) Read(string) (string, error) { return "", errors.New("disk gone") }
func (failingBackend) Write(string, string) error { return errors.New("quota exceeded") }
func (failingBackend) Delete(string) error { return errors.New("disk gone") }
func (failingBackend) Keys(string) ([]string, error) { return nil, errors.New("disk gone") }

func TestStoreSwallowsBackendErrors(t *testing.T) {
	store := New(failingBackend{})

	assert.NotPanics(t, func() {
		store.Set("k", "v")
		store.Clear("k")
	})
	var v string
	assert.False(t, store.Get("k", &v))
	assert.Zero(t, store.ClearPrefix(ContentPrefix))
}

func TestStoreClearPrefix(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(backend)
			store.Set(ContentKey("content/a.md"), "a")
			store.Set(ContentKey("content/b.md"), "b")
			store.Set(MenuKey, "tree")

			assert.Equal(t, 2, store.ClearPrefix(ContentPrefix))

			var v string
			assert.False(t, store.Get(ContentKey("content/a.md"), &v))
			assert.True(t, store.Get(MenuKey, &v))
		})
	}
}
