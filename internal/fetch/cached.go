package fetch

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/docview/internal/cache"
)

// Cached is a look-aside Fetcher: it answers from the cache store when it
// can and caches every successful fetch. Failures are never cached.
type Cached struct {
	next  Fetcher
	store *cache.Store
	group singleflight.Group
}

var _ Fetcher = (*Cached)(nil)

// NewCached wraps next with the cache store.
func NewCached(next Fetcher, store *cache.Store) *Cached {
	return &Cached{next: next, store: store}
}

// Fetch returns the cached text for path or fetches and caches it.
// Concurrent misses for the same path share one underlying fetch.
func (c *Cached) Fetch(ctx context.Context, path string) (string, error) {
	key := cache.ContentKey(path)

	var text string
	if c.store.Get(key, &text) {
		return text, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var text string
		if c.store.Get(key, &text) {
			return text, nil
		}
		text, err := c.next.Fetch(ctx, path)
		if err != nil {
			return "", err
		}
		c.store.Set(key, text)
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Cached reports whether path currently has a fresh cache record.
func (c *Cached) Cached(path string) bool {
	var text string
	return c.store.Get(cache.ContentKey(path), &text)
}

// Forget drops the cached text for path.
func (c *Cached) Forget(path string) {
	c.store.Clear(cache.ContentKey(path))
}
