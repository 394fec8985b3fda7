// Package cache is a time-boxed look-aside cache for fetched content and the
// generated menu tree.
package cache

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
)

// DefaultExpiry is how long a record stays valid.
const DefaultExpiry = 24 * time.Hour

// Key namespaces.
const (
	MenuKey       = "docview_menu_cache_v1"
	ContentPrefix = "docview_content_cache_v1_"
)

// ContentKey returns the cache key for the raw text of a content file.
func ContentKey(path string) string {
	return ContentPrefix + path
}

// ErrMissing is returned by a Backend when the key does not exist.
var ErrMissing = errors.New("cache: key not found")

// Backend is the raw key/value storage underneath a Store.
type Backend interface {
	Read(key string) (string, error)
	Write(key, value string) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// record is the persisted envelope. Timestamp is in unix milliseconds.
type record struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Store wraps a Backend with expiry. Backend failures are logged and treated
// as misses; they never reach the caller.
type Store struct {
	backend Backend
	expiry  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithExpiry overrides DefaultExpiry.
func WithExpiry(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store over the given backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		expiry:  DefaultExpiry,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores value under key with the current timestamp.
func (s *Store) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
		return
	}
	raw, err := json.Marshal(record{Data: data, Timestamp: s.now().UnixMilli()})
	if err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
		return
	}
	if err := s.backend.Write(key, string(raw)); err != nil {
		s.logger.Warn("cache set failed", "key", key, "err", err)
	}
}

// Get decodes the record under key into dst and reports whether it was
// present and fresh. Expired and malformed records are evicted.
func (s *Store) Get(key string, dst any) bool {
	raw, err := s.backend.Read(key)
	if err != nil {
		if !errors.Is(err, ErrMissing) {
			s.logger.Warn("cache get failed", "key", key, "err", err)
		}
		return false
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Data == nil {
		s.logger.Warn("cache record malformed", "key", key, "err", err)
		s.Clear(key)
		return false
	}

	if s.now().Sub(time.UnixMilli(rec.Timestamp)) >= s.expiry {
		s.Clear(key)
		return false
	}

	if err := json.Unmarshal(rec.Data, dst); err != nil {
		s.logger.Warn("cache payload malformed", "key", key, "err", err)
		s.Clear(key)
		return false
	}
	return true
}

// Clear removes key.
func (s *Store) Clear(key string) {
	if err := s.backend.Delete(key); err != nil && !errors.Is(err, ErrMissing) {
		s.logger.Warn("cache clear failed", "key", key, "err", err)
	}
}

// ClearPrefix removes every key starting with prefix and returns how many
// were removed.
func (s *Store) ClearPrefix(prefix string) int {
	keys, err := s.backend.Keys(prefix)
	if err != nil {
		s.logger.Warn("cache list failed", "prefix", prefix, "err", err)
		return 0
	}
	n := 0
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		s.Clear(k)
		n++
	}
	return n
}
