package menu

import (
	"context"
	"log/slog"
	"path"
	"sort"

	"github.com/ziadkadry99/docview/internal/cache"
	"github.com/ziadkadry99/docview/internal/content"
)

// DefaultContentDir is the directory, relative to the source, that holds
// one sub-directory per section.
const DefaultContentDir = "content"

// HeadingLoader returns the headings of a content file. Failures yield an
// empty list.
type HeadingLoader interface {
	LoadHeadings(ctx context.Context, path string) []content.Heading
}

// Builder turns a Document into a Tree and resolves entry headings. It
// holds no tree of its own and is safe for concurrent use; every caller
// works on the Tree it was handed.
type Builder struct {
	doc        *Document
	version    string
	store      *cache.Store
	loader     HeadingLoader
	contentDir string
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithContentDir sets the content root used to form file paths.
func WithContentDir(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.contentDir = dir
		}
	}
}

// WithLogger sets the builder logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder returns a Builder for doc. The tree is cached in store and
// headings are loaded through loader.
func NewBuilder(doc *Document, store *cache.Store, loader HeadingLoader, opts ...Option) *Builder {
	if doc == nil {
		doc = EmptyDocument()
	}
	b := &Builder{
		doc:        doc,
		store:      store,
		loader:     loader,
		contentDir: DefaultContentDir,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(b)
	}
	b.version = doc.Version()
	return b
}

// Document returns the configuration the builder works from.
func (b *Builder) Document() *Document { return b.doc }

// GenerateMenuData returns the cached tree when one is fresh and was built
// from the same document, otherwise builds the tree and caches it. An empty
// tree is not cached.
func (b *Builder) GenerateMenuData(ctx context.Context) *Tree {
	var cached Tree
	if b.store.Get(cache.MenuKey, &cached) {
		if cached.Version == b.version {
			b.logger.Debug("using cached menu tree", "sections", len(cached.Sections))
			return &cached
		}
		b.logger.Debug("cached menu tree is from another configuration", "cached", cached.Version, "current", b.version)
	}

	t := b.Build()
	if len(t.Sections) > 0 {
		b.store.Set(cache.MenuKey, t)
	}
	return t
}

// Build constructs the tree from the document without consulting the
// cache. Sections with no files are left out.
func (b *Builder) Build() *Tree {
	keys := make(map[string]bool)
	for k := range b.doc.MenuConfig {
		keys[k] = true
	}
	for k := range b.doc.FileOrder {
		keys[k] = true
	}

	t := &Tree{Version: b.version}
	for key := range keys {
		files := b.doc.FileOrder[key]
		if len(files) == 0 {
			continue
		}
		cfg, ok := b.doc.MenuConfig[key]
		s := &Section{Key: key, Title: cfg.Title, Order: DefaultOrder}
		if !ok || s.Title == "" {
			s.Title = prettify(key)
		}
		if cfg.Order != nil {
			s.Order = *cfg.Order
		}

		for file, order := range files {
			title := b.doc.FileTitleMap[file]
			if title == "" {
				title = prettify(file)
			}
			s.Entries = append(s.Entries, &Entry{
				ID:       key + "-" + file,
				Title:    title,
				FilePath: path.Join(b.contentDir, key, file+".md"),
				Order:    order,
			})
		}
		sort.Slice(s.Entries, func(i, j int) bool {
			if s.Entries[i].Order != s.Entries[j].Order {
				return s.Entries[i].Order < s.Entries[j].Order
			}
			return s.Entries[i].ID < s.Entries[j].ID
		})
		t.Sections = append(t.Sections, s)
	}

	sort.Slice(t.Sections, func(i, j int) bool {
		if t.Sections[i].Order != t.Sections[j].Order {
			return t.Sections[i].Order < t.Sections[j].Order
		}
		return t.Sections[i].Key < t.Sections[j].Key
	})
	return t
}

// Resolve loads the headings of e the first time it is called for e and
// stores the updated tree unless the cache holds a tree of another
// configuration. Later calls return the resolved list without fetching.
func (b *Builder) Resolve(ctx context.Context, t *Tree, e *Entry) []content.Heading {
	if e.Resolved {
		return e.Headings
	}
	e.Headings = b.loader.LoadHeadings(ctx, e.FilePath)
	e.Resolved = true
	b.logger.Debug("resolved headings", "entry", e.ID, "count", len(e.Headings))
	b.persist(t)
	return e.Headings
}

// persist caches t if it was built from this builder's document and the
// cache does not already hold a tree of a different document.
func (b *Builder) persist(t *Tree) {
	if t.Version != b.version {
		return
	}
	var cur Tree
	if b.store.Get(cache.MenuKey, &cur) && cur.Version != t.Version {
		b.logger.Debug("not replacing menu tree of another configuration", "cached", cur.Version)
		return
	}
	b.store.Set(cache.MenuKey, t)
}

// Invalidate marks the cached entry for path unresolved, keeping the rest
// of the cached tree.
func (b *Builder) Invalidate(path string) {
	var t Tree
	if !b.store.Get(cache.MenuKey, &t) || t.Version != b.version {
		return
	}
	if t.Invalidate(path) {
		b.store.Set(cache.MenuKey, &t)
	}
}
