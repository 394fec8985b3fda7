package menu

import (
	"strings"

	"github.com/ziadkadry99/docview/internal/content"
)

// DefaultOrder places sections without a configured order last.
const DefaultOrder = 999

// Entry is a content file in the menu. Its headings are resolved lazily,
// the first time the entry is expanded.
type Entry struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	FilePath string            `json:"file"`
	Order    int               `json:"order"`
	Headings []content.Heading `json:"headings"`
	Resolved bool              `json:"resolved"`
}

// Section is a top-level menu item and its files, sorted by order.
type Section struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Order   int      `json:"order"`
	Entries []*Entry `json:"items"`
}

// Tree is the whole navigation tree, sections sorted by order. Version is
// the fingerprint of the document it was built from.
type Tree struct {
	Version  string     `json:"version,omitempty"`
	Sections []*Section `json:"sections"`
}

// Section returns the section with the given key, or nil.
func (t *Tree) Section(key string) *Section {
	for _, s := range t.Sections {
		if s.Key == key {
			return s
		}
	}
	return nil
}

// First returns the first section, or nil for an empty tree.
func (t *Tree) First() *Section {
	if len(t.Sections) == 0 {
		return nil
	}
	return t.Sections[0]
}

// Entry returns the entry with the given id and its section.
func (t *Tree) Entry(id string) (*Section, *Entry) {
	for _, s := range t.Sections {
		if e := s.Entry(id); e != nil {
			return s, e
		}
	}
	return nil, nil
}

// EntryByPath returns the entry for a content file path and its section.
func (t *Tree) EntryByPath(path string) (*Section, *Entry) {
	for _, s := range t.Sections {
		for _, e := range s.Entries {
			if e.FilePath == path {
				return s, e
			}
		}
	}
	return nil, nil
}

// Invalidate marks the entry for path unresolved so its headings are
// parsed again on next expansion. It reports whether an entry changed.
func (t *Tree) Invalidate(path string) bool {
	_, e := t.EntryByPath(path)
	if e == nil || !e.Resolved {
		return false
	}
	e.Resolved = false
	e.Headings = nil
	return true
}

// Entry returns the entry with the given id, or nil.
func (s *Section) Entry(id string) *Entry {
	for _, e := range s.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// First returns the first entry of the section, or nil.
func (s *Section) First() *Entry {
	if len(s.Entries) == 0 {
		return nil
	}
	return s.Entries[0]
}

// prettify turns a key such as "ai-programming" into "Ai Programming".
func prettify(key string) string {
	words := strings.FieldsFunc(key, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
