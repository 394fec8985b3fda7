package menu

import (
	"github.com/sahilm/fuzzy"
)

// Result is one search hit: a file, or a heading inside a file.
type Result struct {
	Section   string `json:"section"`
	EntryID   string `json:"entry_id"`
	FilePath  string `json:"file"`
	HeadingID string `json:"heading_id,omitempty"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
}

// candidates adapts the tree to fuzzy.Source.
type candidates []Result

func (c candidates) String(i int) string { return c[i].Title }
func (c candidates) Len() int            { return len(c) }

// Search fuzzy-matches query against file titles and the titles of
// resolved headings, best match first. A limit of zero or less returns
// every match.
func Search(t *Tree, query string, limit int) []Result {
	if query == "" {
		return nil
	}

	var all candidates
	for _, s := range t.Sections {
		for _, e := range s.Entries {
			all = append(all, Result{Section: s.Key, EntryID: e.ID, FilePath: e.FilePath, Title: e.Title})
			for _, h := range e.Headings {
				all = append(all, Result{Section: s.Key, EntryID: e.ID, FilePath: e.FilePath, HeadingID: h.ID, Title: h.Title})
			}
		}
	}

	matches := fuzzy.FindFrom(query, all)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		r := all[m.Index]
		r.Score = m.Score
		results = append(results, r)
	}
	return results
}
