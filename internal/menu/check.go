package menu

import "sort"

// Report compares the menu against the content files on disk.
type Report struct {
	// Missing lists menu entries whose file was not found.
	Missing []*Entry
	// Unlisted lists Markdown files no menu entry points at.
	Unlisted []string
}

// OK reports whether the menu and the files agree.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Unlisted) == 0
}

// Check compares t with found, the slash-separated paths of the content
// files relative to the source root.
func Check(t *Tree, found []string) Report {
	onDisk := make(map[string]bool, len(found))
	for _, p := range found {
		onDisk[p] = true
	}

	var r Report
	listed := make(map[string]bool)
	for _, s := range t.Sections {
		for _, e := range s.Entries {
			listed[e.FilePath] = true
			if !onDisk[e.FilePath] {
				r.Missing = append(r.Missing, e)
			}
		}
	}
	for p := range onDisk {
		if !listed[p] {
			r.Unlisted = append(r.Unlisted, p)
		}
	}
	sort.Strings(r.Unlisted)
	return r
}
