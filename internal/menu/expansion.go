package menu

// Expansion tracks which entry of a section shows its heading list. At
// most one entry is expanded at a time.
type Expansion struct {
	expanded string
}

// Expanded returns the id of the expanded entry, or "".
func (x Expansion) Expanded() string { return x.expanded }

// IsExpanded reports whether id is the expanded entry.
func (x Expansion) IsExpanded(id string) bool { return id != "" && x.expanded == id }

// Toggle expands id, collapsing any other entry, or collapses it if it was
// already expanded. It reports whether id is now expanded.
func (x *Expansion) Toggle(id string) bool {
	if x.expanded == id {
		x.expanded = ""
		return false
	}
	x.expanded = id
	return true
}

// Focus expands id and collapses every other entry.
func (x *Expansion) Focus(id string) { x.expanded = id }

// Reset collapses everything.
func (x *Expansion) Reset() { x.expanded = "" }
