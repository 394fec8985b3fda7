package app

// EventType names a reader action.
type EventType string

const (
	EventSelectSection  EventType = "select_section"
	EventSelectFile     EventType = "select_file"
	EventSelectHeading  EventType = "select_heading"
	EventToggleMenu     EventType = "toggle_menu"
	EventToggleSubmenu  EventType = "toggle_submenu"
	EventDismissOverlay EventType = "dismiss_overlay"
	EventResize         EventType = "resize"
	EventReload         EventType = "reload"
)

// Event is one reader action as sent by the page. Section is a section
// key, File a menu entry id, Path a content file path.
type Event struct {
	Type    EventType `json:"type"`
	Section string    `json:"section,omitempty"`
	File    string    `json:"file,omitempty"`
	Path    string    `json:"path,omitempty"`
	Heading string    `json:"heading,omitempty"`
	Width   int       `json:"width,omitempty"`
}

// selection reports whether the event navigates, which dismisses overlays
// on narrow viewports.
func (e Event) selection() bool {
	switch e.Type {
	case EventSelectSection, EventSelectFile, EventSelectHeading:
		return true
	}
	return false
}
