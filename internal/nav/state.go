// Package nav holds the navigation state of a reader and the controller
// that moves it between sections, files and headings.
package nav

import (
	"sync"

	"github.com/ziadkadry99/docview/internal/content"
	"github.com/ziadkadry99/docview/internal/menu"
)

// Phase is the state of the navigation machine.
type Phase int

const (
	Idle Phase = iota
	SectionSelected
	FileLoading
	FileLoaded
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case SectionSelected:
		return "section_selected"
	case FileLoading:
		return "file_loading"
	case FileLoaded:
		return "file_loaded"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	Phase         Phase             `json:"phase"`
	Section       string            `json:"section"`
	FileID        string            `json:"file_id"`
	FilePath      string            `json:"file_path"`
	ActiveHeading string            `json:"active_heading,omitempty"`
	Headings      []content.Heading `json:"headings"`
	Expansion     menu.Expansion    `json:"-"`
}

// State is the navigation state of one reader. It changes only through
// its setters.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewState returns an idle state.
func NewState() *State {
	return &State{}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	out.Headings = append([]content.Heading(nil), s.snap.Headings...)
	return out
}

// SetSection makes key the current section and collapses every entry.
func (s *State) SetSection(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Section = key
	s.snap.Expansion.Reset()
	s.snap.Phase = SectionSelected
}

// SetFile records the current file and its expected headings.
func (s *State) SetFile(id, path string, headings []content.Heading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.FileID = id
	s.snap.FilePath = path
	s.snap.Headings = headings
	s.snap.ActiveHeading = ""
}

// SetHeadings replaces the expected headings of the current file.
func (s *State) SetHeadings(headings []content.Heading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Headings = headings
}

// SetActiveHeading marks the heading the reader last selected.
func (s *State) SetActiveHeading(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ActiveHeading = id
}

// SetPhase moves the machine to p.
func (s *State) SetPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Phase = p
}

// Toggle flips the expansion of entry id and reports whether it is now
// expanded.
func (s *State) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Expansion.Toggle(id)
}

// Focus expands entry id and collapses the others.
func (s *State) Focus(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Expansion.Focus(id)
}
