package view

// DefaultBreakpoint is the viewport width at or below which the navigation
// and sub-menu panels become overlays.
const DefaultBreakpoint = 768

// Layout is the responsive state of the page chrome. Each flag maps to the
// "active" class on the corresponding element.
type Layout struct {
	Breakpoint int  `json:"breakpoint"`
	Width      int  `json:"width"`
	MenuToggle bool `json:"menu_toggle"` // #menu-toggle
	MainNav    bool `json:"main_nav"`    // .main-nav
	Sidebar    bool `json:"sidebar"`     // .sidebar
	Overlay    bool `json:"overlay"`     // #overlay
}

// NewLayout returns a closed layout for the given breakpoint.
func NewLayout(breakpoint int) Layout {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return Layout{Breakpoint: breakpoint}
}

// Narrow reports whether the viewport is at or below the breakpoint. An
// unknown width counts as wide.
func (l Layout) Narrow() bool {
	return l.Width > 0 && l.Width <= l.Breakpoint
}

// Resize records a new viewport width. Leaving the narrow range closes any
// open overlay.
func (l Layout) Resize(width int) Layout {
	l.Width = width
	if !l.Narrow() {
		l = l.closed()
	}
	return l
}

// ToggleMenu flips the main navigation overlay. Opening it hides the
// sub-menu panel.
func (l Layout) ToggleMenu() Layout {
	l.MenuToggle = !l.MenuToggle
	l.MainNav = !l.MainNav
	l.Overlay = !l.Overlay
	if l.MainNav {
		l.Sidebar = false
	}
	return l
}

// ToggleSubmenu flips the sub-menu panel.
func (l Layout) ToggleSubmenu() Layout {
	l.Sidebar = !l.Sidebar
	l.Overlay = !l.Overlay
	return l
}

// DismissOverlay closes everything, as a click on the overlay does.
func (l Layout) DismissOverlay() Layout {
	return l.closed()
}

// AfterSelection closes the panels after a menu selection on narrow
// viewports and leaves wide layouts untouched.
func (l Layout) AfterSelection() Layout {
	if !l.Narrow() {
		return l
	}
	return l.closed()
}

func (l Layout) closed() Layout {
	l.MenuToggle = false
	l.MainNav = false
	l.Sidebar = false
	l.Overlay = false
	return l
}
