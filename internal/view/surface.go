// Package view describes the display surface the viewer renders into. The
// browser DOM is one implementation (see internal/site); Buffer is another.
package view

import (
	"context"
	"time"
)

// Target names a region of the page by its element id.
type Target string

const (
	MainMenu    Target = "main-menu"
	SubMenu     Target = "sub-menu"
	ContentArea Target = "content-area"
)

// Diagram is a Mermaid block found in rendered content. ID matches the
// data-diagram attribute on the block's <pre> element.
type Diagram struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// Scroll describes a deferred scroll request. An empty ID scrolls to the top.
// Margin is added below the fixed page header.
type Scroll struct {
	ID     string        `json:"id,omitempty"`
	Margin int           `json:"margin"`
	Delay  time.Duration `json:"delay"`
}

// Surface receives everything the viewer displays.
type Surface interface {
	SetHTML(target Target, html string)
	ShowProgress(text string, percent int)
	HideProgress()
	// RenderMath typesets formulas in the content area. It must complete
	// before RenderDiagrams because it can restructure the DOM.
	RenderMath(ctx context.Context) error
	RenderDiagrams(ctx context.Context, diagrams []Diagram) error
	Scroll(s Scroll)
	ApplyLayout(l Layout)
}
