package view

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Buffer is an in-memory Surface. It keeps the last HTML written to each
// target and records every other call, which makes it the surface of choice
// for tests and for one-shot rendering.
type Buffer struct {
	mu        sync.Mutex
	html      map[Target]string
	revisions map[Target]int
	progress  []string
	scrolls   []Scroll
	layout    Layout
	mathRuns  int
	diagrams  []Diagram
}

var _ Surface = (*Buffer)(nil)

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		html:      make(map[Target]string),
		revisions: make(map[Target]int),
	}
}

func (b *Buffer) SetHTML(target Target, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.html[target] = content
	b.revisions[target]++
}

func (b *Buffer) ShowProgress(text string, percent int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress = append(b.progress, fmt.Sprintf("%d%% %s", percent, text))
}

func (b *Buffer) HideProgress() {}

func (b *Buffer) RenderMath(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mathRuns++
	return ctx.Err()
}

// RenderDiagrams replaces each tagged <pre> in the content area with a
// <div class="mermaid"> holding the diagram source.
func (b *Buffer) RenderDiagrams(ctx context.Context, diagrams []Diagram) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagrams = append(b.diagrams, diagrams...)
	if len(diagrams) == 0 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.html[ContentArea]))
	if err != nil {
		return fmt.Errorf("parsing content: %w", err)
	}
	for _, d := range diagrams {
		doc.Find(fmt.Sprintf(`pre[data-diagram=%q]`, d.ID)).
			ReplaceWithHtml(`<div class="mermaid">` + html.EscapeString(d.Source) + `</div>`)
	}
	out, err := doc.Find("body").Html()
	if err != nil {
		return fmt.Errorf("serializing content: %w", err)
	}
	b.html[ContentArea] = out
	return nil
}

func (b *Buffer) Scroll(s Scroll) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrolls = append(b.scrolls, s)
}

func (b *Buffer) ApplyLayout(l Layout) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.layout = l
}

// HTML returns the current HTML of target.
func (b *Buffer) HTML(target Target) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html[target]
}

// Revision returns how many times target has been written.
func (b *Buffer) Revision(target Target) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revisions[target]
}

// Scrolls returns the recorded scroll requests.
func (b *Buffer) Scrolls() []Scroll {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Scroll(nil), b.scrolls...)
}

// Progress returns the recorded progress messages.
func (b *Buffer) Progress() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.progress...)
}

// MathRuns returns how many times math rendering was requested.
func (b *Buffer) MathRuns() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mathRuns
}

// Diagrams returns every diagram passed to RenderDiagrams.
func (b *Buffer) Diagrams() []Diagram {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Diagram(nil), b.diagrams...)
}

// Layout returns the last applied layout.
func (b *Buffer) Layout() Layout {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layout
}
