// Package content turns Markdown files into rendered, navigable HTML.
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/adrg/frontmatter"

	"github.com/ziadkadry99/docview/internal/fetch"
	"github.com/ziadkadry99/docview/internal/view"
)

// Scroll defaults: the gap kept below the fixed header and the delay that
// lets math and diagram rendering settle first.
const (
	DefaultScrollMargin = 20
	DefaultScrollDelay  = 200 * time.Millisecond
)

const (
	loadingHTML = `<div class="loading">Loading...</div>`
	pendingHTML = `<h1>Content in preparation</h1>
<p>This section is still being written.</p>
<p>File path: %s</p>`
	failureHTML = `<h1>Failed to load</h1>
<p>The content could not be loaded. Please try again later.</p>
<p>Error: %s</p>`
)

// Pipeline fetches content files and renders them into a surface.
type Pipeline struct {
	fetcher      *fetch.Cached
	markdown     *Markdown
	logger       *slog.Logger
	maxInline    int
	scrollMargin int
	scrollDelay  time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithHighlightStyle selects the chroma style for fenced code.
func WithHighlightStyle(style string) Option {
	return func(p *Pipeline) { p.markdown = NewMarkdown(style) }
}

// WithMaxInlineFormula bounds the length of an inline formula.
func WithMaxInlineFormula(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxInline = n
		}
	}
}

// WithScroll sets the margin below the header and the delay applied when
// scrolling to a heading.
func WithScroll(margin int, delay time.Duration) Option {
	return func(p *Pipeline) {
		p.scrollMargin = margin
		p.scrollDelay = delay
	}
}

// NewPipeline returns a Pipeline reading through f.
func NewPipeline(f *fetch.Cached, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:      f,
		logger:       slog.Default(),
		maxInline:    DefaultMaxInlineFormula,
		scrollMargin: DefaultScrollMargin,
		scrollDelay:  DefaultScrollDelay,
	}
	for _, o := range opts {
		o(p)
	}
	if p.markdown == nil {
		p.markdown = NewMarkdown(DefaultHighlightStyle)
	}
	return p
}

// Load fetches path and renders it into s. headings are the expected
// headings of the file, used to reconcile anchor ids. Failures are rendered
// into the content area rather than returned.
func (p *Pipeline) Load(ctx context.Context, s view.Surface, path string, headings []Heading, headingID string) {
	if !p.fetcher.Cached(path) {
		s.SetHTML(view.ContentArea, loadingHTML)
		s.ShowProgress("Loading content file...", 10)
	}

	text, err := p.fetcher.Fetch(ctx, path)
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		s.HideProgress()
		s.SetHTML(view.ContentArea, fmt.Sprintf(pendingHTML, html.EscapeString(path)))
		return
	case err != nil:
		p.fail(s, path, err)
		return
	}
	s.ShowProgress("Reading file content...", 20)

	if err := p.Render(ctx, s, text, headings, headingID); err != nil {
		p.fail(s, path, err)
	}
}

func (p *Pipeline) fail(s view.Surface, path string, err error) {
	p.logger.Warn("loading content failed", "path", path, "error", err)
	s.HideProgress()
	s.SetHTML(view.ContentArea, fmt.Sprintf(failureHTML, html.EscapeString(err.Error())))
}

// Render converts markdown and writes it into the content area of s, then
// typesets math, draws diagrams and scrolls to headingID if it exists.
func (p *Pipeline) Render(ctx context.Context, s view.Surface, markdown string, headings []Heading, headingID string) error {
	s.ShowProgress("Parsing Markdown...", 70)

	fragment, diagrams, ids, err := p.RenderHTML(markdown, headings)
	if err != nil {
		return err
	}
	s.SetHTML(view.ContentArea, fragment)

	s.ShowProgress("Rendering formulas...", 80)
	if err := s.RenderMath(ctx); err != nil {
		return fmt.Errorf("rendering math: %w", err)
	}

	s.ShowProgress("Rendering diagrams...", 90)
	if err := s.RenderDiagrams(ctx, diagrams); err != nil {
		p.logger.Warn("rendering diagrams failed", "count", len(diagrams), "error", err)
	}

	s.ShowProgress("Done", 100)
	s.HideProgress()

	if headingID != "" {
		target := view.Scroll{Margin: p.scrollMargin, Delay: p.scrollDelay}
		if ids[headingID] {
			target.ID = headingID
		} else {
			p.logger.Debug("heading not found, scrolling to top", "heading", headingID)
		}
		s.Scroll(target)
	}
	return nil
}

// RenderHTML runs the conversion steps that need no surface: front matter
// removal, formula protection, Markdown conversion, formula restoration,
// heading reconciliation and diagram discovery.
func (p *Pipeline) RenderHTML(markdown string, headings []Heading) (string, []view.Diagram, map[string]bool, error) {
	body := stripFrontMatter(markdown)

	protected, formulas := protect(body, p.maxInline)
	converted, err := p.markdown.Convert(protected)
	if err != nil {
		return "", nil, nil, err
	}
	restored := formulas.restore(converted)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(restored))
	if err != nil {
		return "", nil, nil, fmt.Errorf("parsing rendered html: %w", err)
	}
	ids := Reconcile(doc, headings)
	diagrams := Diagrams(doc)

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, nil, fmt.Errorf("serializing rendered html: %w", err)
	}
	return out, diagrams, ids, nil
}

// LoadHeadings fetches path through the cache and returns its headings.
// Any failure yields an empty list.
func (p *Pipeline) LoadHeadings(ctx context.Context, path string) []Heading {
	text, err := p.fetcher.Fetch(ctx, path)
	if err != nil {
		p.logger.Warn("loading headings failed", "path", path, "error", err)
		return nil
	}
	return ParseHeadings(stripFrontMatter(text))
}

func stripFrontMatter(markdown string) string {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader([]byte(markdown)), &meta)
	if err != nil {
		return markdown
	}
	return string(body)
}
