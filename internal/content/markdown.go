package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DefaultHighlightStyle is the chroma style used for fenced code.
const DefaultHighlightStyle = "github"

// Markdown converts Markdown to HTML: GitHub-flavored, line breaks are
// significant, raw HTML is passed through.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds a converter that highlights fenced code with the given
// chroma style.
func NewMarkdown(style string) *Markdown {
	if style == "" {
		style = DefaultHighlightStyle
	}
	code := newCodeRenderer(highlighting.NewHTMLRenderer(
		highlighting.WithStyle(style),
	))

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(code, 200)),
		),
	)
	return &Markdown{md: md}
}

// Convert renders src to an HTML fragment.
func (m *Markdown) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// codeRenderer renders fenced code through the highlighter, except Mermaid
// blocks, which must stay as plain <pre><code class="language-mermaid"> so
// the diagram step can find their source.
type codeRenderer struct {
	highlight renderer.NodeRendererFunc
}

func newCodeRenderer(inner renderer.NodeRenderer) *codeRenderer {
	c := &codeRenderer{}
	inner.RegisterFuncs(captureFunc{kind: ast.KindFencedCodeBlock, dst: &c.highlight})
	return c
}

func (c *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, c.renderFencedCodeBlock)
}

func (c *codeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if string(n.Language(source)) != "mermaid" && c.highlight != nil {
		return c.highlight(w, source, node, entering)
	}
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<pre><code")
	if lang := n.Language(source); lang != nil {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML(lang))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	return ast.WalkContinue, nil
}

// captureFunc records the render function another NodeRenderer registers
// for one node kind.
type captureFunc struct {
	kind ast.NodeKind
	dst  *renderer.NodeRendererFunc
}

func (c captureFunc) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if kind == c.kind {
		*c.dst = fn
	}
}
