package content

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxInlineFormula bounds how many bytes an inline formula may span.
// A longer span is abandoned and kept as plain text.
const DefaultMaxInlineFormula = 4096

const (
	blockPrefix       = "MATHBLOCK"
	inlinePrefix      = "MATHINLINE"
	placeholderSuffix = "PLACEHOLDER"
)

var blockMath = regexp.MustCompile(`(?s)\$\$.*?\$\$`)

// formula is one protected math span.
type formula struct {
	placeholder string
	original    string
}

// formulas records the placeholder mapping of a single render.
type formulas struct {
	list []formula
}

func (f *formulas) add(prefix, original string) string {
	p := fmt.Sprintf("%s%d%s", prefix, len(f.list), placeholderSuffix)
	f.list = append(f.list, formula{placeholder: p, original: original})
	return p
}

// protect replaces block and inline math with placeholders so the Markdown
// converter cannot reinterpret formula syntax.
func protect(markdown string, maxInline int) (string, *formulas) {
	f := &formulas{}
	out := blockMath.ReplaceAllStringFunc(markdown, func(m string) string {
		return f.add(blockPrefix, m)
	})
	return protectInline(out, f, maxInline), f
}

// protectInline scans for $...$ spans. Braces nest: a "$" inside braces is
// part of the formula. Escaped \{ \} \$ never change state. Block
// placeholders pass through untouched. A span longer than maxInline is
// abandoned and the rest of its line is kept as text, so its closing "$"
// does not open a new span.
func protectInline(s string, f *formulas, maxInline int) string {
	if maxInline <= 0 {
		maxInline = DefaultMaxInlineFormula
	}

	var (
		out     strings.Builder
		current strings.Builder
		inside  bool
		skip    bool
		depth   int
	)
	emit := func(text string) {
		if inside {
			current.WriteString(text)
		} else {
			out.WriteString(text)
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]

		if c == 'M' && strings.HasPrefix(s[i:], blockPrefix) {
			if end := strings.Index(s[i:], placeholderSuffix); end != -1 {
				end += i + len(placeholderSuffix)
				emit(s[i:end])
				i = end - 1
				continue
			}
		}

		if c == '\\' && i+1 < len(s) && (s[i+1] == '{' || s[i+1] == '}' || s[i+1] == '$') {
			emit(s[i : i+2])
			i++
			continue
		}

		switch {
		case skip:
			out.WriteByte(c)
			if c == '\n' {
				skip = false
			}
		case c == '$' && !inside:
			inside = true
			depth = 0
			current.Reset()
			current.WriteByte(c)
		case c == '$' && depth == 0:
			current.WriteByte(c)
			out.WriteString(f.add(inlinePrefix, current.String()))
			inside = false
			current.Reset()
		case inside:
			current.WriteByte(c)
			if c == '{' {
				depth++
			} else if c == '}' {
				depth--
			}
			if current.Len() > maxInline {
				out.WriteString(current.String())
				inside = false
				skip = c != '\n'
				current.Reset()
			}
		default:
			out.WriteByte(c)
		}
	}

	if inside {
		out.WriteString(current.String())
	}
	return out.String()
}

// restore substitutes each placeholder in rendered HTML with its escaped
// original. Later placeholders are restored first so a block placeholder
// captured inside an inline span is still resolved.
func (f *formulas) restore(rendered string) string {
	for i := len(f.list) - 1; i >= 0; i-- {
		p := f.list[i]
		rendered = strings.ReplaceAll(rendered, p.placeholder, escapeFormula(p.original))
	}
	return rendered
}

// escapeFormula escapes & < > " ' so formula text survives as text until the
// math renderer reads it.
func escapeFormula(s string) string {
	return formulaEscaper.Replace(s)
}

var formulaEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)
