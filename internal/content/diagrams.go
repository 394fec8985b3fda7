package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/docview/internal/view"
)

var mermaidKeywords = []string{
	"graph", "flowchart", "sequenceDiagram", "classDiagram", "stateDiagram",
	"erDiagram", "gantt", "pie", "journey", "gitGraph", "mindmap", "timeline",
}

// Diagrams tags each Mermaid code block in doc with a data-diagram
// attribute on its <pre> and returns the blocks in document order. Blocks
// labelled mermaid that do not start with a diagram keyword stay code.
func Diagrams(doc *goquery.Document) []view.Diagram {
	var out []view.Diagram
	doc.Find("code.language-mermaid").Each(func(_ int, code *goquery.Selection) {
		src := strings.TrimSpace(code.Text())
		if !isMermaid(src) {
			return
		}
		pre := code.Parent()
		if goquery.NodeName(pre) != "pre" {
			return
		}
		id := fmt.Sprintf("d%d", len(out))
		pre.SetAttr("data-diagram", id)
		out = append(out, view.Diagram{ID: id, Source: src})
	})
	return out
}

func isMermaid(src string) bool {
	for _, kw := range mermaidKeywords {
		if strings.HasPrefix(src, kw) {
			return true
		}
	}
	return false
}
