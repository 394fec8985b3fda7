package content

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/docview/internal/slug"
)

// Heading is a section anchor of a content file.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	ID    string `json:"id"`
}

var (
	headingLine = regexp.MustCompile(`^##\s+(.+)$`)
	punctuation = regexp.MustCompile(`[^\w\s\x{4e00}-\x{9fa5}]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// ParseHeadings returns every "## " heading of a Markdown document, in
// order. Only level 2 is listed; deeper headings never reach the menu.
func ParseHeadings(markdown string) []Heading {
	var headings []Heading
	sc := bufio.NewScanner(strings.NewReader(markdown))
	sc.Buffer(make([]byte, 0, 64*1024), len(markdown)+1)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		m := headingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		headings = append(headings, Heading{
			Level: 2,
			Title: title,
			ID:    slug.Generate(title),
		})
	}
	return headings
}

// headingKeys returns the lookup keys of a heading title, most exact first:
// lower-cased, without punctuation, without whitespace, without both.
func headingKeys(title string) [4]string {
	lower := strings.ToLower(strings.TrimSpace(title))
	noPunct := punctuation.ReplaceAllString(lower, "")
	return [4]string{
		lower,
		noPunct,
		whitespace.ReplaceAllString(lower, ""),
		whitespace.ReplaceAllString(noPunct, ""),
	}
}

// Reconcile assigns an id to every h2 and h3 in doc. A rendered heading
// takes the id of the expected heading whose key matches, trying the keys
// in priority order; otherwise a fresh id is generated from its text. All
// keys share one index and a later expected heading replaces an earlier
// one with the same key. Empty headings get no id. It returns the set of
// ids now present.
func Reconcile(doc *goquery.Document, expected []Heading) map[string]bool {
	index := make(map[string]string)
	for _, h := range expected {
		for _, k := range headingKeys(h.Title) {
			if k != "" {
				index[k] = h.ID
			}
		}
	}

	ids := make(map[string]bool)
	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(strings.ReplaceAll(s.Text(), "\n", " "))
		if text == "" {
			return
		}
		id := ""
		for _, k := range headingKeys(text) {
			if v, ok := index[k]; ok {
				id = v
				break
			}
		}
		if id == "" {
			id = slug.Generate(text)
		}
		s.SetAttr("id", id)
		ids[id] = true
	})
	return ids
}
