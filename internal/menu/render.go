package menu

import (
	"fmt"
	"html"
	"strings"
)

// RenderMainMenu renders the section list as <li> items for #main-menu.
// The section whose key is active carries the "active" class.
func RenderMainMenu(t *Tree, active string) string {
	var b strings.Builder
	for _, s := range t.Sections {
		activeClass := ""
		if s.Key == active {
			activeClass = ` class="active"`
		}
		fmt.Fprintf(&b, `<li data-menu="%s"%s>%s</li>`+"\n",
			html.EscapeString(s.Key), activeClass, html.EscapeString(s.Title))
	}
	return b.String()
}

// SubMenuState is what the sub-menu rendering depends on besides the
// section itself.
type SubMenuState struct {
	Expansion     Expansion
	ActiveEntry   string
	ActiveHeading string
}

// RenderSubMenu renders the entries of s for #sub-menu. Every entry gets a
// header; only the expanded entry shows its heading list.
func RenderSubMenu(s *Section, st SubMenuState) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for _, e := range s.Entries {
		expanded := st.Expansion.IsExpanded(e.ID)

		classes := []string{"menu-header"}
		icon, display := "▶", "none"
		if expanded {
			classes = append(classes, "expanded")
			icon, display = "▼", "block"
		}
		if e.ID == st.ActiveEntry && st.ActiveHeading == "" {
			classes = append(classes, "active")
		}

		id, file := html.EscapeString(e.ID), html.EscapeString(e.FilePath)
		b.WriteString(`<div class="menu-item">` + "\n")
		fmt.Fprintf(&b, `<div class="%s" data-id="%s" data-file="%s"><span class="toggle-icon">%s</span><span class="menu-title">%s</span></div>`+"\n",
			strings.Join(classes, " "), id, file, icon, html.EscapeString(e.Title))
		fmt.Fprintf(&b, `<ul class="sub-items" style="display: %s">`+"\n", display)
		for _, h := range e.Headings {
			activeClass := ""
			if e.ID == st.ActiveEntry && h.ID == st.ActiveHeading {
				activeClass = ` class="active"`
			}
			fmt.Fprintf(&b, `<li data-id="%s" data-file="%s" data-heading="%s"%s>%s</li>`+"\n",
				id, file, html.EscapeString(h.ID), activeClass, html.EscapeString(h.Title))
		}
		b.WriteString("</ul>\n</div>\n")
	}
	return b.String()
}
