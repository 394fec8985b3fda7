package site

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ziadkadry99/docview/internal/fetch"
	"github.com/ziadkadry99/docview/internal/menu"
	"github.com/ziadkadry99/docview/internal/view"
	"github.com/ziadkadry99/docview/internal/walker"
)

// Search result limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title string
}

func (s *Site) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, pageData{Title: s.title}); err != nil {
		s.logger.Warn("rendering page failed", "error", err)
	}
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}

func (s *Site) handleMenu(w http.ResponseWriter, r *http.Request) {
	tree := s.menuBuilder(r.Context()).GenerateMenuData(r.Context())
	writeJSON(w, http.StatusOK, tree)
}

// searchResponse is the JSON response for the /api/search endpoint.
type searchResponse struct {
	Query   string        `json:"query"`
	Results []menu.Result `json:"results"`
}

func (s *Site) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	limit := DefaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, MaxSearchLimit)
	}

	tree := s.menuBuilder(r.Context()).GenerateMenuData(r.Context())
	results := menu.Search(tree, query, limit)
	if results == nil {
		results = []menu.Result{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

// handleRender returns the rendered HTML fragment of one content file,
// diagrams replaced by Mermaid containers. The ETag is the xxhash of the
// fragment.
func (s *Site) handleRender(w http.ResponseWriter, r *http.Request) {
	p, ok := s.contentPath(r.URL.Query().Get("path"))
	if !ok {
		writeError(w, http.StatusBadRequest, "path must name a Markdown file under "+s.contentDir)
		return
	}

	ctx := r.Context()
	if _, err := s.cached.Fetch(ctx, p); err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found: "+p)
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	buf := view.NewBuffer()
	s.pipeline.Load(ctx, buf, p, s.pipeline.LoadHeadings(ctx, p), r.URL.Query().Get("heading"))
	body := buf.HTML(view.ContentArea)

	etag := `"` + strconv.FormatUint(xxhash.Sum64String(body), 16) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

// contentPath cleans p and reports whether it names a Markdown file inside
// the content root.
func (s *Site) contentPath(p string) (string, bool) {
	p = path.Clean(strings.TrimPrefix(p, "/"))
	if p == "." || strings.HasPrefix(p, "../") || p == ".." || !walker.IsMarkdown(p) {
		return "", false
	}
	if dir := path.Clean(s.contentDir); dir != "." && !strings.HasPrefix(p, dir+"/") {
		return "", false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
