// Package fetch retrieves raw documents (Markdown files and the menu
// configuration) from the content source.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 10 * time.Second

// ErrNotFound reports that the source has no document at the path.
var ErrNotFound = errors.New("document not found")

// Fetcher retrieves the text of a document by its source-relative path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// StatusError is returned for a non-success HTTP response.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Code, e.Path)
}

// Is makes every non-success status match ErrNotFound: the viewer treats any
// such response as content that is not there yet.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound
}

// Ensure implementations satisfy Fetcher at compile time.
var (
	_ Fetcher = (*HTTP)(nil)
	_ Fetcher = (*Dir)(nil)
)

// HTTP fetches documents relative to a base URL.
type HTTP struct {
	base    *url.URL
	client  *http.Client
	timeout time.Duration
}

// Option configures an HTTP fetcher.
type Option func(*HTTP)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTP) {
		f.timeout = d
	}
}

// WithClient replaces the underlying http.Client.
func WithClient(c *http.Client) Option {
	return func(f *HTTP) {
		f.client = c
	}
}

// NewHTTP creates a fetcher for the given base URL.
func NewHTTP(baseURL string, opts ...Option) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	f := &HTTP{base: u, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f, nil
}

// Fetch retrieves the document at path relative to the base URL.
func (f *HTTP) Fetch(ctx context.Context, p string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(p, "/"))
	if err != nil {
		return "", fmt.Errorf("parsing path %q: %w", p, err)
	}
	target := f.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Path: p}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	return string(body), nil
}

// Dir fetches documents from a file system, typically os.DirFS(root).
type Dir struct {
	fsys fs.FS
}

// NewDir creates a fetcher over fsys.
func NewDir(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// Fetch reads the file at path.
func (d *Dir) Fetch(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := path.Clean(strings.TrimPrefix(p, "/"))
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("invalid path %q: %w", p, ErrNotFound)
	}
	data, err := fs.ReadFile(d.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	return string(data), nil
}

// IsURL reports whether source names an HTTP(S) location rather than a
// directory.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
