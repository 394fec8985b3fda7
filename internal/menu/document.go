// Package menu builds the two-level navigation tree (sections and their
// files) from the menu configuration document and renders it as HTML.
package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/ziadkadry99/docview/internal/fetch"
)

// DefaultDocument is the path of the menu configuration document relative
// to the source.
const DefaultDocument = "menu-config.json"

// SectionConfig describes one top-level section.
type SectionConfig struct {
	Title string `json:"title"`
	Order *int   `json:"order,omitempty"`
}

// Document is the menu configuration: section metadata, display titles
// keyed by file key, and per-section file ordering keyed by file key.
type Document struct {
	MenuConfig   map[string]SectionConfig  `json:"menuConfig"`
	FileTitleMap map[string]string         `json:"fileTitleMap"`
	FileOrder    map[string]map[string]int `json:"fileOrder"`
}

// EmptyDocument returns a document with no sections.
func EmptyDocument() *Document {
	return &Document{
		MenuConfig:   map[string]SectionConfig{},
		FileTitleMap: map[string]string{},
		FileOrder:    map[string]map[string]int{},
	}
}

// Version fingerprints the document. Trees built from documents with the
// same content carry the same version.
func (d *Document) Version() string {
	data, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// ParseDocument decodes a menu configuration document. Missing top-level
// fields decode as empty maps.
func ParseDocument(data []byte) (*Document, error) {
	doc := EmptyDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing menu configuration: %w", err)
	}
	if doc.MenuConfig == nil {
		doc.MenuConfig = map[string]SectionConfig{}
	}
	if doc.FileTitleMap == nil {
		doc.FileTitleMap = map[string]string{}
	}
	if doc.FileOrder == nil {
		doc.FileOrder = map[string]map[string]int{}
	}
	return doc, nil
}

// LoadDocument fetches and parses the document at path. Any failure is
// logged and yields an empty document so the viewer still starts.
func LoadDocument(ctx context.Context, f fetch.Fetcher, path string, logger *slog.Logger) *Document {
	if path == "" {
		path = DefaultDocument
	}
	text, err := f.Fetch(ctx, path)
	if err != nil {
		logger.Warn("loading menu configuration failed", "path", path, "error", err)
		return EmptyDocument()
	}
	doc, err := ParseDocument([]byte(text))
	if err != nil {
		logger.Warn("loading menu configuration failed", "path", path, "error", err)
		return EmptyDocument()
	}
	logger.Debug("menu configuration loaded", "path", path, "sections", len(doc.MenuConfig))
	return doc
}
