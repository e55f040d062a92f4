package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// OpenAPIVersion is the version written into generated and combined catalogs.
const OpenAPIVersion = "3.0.1"

// ErrNoPaths is returned by Parse when a document has no paths mapping.
var ErrNoPaths = errors.New("catalog has no paths mapping")

// Document is a decoded JSON capability catalog. The only key mcphub relies
// on is "paths", a mapping from route path to OpenAPI path item.
type Document map[string]any

// New returns an empty catalog with the given title and version.
func New(title, version string) Document {
	return Document{
		"openapi": OpenAPIVersion,
		"info": map[string]any{
			"title":   title,
			"version": version,
		},
		"paths": map[string]any{},
	}
}

// Parse decodes data and checks that it carries a paths mapping.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if doc == nil {
		return nil, ErrNoPaths
	}
	if _, ok := doc["paths"].(map[string]any); !ok {
		return nil, ErrNoPaths
	}
	return doc, nil
}

// Paths returns the paths mapping, or nil if the document has none.
func (d Document) Paths() map[string]any {
	paths, _ := d["paths"].(map[string]any)
	return paths
}

// Title returns info.title, or an empty string.
func (d Document) Title() string {
	info, _ := d["info"].(map[string]any)
	title, _ := info["title"].(string)
	return title
}
