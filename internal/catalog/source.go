package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Loader produces a catalog on demand, for instance by asking a running
// server for its self-description.
type Loader func(ctx context.Context) (Document, error)

// Source is where a plugin's catalog comes from: a document known up front or
// a loader that has to be awaited. The zero Source resolves to an error.
type Source struct {
	doc    Document
	loader Loader
}

// Immediate returns a Source that resolves to doc.
func Immediate(doc Document) Source {
	return Source{doc: doc}
}

// Deferred returns a Source that calls load when resolved.
func Deferred(load Loader) Source {
	return Source{loader: load}
}

// IsDeferred reports whether resolving s runs a loader.
func (s Source) IsDeferred() bool {
	return s.loader != nil
}

// IsZero reports whether s was never set.
func (s Source) IsZero() bool {
	return s.doc == nil && s.loader == nil
}

// Resolve returns the catalog. Deferred sources run their loader every time
// they are resolved; callers cache the result.
func (s Source) Resolve(ctx context.Context) (Document, error) {
	switch {
	case s.loader != nil:
		doc, err := s.loader(ctx)
		if err != nil {
			return nil, fmt.Errorf("deferred catalog: %w", err)
		}
		if doc.Paths() == nil {
			return nil, ErrNoPaths
		}
		return doc, nil
	case s.doc != nil:
		if s.doc.Paths() == nil {
			return nil, ErrNoPaths
		}
		return s.doc, nil
	default:
		return nil, errors.New("catalog source is empty")
	}
}
