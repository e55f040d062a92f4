package aggregator

import (
	"encoding/json"
	"errors"
	"fmt"

	"mcphub/internal/catalog"
)

var errNotLoaded = errors.New("plugins are still loading")

// CombinedCatalog returns the merged catalog of every loaded plugin,
// encoded as JSON. It is computed on first use and the same bytes are
// returned from then on; concurrent first callers share one computation.
func (a *Aggregator) CombinedCatalog() ([]byte, error) {
	return a.cached("catalog", &a.catalog, func() (any, error) {
		loaded := a.Loaded()
		entries := make([]catalog.Entry, 0, len(loaded))
		for _, spec := range loaded {
			entries = append(entries, catalog.Entry{Name: spec.Name, Catalog: spec.Catalog})
		}
		return catalog.Merge("mcphub", a.opts.Version, entries), nil
	})
}

// NameList returns Names encoded as a JSON array, computed once.
func (a *Aggregator) NameList() ([]byte, error) {
	return a.cached("names", &a.nameList, func() (any, error) {
		return a.Names(), nil
	})
}

func (a *Aggregator) cached(key string, slot *[]byte, build func() (any, error)) ([]byte, error) {
	a.cacheMu.RLock()
	data := *slot
	a.cacheMu.RUnlock()
	if data != nil {
		return data, nil
	}

	v, err, _ := a.gate.Do(key, func() (any, error) {
		a.cacheMu.RLock()
		data := *slot
		a.cacheMu.RUnlock()
		if data != nil {
			return data, nil
		}

		if !a.isLoaded() {
			return nil, errNotLoaded
		}
		value, err := build()
		if err != nil {
			return nil, err
		}
		data, err = json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}

		a.cacheMu.Lock()
		*slot = data
		a.cacheMu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
