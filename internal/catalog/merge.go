package catalog

import (
	"strings"
)

// Entry pairs a plugin name with its resolved catalog.
type Entry struct {
	Name    string
	Catalog Document
}

// NamespacePath returns the aggregator path of subpath in plugin name's
// namespace.
func NamespacePath(name, subpath string) string {
	if subpath != "" && !strings.HasPrefix(subpath, "/") {
		subpath = "/" + subpath
	}
	return "/mcp/" + name + subpath
}

// Merge builds the combined catalog: every path of every entry, re-keyed
// under /mcp/<name>. Path items are shared with the entries, not copied.
func Merge(title, version string, entries []Entry) Document {
	combined := New(title, version)
	paths := combined.Paths()

	for _, entry := range entries {
		for subpath, item := range entry.Catalog.Paths() {
			paths[NamespacePath(entry.Name, subpath)] = item
		}
	}
	return combined
}
