// Package catalog models capability catalogs: the OpenAPI-style documents in
// which every plugin describes the HTTP operations it exposes.
//
// A plugin provides its catalog through a Source, which is either an
// Immediate document or a Deferred loader that is resolved once while the
// aggregator loads. Merge combines the catalogs of all loaded plugins into
// one document whose paths are prefixed with /mcp/<name>.
package catalog
