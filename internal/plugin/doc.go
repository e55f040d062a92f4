// Package plugin defines embedded plugins and the namespaced router they
// register their routes on.
//
// A plugin is a Descriptor: a unique name, a catalog.Source describing its
// operations, and a Register hook. The aggregator mounts every plugin under
// /mcp/<name>; Serve runs a single plugin on its own, with its routes at the
// root, so it can be spawned like any external server.
package plugin
