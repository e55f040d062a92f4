// Package aggregator is the core of mcphub: it loads every plugin, merges
// their catalogs and routes requests to them.
//
// # Loading
//
// Load runs once at start-up. Embedded plugins from the plugins registry are
// mounted first, each under /mcp/<name>, and their catalogs are resolved.
// External servers from the configuration follow, one at a time and in
// configuration order. Every external entry is handed a default port from a
// counter starting at aggregator.spawnPortBase, whether or not it uses it, so
// ports do not depend on which servers fail. Servers with a command are
// spawned through the supervisor; servers with only a url are probed once.
// A server that becomes usable is mounted behind a reverse proxy.
//
// One bad plugin never stops the others: malformed descriptors, failing
// spawns and unreachable hosts are logged and skipped.
//
// # HTTP surface
//
//	GET  /mcp             names of loaded plugins, in load order
//	GET  /openapi.json    combined catalog, paths prefixed with /mcp/<name>
//	GET  /healthz         liveness and plugin count
//	ANY  /mcp/<name>/...  the plugin's own routes or its proxy
//
// The name list and combined catalog are computed on first request and never
// change afterwards.
package aggregator
