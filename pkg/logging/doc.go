// Package logging provides the structured logging used across mcphub.
//
// It is a thin layer over log/slog that tags every record with the subsystem
// that produced it, so aggregator, supervisor and proxy output can be told
// apart in one stream.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Aggregator", "Loaded %d plugins", n)
//	logging.Debug("Proxy", "%s %s -> %s", r.Method, r.URL.Path, target)
//	logging.Warn("Supervisor", "Server %s did not become ready", name)
//	logging.Error("Bootstrap", err, "Failed to bind listener on %s", addr)
//
// For container deployments InitForJSON emits one JSON object per record.
//
// # Subsystems
//
//   - Bootstrap: application start-up and shutdown
//   - Config: configuration loading, validation and file watching
//   - Aggregator: plugin loading, catalog merging, HTTP routing
//   - Supervisor: spawning, readiness polling and teardown of child servers
//   - Process:<name>: stdout/stderr lines of a spawned child
//   - Proxy: request forwarding to external servers
//   - Client, Hub, CLI: client side sessions and commands
//
// Child process output is routed through NewLineWriter, which turns each
// output line into a record under the child's subsystem.
//
// All functions are safe for concurrent use.
package logging
