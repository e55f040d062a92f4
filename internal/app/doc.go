// Package app bootstraps and runs the long-lived mcphub processes.
//
// NewApplication configures logging, loads the configuration document and
// builds the services for the selected mode. Two modes exist:
//
//   - ModeAggregator serves the embedded plugins and the external servers of
//     the configuration behind one HTTP listener (mcphub serve).
//   - ModeHub connects a client session to every enabled server and serves
//     all of their tools as one MCP server over SSE (mcphub hub).
//
// Run blocks until the context ends or SIGINT/SIGTERM arrives, then tears
// everything down: spawned children are stopped and sessions are closed.
// With WatchConfig set, changes to the configuration file are reported but
// never applied to the running process.
package app
