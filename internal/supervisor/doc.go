// Package supervisor starts external tool servers and decides when they can
// be used.
//
// SpawnAndWait launches a configured command in its own process group with
// PORT injected into its environment, then polls GET <baseURL>/openapi.json
// until the server answers with a 2xx or the ready timeout expires. A server
// without a command is assumed to be hosted elsewhere and is probed exactly
// once instead. Children that never become ready are terminated; StopAll
// terminates every child that is still running.
package supervisor
