// Package hub serves the tools of every configured MCP server as one MCP
// server.
//
// On start the hub opens a client session per enabled entry of the
// mcpServers mapping, lists each server's tools and registers them on a
// single mcp-go server under the name "<server>/<tool>". Tool calls are
// forwarded to the session that owns the tool. The combined server is
// exposed over SSE:
//
//	GET  /mcp       event stream
//	POST /messages  JSON-RPC messages for a stream's session
//
// Servers that cannot be reached are logged and left out; the hub starts
// with whatever tools it could collect.
package hub
