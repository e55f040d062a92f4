// Package client connects to MCP tool servers and calls their tools.
//
// A Connector is one connection to one server. NewConnectorFromConfig picks
// the variant from the server's configuration:
//
//   - LocalProcessConnector spawns the command with PORT set, waits for
//     GET /openapi.json to answer and then opens an MCP session at <url>/mcp.
//   - StdioConnector spawns the command and speaks MCP over its stdin and
//     stdout (transport: stdio).
//   - RemoteConnector opens an MCP session at <url>/mcp of a server that is
//     already running, optionally sending a bearer token.
//
// Every connector caches the tool list after Initialize; ListTools
// initializes lazily. MCPClient manages one session per configured server.
package client
