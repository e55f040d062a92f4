// Package config loads the mcphub configuration document.
//
// The document is JSON or YAML. Its central part is the mcpServers mapping,
// which names every external tool server:
//
//	{
//	  "aggregator": {"port": 8090, "spawnPortBase": 9100, "readyTimeout": "10s"},
//	  "mcpServers": {
//	    "workspace": {"command": "workspace-mcp", "args": ["--port", "4010"], "url": "http://localhost:4010"},
//	    "search":    {"url": "https://search.example.com", "auth_token": "secret"}
//	  }
//	}
//
// An entry with a command is spawned and supervised by the aggregator; an
// entry with only a url is treated as hosted elsewhere and is only proxied.
// Entries are kept in document order, which the aggregator relies on for
// deterministic port assignment and log output.
//
// Configuration is read once at start-up. Watch only reports that the file
// changed; it never reloads.
package config
