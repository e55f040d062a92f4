package client

import (
	"context"
	"fmt"
	"sort"

	"mcphub/internal/config"
	"mcphub/pkg/logging"

	mcpclient "github.com/mark3labs/mcp-go/client"
)

// StdioConnector runs the server as a child process and speaks MCP over its
// standard input and output.
type StdioConnector struct {
	baseConnector
	command string
	args    []string
	env     map[string]string
}

// NewStdioConnector creates a connector for spec.Command.
func NewStdioConnector(spec config.MCPServer) *StdioConnector {
	return &StdioConnector{
		baseConnector: baseConnector{name: spec.Name},
		command:       spec.Command,
		args:          spec.Args,
		env:           spec.Env,
	}
}

func (c *StdioConnector) Connect(ctx context.Context) error {
	if c.Connected() {
		return nil
	}

	// The child inherits the process environment; these entries are added.
	keys := make([]string, 0, len(c.env))
	for k := range c.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, c.env[k]))
	}

	logging.Debug("Client", "Starting stdio server %s: %s %v", c.name, c.command, c.args)
	session, err := mcpclient.NewStdioMCPClient(c.command, env, c.args...)
	if err != nil {
		return fmt.Errorf("failed to start stdio server %s: %w", c.name, err)
	}
	return c.attach(ctx, session)
}

// Cleanup closes the session, which also ends the child process.
func (c *StdioConnector) Cleanup(ctx context.Context) error {
	return c.closeSession()
}
