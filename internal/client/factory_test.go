package client

import (
	"testing"

	"mcphub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectorFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		spec     config.MCPServer
		wantType any
		wantErr  bool
	}{
		{
			name:     "command and args",
			spec:     config.MCPServer{Name: "local", Command: "node", Args: []string{"server.js"}},
			wantType: &LocalProcessConnector{},
		},
		{
			name:     "command with url",
			spec:     config.MCPServer{Name: "local", Command: "node", URL: "http://127.0.0.1:9000"},
			wantType: &LocalProcessConnector{},
		},
		{
			name:     "stdio transport",
			spec:     config.MCPServer{Name: "stdio", Command: "node", Transport: config.TransportStdio},
			wantType: &StdioConnector{},
		},
		{
			name:     "url only",
			spec:     config.MCPServer{Name: "remote", URL: "http://example.com"},
			wantType: &RemoteConnector{},
		},
		{
			name:    "neither",
			spec:    config.MCPServer{Name: "empty"},
			wantErr: true,
		},
		{
			name:    "relative url",
			spec:    config.MCPServer{Name: "relative", URL: "localhost:9000"},
			wantErr: true,
		},
		{
			name:    "name with pattern syntax",
			spec:    config.MCPServer{Name: "{x}", URL: "http://example.com"},
			wantErr: true,
		},
		{
			name:    "stdio without command",
			spec:    config.MCPServer{Name: "broken", URL: "http://example.com", Transport: config.TransportStdio},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector, err := NewConnectorFromConfig(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, connector)
			assert.False(t, connector.Connected())
		})
	}
}

func TestRemoteConnector_Headers(t *testing.T) {
	c := NewRemoteConnector(config.MCPServer{
		Name:      "remote",
		URL:       "http://example.com/",
		Headers:   map[string]string{"X-Team": "tools"},
		AuthToken: "abc",
	})

	assert.Equal(t, "http://example.com/mcp", c.Endpoint())
	assert.Equal(t, map[string]string{"X-Team": "tools", "Authorization": "Bearer abc"}, c.headers)
}
