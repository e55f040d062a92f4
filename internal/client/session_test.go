package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mcphub/internal/config"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleConfig = map[string]any{
	"mcpServers": map[string]any{
		"local": map[string]any{
			"command":  "node",
			"args":     []any{"server.js"},
			"url":      "http://127.0.0.1:9000",
			"disabled": true,
		},
		"remote": map[string]any{
			"url":      "http://example.com",
			"disabled": true,
		},
	},
}

// fakeConnector records calls instead of talking to a server.
type fakeConnector struct {
	mu         sync.Mutex
	name       string
	connectErr error
	connected  bool
	inits      int
	cleanups   int
}

func (f *fakeConnector) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeConnector) Initialize(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return nil
}

func (f *fakeConnector) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return []mcp.Tool{mcp.NewTool(f.name + "_tool")}, nil
}

func (f *fakeConnector) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(name), nil
}

func (f *fakeConnector) Cleanup(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanups++
	f.connected = false
	return nil
}

func (f *fakeConnector) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func fakeFactory(created map[string]*fakeConnector, failing ...string) ConnectorFactory {
	return func(spec config.MCPServer) (Connector, error) {
		fc := &fakeConnector{name: spec.Name}
		for _, name := range failing {
			if name == spec.Name {
				fc.connectErr = errors.New("connection refused")
			}
		}
		created[spec.Name] = fc
		return fc, nil
	}
}

func TestCreateAllSessions_AllDisabled(t *testing.T) {
	c, err := FromDict(sampleConfig)
	require.NoError(t, err)

	sessions, err := c.CreateAllSessions(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Empty(t, c.ActiveSessions())
}

func TestCreateSession_NotFound(t *testing.T) {
	c, err := FromDict(sampleConfig)
	require.NoError(t, err)

	_, err = c.CreateSession(context.Background(), "nope", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerNotFound)
}

func TestCreateAllSessions(t *testing.T) {
	created := map[string]*fakeConnector{}
	c := New(config.Default()).WithFactory(fakeFactory(created, "broken"))
	c.AddServer("b", config.MCPServer{URL: "http://b.example.com"})
	c.AddServer("a", config.MCPServer{URL: "http://a.example.com"})
	c.AddServer("off", config.MCPServer{URL: "http://off.example.com", Disabled: true})
	c.AddServer("broken", config.MCPServer{URL: "http://broken.example.com"})

	sessions, err := c.CreateAllSessions(context.Background(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	assert.Len(t, sessions, 2)
	assert.Equal(t, []string{"b", "a"}, c.ActiveSessions())
	assert.NotContains(t, created, "off")
	assert.Equal(t, 1, created["a"].inits)

	s, ok := c.GetSession("a")
	require.True(t, ok)
	assert.True(t, s.Connected())

	// A connected session is reused.
	again, err := c.CreateSession(context.Background(), "a", false)
	require.NoError(t, err)
	assert.Same(t, s, again)

	require.NoError(t, c.CloseAllSessions(context.Background()))
	assert.Empty(t, c.ActiveSessions())
	assert.Equal(t, 1, created["a"].cleanups)
	assert.Equal(t, 1, created["b"].cleanups)
	_, ok = c.GetSession("a")
	assert.False(t, ok)
}

func TestCreateSession_NoAutoInit(t *testing.T) {
	created := map[string]*fakeConnector{}
	c := New(config.Default()).WithFactory(fakeFactory(created))
	c.AddServer("x", config.MCPServer{URL: "http://x.example.com"})

	_, err := c.CreateSession(context.Background(), "x", false)
	require.NoError(t, err)
	assert.Zero(t, created["x"].inits)
}

func TestCloseSession_Unknown(t *testing.T) {
	c := New(config.Default())
	err := c.CloseSession(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrServerNotFound)
}

func TestFromDict_Invalid(t *testing.T) {
	_, err := FromDict(map[string]any{"mcpServers": []any{"a"}})
	assert.Error(t, err)
}
