package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mcphub/internal/client"
	"mcphub/internal/config"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConnector struct {
	mu        sync.Mutex
	server    string
	connected bool
	callErr   error
	calls     []string
}

func (s *stubConnector) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *stubConnector) Initialize(ctx context.Context) error { return nil }

func (s *stubConnector) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return []mcp.Tool{
		mcp.NewTool("greet", mcp.WithDescription("Greets someone"), mcp.WithString("who")),
	}, nil
}

func (s *stubConnector) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
	if s.callErr != nil {
		return nil, s.callErr
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s greets %v", s.server, args["who"])), nil
}

func (s *stubConnector) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

func (s *stubConnector) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func newTestClient(stubs map[string]*stubConnector, names ...string) *client.MCPClient {
	c := client.New(config.Default()).WithFactory(func(spec config.MCPServer) (client.Connector, error) {
		stub, ok := stubs[spec.Name]
		if !ok {
			return nil, errors.New("no stub for " + spec.Name)
		}
		return stub, nil
	})
	for _, name := range names {
		c.AddServer(name, config.MCPServer{URL: "http://" + name + ".example.com"})
	}
	return c
}

func TestToolName(t *testing.T) {
	assert.Equal(t, "weather/get_weather", ToolName("weather", "get_weather"))
}

func TestRegister(t *testing.T) {
	stubs := map[string]*stubConnector{
		"alpha": {server: "alpha"},
		"beta":  {server: "beta"},
	}
	h := New(newTestClient(stubs, "alpha", "missing", "beta"))

	s, err := h.Register(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, []string{"alpha/greet", "beta/greet"}, h.Tools())

	again, err := h.Register(context.Background())
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestHub_ServesToolsOverSSE(t *testing.T) {
	stubs := map[string]*stubConnector{
		"alpha": {server: "alpha"},
		"beta":  {server: "beta", callErr: errors.New("backend down")},
	}
	h := New(newTestClient(stubs, "alpha", "beta"))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	require.NoError(t, h.Start(ctx, "127.0.0.1:0"))
	require.Error(t, h.Start(ctx, "127.0.0.1:0"))

	c := client.NewRemoteConnector(config.MCPServer{
		Name:      "hub",
		URL:       "http://" + h.Addr(),
		Transport: config.TransportSSE,
	})
	require.NoError(t, c.Connect(ctx))

	tools, err := c.ListTools(ctx)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"alpha/greet", "beta/greet"}, names)

	result, err := c.CallTool(ctx, "alpha/greet", map[string]any{"who": "bob"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "alpha greets bob", client.ResultText(result))
	assert.Equal(t, []string{"greet"}, stubs["alpha"].calls)

	result, err = c.CallTool(ctx, "beta/greet", map[string]any{"who": "bob"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, client.ResultText(result), "backend down")

	require.NoError(t, c.Cleanup(ctx))
	require.NoError(t, h.Stop(ctx))

	assert.False(t, stubs["alpha"].Connected())
	assert.False(t, stubs["beta"].Connected())
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("serve loop did not end")
	}
}

func TestStart_BindFailure(t *testing.T) {
	h := New(newTestClient(nil))
	err := h.Start(context.Background(), "256.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
