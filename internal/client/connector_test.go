package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mcphub/internal/aggregator"
	"mcphub/internal/config"
	"mcphub/internal/plugins"
	"mcphub/internal/plugins/echo"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer serves the echo MCP server at /mcp and records what the
// client sent.
type recordingServer struct {
	*httptest.Server
	toolLists atomic.Int32

	mu   sync.Mutex
	auth []string
}

func newRecordingServer(t *testing.T) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	mcpHandler := server.NewStreamableHTTPServer(echo.NewMCPServer())

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.auth = append(rs.auth, r.Header.Get("Authorization"))
		rs.mu.Unlock()

		if r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			if bytes.Contains(body, []byte(`"tools/list"`)) {
				rs.toolLists.Add(1)
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		mcpHandler.ServeHTTP(w, r)
	})

	rs.Server = httptest.NewServer(mux)
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) authHeaders() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.auth...)
}

func toolNames(tools []mcp.Tool) []string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestConnector_NotConnected(t *testing.T) {
	ctx := context.Background()
	c := NewRemoteConnector(config.MCPServer{Name: "remote", URL: "http://127.0.0.1:1"})

	_, err := c.CallTool(ctx, "echo", map[string]any{"msg": "hi"})
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.ErrorIs(t, c.Initialize(ctx), ErrNotConnected)

	_, err = c.ListTools(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.NoError(t, c.Cleanup(ctx))
}

func TestRemoteConnector(t *testing.T) {
	rs := newRecordingServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewRemoteConnector(config.MCPServer{Name: "remote", URL: rs.URL, AuthToken: "s3cret"})
	require.NoError(t, c.Connect(ctx))
	defer c.Cleanup(ctx)
	assert.True(t, c.Connected())

	// Connecting twice is a no-op.
	require.NoError(t, c.Connect(ctx))

	require.NoError(t, c.Initialize(ctx))
	assert.Equal(t, int32(1), rs.toolLists.Load())

	tools, err := c.ListTools(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo"}, toolNames(tools))
	assert.Equal(t, int32(1), rs.toolLists.Load(), "cached tools must not be fetched again")

	result, err := c.CallTool(ctx, "echo", map[string]any{"msg": "hello"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "hello", ResultText(result))

	for _, auth := range rs.authHeaders() {
		assert.Equal(t, "Bearer s3cret", auth)
	}

	require.NoError(t, c.Cleanup(ctx))
	assert.False(t, c.Connected())
	_, err = c.CallTool(ctx, "echo", map[string]any{"msg": "again"})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestRemoteConnector_ListToolsInitializesLazily(t *testing.T) {
	rs := newRecordingServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewRemoteConnector(config.MCPServer{Name: "remote", URL: rs.URL})
	require.NoError(t, c.Connect(ctx))
	defer c.Cleanup(ctx)

	assert.Zero(t, rs.toolLists.Load())
	tools, err := c.ListTools(ctx)
	require.NoError(t, err)
	assert.Len(t, tools, 1)
	assert.Equal(t, int32(1), rs.toolLists.Load())
}

func TestRemoteConnector_SSE(t *testing.T) {
	srv := server.NewTestServer(echo.NewMCPServer(),
		server.WithSSEEndpoint("/mcp"),
		server.WithMessageEndpoint("/messages"),
	)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewRemoteConnector(config.MCPServer{Name: "sse", URL: srv.URL, Transport: config.TransportSSE})
	require.NoError(t, c.Connect(ctx))
	defer c.Cleanup(ctx)

	result, err := c.CallTool(ctx, "echo", map[string]any{"msg": "over sse"})
	require.NoError(t, err)
	assert.Equal(t, "over sse", ResultText(result))
}

func TestRemoteConnector_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := NewRemoteConnector(config.MCPServer{Name: "gone", URL: "http://127.0.0.1:1"})
	require.Error(t, c.Connect(ctx))
	assert.False(t, c.Connected())
}

func TestRemoteConnector_ThroughAggregator(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	agg := aggregator.New(config.Default(), aggregator.Options{Plugins: plugins.Builtin()})
	require.Len(t, agg.Load(ctx), 2)
	srv := httptest.NewServer(agg.Handler())
	defer srv.Close()

	c := NewRemoteConnector(config.MCPServer{Name: "echo", URL: srv.URL + "/mcp/echo"})
	require.NoError(t, c.Connect(ctx))
	defer c.Cleanup(ctx)

	result, err := c.CallTool(ctx, "echo", map[string]any{"msg": "namespaced"})
	require.NoError(t, err)
	assert.Equal(t, "namespaced", ResultText(result))
}

func TestLocalProcessConnector(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a child process")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	c := NewLocalProcessConnector(helperSpec("local", "plugin"))
	c.PollInterval = 50 * time.Millisecond

	require.NoError(t, c.Connect(ctx))
	proc := c.Process()
	require.NotNil(t, proc)

	tools, err := c.ListTools(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo"}, toolNames(tools))

	result, err := c.CallTool(ctx, "echo", map[string]any{"msg": "from child"})
	require.NoError(t, err)
	assert.Equal(t, "from child", ResultText(result))

	require.NoError(t, c.Cleanup(ctx))
	assert.False(t, c.Connected())
	assert.Nil(t, c.Process())
	select {
	case <-proc.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("child process still running after cleanup")
	}
}

func TestLocalProcessConnector_ChildExits(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a child process")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	spec := helperSpec("broken", "exit")
	c := NewLocalProcessConnector(spec)
	c.PollInterval = 50 * time.Millisecond
	c.ReadyTimeout = 5 * time.Second

	err := c.Connect(ctx)
	require.Error(t, err)
	assert.False(t, c.Connected())
	assert.Nil(t, c.Process())
}

func TestStdioConnector(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a child process")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	spec := helperSpec("stdio", "stdio")
	spec.Transport = config.TransportStdio
	c := NewStdioConnector(spec)

	require.NoError(t, c.Connect(ctx))
	defer c.Cleanup(ctx)

	tools, err := c.ListTools(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo"}, toolNames(tools))

	result, err := c.CallTool(ctx, "echo", map[string]any{"msg": "piped"})
	require.NoError(t, err)
	assert.Equal(t, "piped", ResultText(result))
}
