package hub

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"mcphub/internal/client"
	"mcphub/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// SSEPath serves the event stream.
	SSEPath = "/mcp"
	// MessagePath receives the client's JSON-RPC messages.
	MessagePath = "/messages"

	// ToolSeparator joins server and tool names.
	ToolSeparator = "/"

	keepAliveInterval = 30 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Version is reported in the MCP handshake.
var Version = "dev"

// Hub exposes the tools of many MCP servers as one.
type Hub struct {
	client *client.MCPClient

	mu         sync.RWMutex
	mcpServer  *server.MCPServer
	tools      []string
	sseServer  *server.SSEServer
	httpServer *http.Server
	addr       string
	serveErr   chan error
}

// New creates a hub over the sessions of c.
func New(c *client.MCPClient) *Hub {
	return &Hub{client: c}
}

// ToolName returns the name a tool is registered under.
func ToolName(serverName, toolName string) string {
	return serverName + ToolSeparator + toolName
}

// Register opens every session and registers the tools found. It can only
// run once; later calls return the server built by the first.
func (h *Hub) Register(ctx context.Context) (*server.MCPServer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mcpServer != nil {
		return h.mcpServer, nil
	}

	if _, err := h.client.CreateAllSessions(ctx, true); err != nil {
		logging.Warn("Hub", "Some servers are unavailable: %v", err)
	}

	s := server.NewMCPServer("mcphub-hub", Version, server.WithToolCapabilities(true))

	var names []string
	for _, serverName := range h.client.ActiveSessions() {
		connector, ok := h.client.GetSession(serverName)
		if !ok {
			continue
		}

		tools, err := connector.ListTools(ctx)
		if err != nil {
			logging.Warn("Hub", "Failed to list tools of %s: %v", serverName, err)
			continue
		}

		serverTools := make([]server.ServerTool, 0, len(tools))
		for _, tool := range tools {
			exposed := tool
			exposed.Name = ToolName(serverName, tool.Name)
			serverTools = append(serverTools, server.ServerTool{
				Tool:    exposed,
				Handler: forward(serverName, tool.Name, connector),
			})
			names = append(names, exposed.Name)
		}
		s.AddTools(serverTools...)
		logging.Info("Hub", "Registered %d tool(s) from %s", len(tools), serverName)
	}

	if len(names) == 0 {
		logging.Warn("Hub", "No tools registered")
	}

	h.mcpServer = s
	h.tools = names
	return s, nil
}

// forward returns a handler calling toolName on connector.
func forward(serverName, toolName string, connector client.Connector) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := connector.CallTool(ctx, toolName, req.GetArguments())
		if err != nil {
			logging.Error("Hub", err, "Tool %s failed", ToolName(serverName, toolName))
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
		}
		return result, nil
	}
}

// Tools returns the registered tool names in registration order.
func (h *Hub) Tools() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.tools...)
}

// Addr returns the address the hub listens on, once started.
func (h *Hub) Addr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.addr
}

// Start registers the tools and serves them over SSE on addr. It returns
// once the listener is bound.
func (h *Hub) Start(ctx context.Context, addr string) error {
	h.mu.RLock()
	started := h.httpServer != nil
	h.mu.RUnlock()
	if started {
		return errors.New("hub already started")
	}

	mcpServer, err := h.Register(ctx)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	baseURL := "http://" + listener.Addr().String()

	httpServer := &http.Server{ReadHeaderTimeout: 10 * time.Second}
	sseServer := server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint(SSEPath),
		server.WithMessageEndpoint(MessagePath),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(keepAliveInterval),
		server.WithHTTPServer(httpServer),
	)
	httpServer.Handler = sseServer

	h.mu.Lock()
	h.sseServer = sseServer
	h.httpServer = httpServer
	h.addr = listener.Addr().String()
	h.serveErr = make(chan error, 1)
	serveErr := h.serveErr
	h.mu.Unlock()

	logging.Info("Hub", "Serving %d tool(s) over SSE at %s%s", len(h.Tools()), baseURL, SSEPath)
	go func() {
		err := httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Hub", err, "SSE server error")
		}
		serveErr <- err
	}()
	return nil
}

// Done receives the result of the serve loop once it ends.
func (h *Hub) Done() <-chan error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.serveErr
}

// Stop shuts the SSE server down and closes every session.
func (h *Hub) Stop(ctx context.Context) error {
	h.mu.Lock()
	sseServer := h.sseServer
	h.sseServer = nil
	h.httpServer = nil
	h.mu.Unlock()

	var errs []error
	if sseServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down SSE server: %w", err))
		}
	}

	if err := h.client.CloseAllSessions(ctx); err != nil {
		errs = append(errs, err)
	}
	logging.Info("Hub", "Stopped")
	return errors.Join(errs...)
}
