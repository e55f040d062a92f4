package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mcphub/pkg/logging"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Connector is a connection to one MCP server.
type Connector interface {
	// Connect establishes the session and performs the protocol handshake.
	// Connecting an already connected connector is a no-op.
	Connect(ctx context.Context) error
	// Initialize fetches and caches the server's tools.
	Initialize(ctx context.Context) error
	// ListTools returns the cached tools, initializing first if needed.
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	// CallTool invokes a tool on the server.
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
	// Cleanup closes the session and releases everything Connect acquired.
	Cleanup(ctx context.Context) error
	// Connected reports whether Connect succeeded and Cleanup has not run.
	Connected() bool
}

// Compile-time interface compliance checks
var (
	_ Connector = (*LocalProcessConnector)(nil)
	_ Connector = (*StdioConnector)(nil)
	_ Connector = (*RemoteConnector)(nil)
)

// ClientName and ClientVersion are sent in the initialize handshake.
var (
	ClientName    = "mcphub"
	ClientVersion = "dev"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	maxToolPages            = 100
)

// baseConnector implements the protocol operations shared by every
// transport.
type baseConnector struct {
	name string

	mu      sync.RWMutex
	session mcpclient.MCPClient
	tools   []mcp.Tool
	cached  bool
}

func (b *baseConnector) Connected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session != nil
}

// attach performs the handshake on session and stores it. The session is
// closed if the handshake fails.
func (b *baseConnector) attach(ctx context.Context, session mcpclient.MCPClient) error {
	initCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, defaultHandshakeTimeout)
		defer cancel()
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    ClientName,
		Version: ClientVersion,
	}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	result, err := session.Initialize(initCtx, req)
	if err != nil {
		if closeErr := session.Close(); closeErr != nil {
			logging.Debug("Client", "Error closing failed session for %s: %v", b.name, closeErr)
		}
		return fmt.Errorf("failed to initialize MCP protocol with %s: %w", b.name, err)
	}
	logging.Debug("Client", "Connected to %s (server %s %s)", b.name,
		result.ServerInfo.Name, result.ServerInfo.Version)

	b.mu.Lock()
	b.session = session
	b.tools = nil
	b.cached = false
	b.mu.Unlock()
	return nil
}

func (b *baseConnector) current() (mcpclient.MCPClient, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.session == nil {
		return nil, ErrNotConnected
	}
	return b.session, nil
}

func (b *baseConnector) Initialize(ctx context.Context) error {
	session, err := b.current()
	if err != nil {
		return err
	}

	var tools []mcp.Tool
	req := mcp.ListToolsRequest{}
	for page := 0; page < maxToolPages; page++ {
		result, err := session.ListTools(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to list tools of %s: %w", b.name, err)
		}
		tools = append(tools, result.Tools...)
		if result.NextCursor == "" {
			break
		}
		req.Params.Cursor = result.NextCursor
	}

	b.mu.Lock()
	b.tools = tools
	b.cached = true
	b.mu.Unlock()

	logging.Debug("Client", "Server %s offers %d tool(s)", b.name, len(tools))
	return nil
}

func (b *baseConnector) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	b.mu.RLock()
	tools, cached := b.tools, b.cached
	b.mu.RUnlock()
	if cached {
		return tools, nil
	}

	if err := b.Initialize(ctx); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tools, nil
}

func (b *baseConnector) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	session, err := b.current()
	if err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := session.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tool %s on %s: %w", name, b.name, err)
	}
	return result, nil
}

// closeSession closes and forgets the session. Closing twice is a no-op.
func (b *baseConnector) closeSession() error {
	b.mu.Lock()
	session := b.session
	b.session = nil
	b.tools = nil
	b.cached = false
	b.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Close()
}
