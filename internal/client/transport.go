package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mcphub/internal/config"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
)

// MCPPath is appended to a server's base URL to reach its MCP endpoint.
const MCPPath = "/mcp"

// endpointURL returns the MCP endpoint of the server at baseURL.
func endpointURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + MCPPath
}

// requestHeaders merges the configured headers with the bearer token.
func requestHeaders(headers map[string]string, authToken string) map[string]string {
	merged := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		merged[k] = v
	}
	if authToken != "" {
		merged["Authorization"] = "Bearer " + authToken
	}
	return merged
}

// openHTTPSession starts an MCP client for endpoint over the streamable HTTP
// or SSE transport. The handshake is left to the caller.
func openHTTPSession(ctx context.Context, kind, endpoint string, headers map[string]string, httpClient *http.Client) (*mcpclient.Client, error) {
	var (
		session *mcpclient.Client
		err     error
	)

	switch kind {
	case config.TransportSSE:
		var opts []transport.ClientOption
		if len(headers) > 0 {
			opts = append(opts, transport.WithHeaders(headers))
		}
		if httpClient != nil {
			opts = append(opts, transport.WithHTTPClient(httpClient))
		}
		session, err = mcpclient.NewSSEMCPClient(endpoint, opts...)
	case "", config.TransportStreamableHTTP:
		var opts []transport.StreamableHTTPCOption
		if len(headers) > 0 {
			opts = append(opts, transport.WithHTTPHeaders(headers))
		}
		if httpClient != nil {
			opts = append(opts, transport.WithHTTPBasicClient(httpClient))
		}
		session, err = mcpclient.NewStreamableHttpClient(endpoint, opts...)
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("transport %q cannot be used over HTTP", kind)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client for %s: %w", transportName(kind), endpoint, err)
	}

	if err := session.Start(ctx); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to start %s transport for %s: %w", transportName(kind), endpoint, err)
	}
	return session, nil
}

func transportName(kind string) string {
	if kind == "" {
		return config.TransportStreamableHTTP
	}
	return kind
}
