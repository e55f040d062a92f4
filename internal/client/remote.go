package client

import (
	"context"
	"net/http"

	"mcphub/internal/config"
	"mcphub/pkg/logging"
)

// RemoteConnector connects to a server that is already running.
type RemoteConnector struct {
	baseConnector
	baseURL    string
	transport  string
	headers    map[string]string
	httpClient *http.Client
}

// NewRemoteConnector creates a connector for spec.URL.
func NewRemoteConnector(spec config.MCPServer) *RemoteConnector {
	return &RemoteConnector{
		baseConnector: baseConnector{name: spec.Name},
		baseURL:       spec.URL,
		transport:     spec.Transport,
		headers:       requestHeaders(spec.Headers, spec.AuthToken),
	}
}

// WithHTTPClient sets the HTTP client used by the transport.
func (c *RemoteConnector) WithHTTPClient(httpClient *http.Client) *RemoteConnector {
	c.httpClient = httpClient
	return c
}

// Endpoint returns the MCP endpoint the connector talks to.
func (c *RemoteConnector) Endpoint() string {
	return endpointURL(c.baseURL)
}

func (c *RemoteConnector) Connect(ctx context.Context) error {
	if c.Connected() {
		return nil
	}

	logging.Debug("Client", "Connecting to %s at %s (%s)", c.name, c.Endpoint(), transportName(c.transport))
	session, err := openHTTPSession(ctx, c.transport, c.Endpoint(), c.headers, c.httpClient)
	if err != nil {
		return err
	}
	return c.attach(ctx, session)
}

func (c *RemoteConnector) Cleanup(ctx context.Context) error {
	return c.closeSession()
}
