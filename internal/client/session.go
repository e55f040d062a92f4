package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"mcphub/internal/config"
	"mcphub/pkg/logging"
)

// ConnectorFactory builds the connector for one server entry.
type ConnectorFactory func(spec config.MCPServer) (Connector, error)

// MCPClient holds one session per configured server.
type MCPClient struct {
	mu       sync.Mutex
	cfg      config.Config
	sessions map[string]Connector
	active   []string
	factory  ConnectorFactory
}

// New creates a client for the servers in cfg.
func New(cfg config.Config) *MCPClient {
	return &MCPClient{
		cfg:      cfg,
		sessions: make(map[string]Connector),
		factory:  NewConnectorFromConfig,
	}
}

// FromDict creates a client from an already decoded configuration document.
func FromDict(m map[string]any) (*MCPClient, error) {
	cfg, err := config.FromMap(m)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// FromConfigFile creates a client from a configuration file.
func FromConfigFile(path string) (*MCPClient, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// WithFactory replaces the connector factory.
func (c *MCPClient) WithFactory(f ConnectorFactory) *MCPClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factory = f
	return c
}

// Config returns a copy of the configuration.
func (c *MCPClient) Config() config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg := c.cfg
	cfg.MCPServers = slices.Clone(c.cfg.MCPServers)
	return cfg
}

// AddServer adds or replaces the entry called name.
func (c *MCPClient) AddServer(name string, spec config.MCPServer) {
	spec.Name = name
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.AddServer(spec)
}

// CreateSession connects to the named server and, if autoInit is set,
// fetches its tools. An existing connected session is returned as is.
func (c *MCPClient) CreateSession(ctx context.Context, name string, autoInit bool) (Connector, error) {
	c.mu.Lock()
	spec, ok := c.cfg.Server(name)
	existing := c.sessions[name]
	factory := c.factory
	c.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	if existing != nil && existing.Connected() {
		return existing, nil
	}

	connector, err := factory(spec)
	if err != nil {
		return nil, err
	}
	if err := connector.Connect(ctx); err != nil {
		return nil, err
	}
	if autoInit {
		if err := connector.Initialize(ctx); err != nil {
			_ = connector.Cleanup(ctx)
			return nil, err
		}
	}

	c.mu.Lock()
	c.sessions[name] = connector
	if !slices.Contains(c.active, name) {
		c.active = append(c.active, name)
	}
	c.mu.Unlock()

	logging.Info("Client", "Session %s created", name)
	return connector, nil
}

// CreateAllSessions creates a session for every entry not marked disabled,
// in configuration order. A server that fails is logged and skipped; the
// failures are returned joined together with the sessions that succeeded.
func (c *MCPClient) CreateAllSessions(ctx context.Context, autoInit bool) (map[string]Connector, error) {
	var errs []error
	for _, spec := range c.Config().MCPServers {
		if spec.Disabled {
			logging.Debug("Client", "Skipping disabled server %s", spec.Name)
			continue
		}
		if _, err := c.CreateSession(ctx, spec.Name, autoInit); err != nil {
			logging.Warn("Client", "Failed to create session %s: %v", spec.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", spec.Name, err))
		}
	}
	return c.Sessions(), errors.Join(errs...)
}

// GetSession returns the session called name.
func (c *MCPClient) GetSession(name string) (Connector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[name]
	return s, ok
}

// Sessions returns a snapshot of every session.
func (c *MCPClient) Sessions() map[string]Connector {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Connector, len(c.sessions))
	for name, s := range c.sessions {
		out[name] = s
	}
	return out
}

// ActiveSessions returns the names of open sessions in creation order.
func (c *MCPClient) ActiveSessions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.active)
}

// CloseSession cleans up the session called name.
func (c *MCPClient) CloseSession(ctx context.Context, name string) error {
	c.mu.Lock()
	s, ok := c.sessions[name]
	delete(c.sessions, name)
	c.active = slices.DeleteFunc(c.active, func(n string) bool { return n == name })
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: no session %s", ErrServerNotFound, name)
	}
	return s.Cleanup(ctx)
}

// CloseAllSessions cleans up every session.
func (c *MCPClient) CloseAllSessions(ctx context.Context) error {
	var errs []error
	for _, name := range c.ActiveSessions() {
		if err := c.CloseSession(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
