package config

import "time"

// Transport names understood by the client connectors.
const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
	TransportStdio          = "stdio"
)

// Config is the top-level configuration document for mcphub.
type Config struct {
	Aggregator AggregatorConfig `yaml:"aggregator" mapstructure:"aggregator"`
	Hub        HubConfig        `yaml:"hub" mapstructure:"hub"`

	// MCPServers holds the entries of the mcpServers mapping in the order
	// they appear in the document.
	MCPServers []MCPServer `yaml:"-" mapstructure:"-"`
}

// AggregatorConfig configures the HTTP aggregator.
type AggregatorConfig struct {
	Host string `yaml:"host,omitempty" mapstructure:"host"`
	Port int    `yaml:"port,omitempty" mapstructure:"port"`

	// SpawnPortBase seeds the counter that hands out default ports to
	// external servers that do not name one in their url.
	SpawnPortBase int `yaml:"spawnPortBase,omitempty" mapstructure:"spawnPortBase"`

	// ReadyTimeout bounds how long a spawned server may take to answer its
	// readiness probe.
	ReadyTimeout time.Duration `yaml:"readyTimeout,omitempty" mapstructure:"readyTimeout"`
	PollInterval time.Duration `yaml:"pollInterval,omitempty" mapstructure:"pollInterval"`
}

// HubConfig configures the tool hub, which serves every configured server's
// tools as one MCP server over SSE.
type HubConfig struct {
	Host string `yaml:"host,omitempty" mapstructure:"host"`
	Port int    `yaml:"port,omitempty" mapstructure:"port"`
}

// MCPServer describes one external tool server. A non-empty Command means
// the server has to be spawned; without it the URL points at a server that
// is already running somewhere else.
type MCPServer struct {
	Name string `yaml:"-" mapstructure:"-"`

	Command string            `yaml:"command,omitempty" mapstructure:"command"`
	Args    []string          `yaml:"args,omitempty" mapstructure:"args"`
	Env     map[string]string `yaml:"env,omitempty" mapstructure:"env"`
	URL     string            `yaml:"url,omitempty" mapstructure:"url"`

	// Headers and AuthToken are added to every request sent to the server,
	// both by the aggregator proxy and by client connectors.
	Headers   map[string]string `yaml:"headers,omitempty" mapstructure:"headers"`
	AuthToken string            `yaml:"auth_token,omitempty" mapstructure:"auth_token"`

	// Transport selects the MCP transport used by client connectors.
	Transport string `yaml:"transport,omitempty" mapstructure:"transport"`

	// Disabled entries are skipped by client.CreateAllSessions.
	Disabled bool `yaml:"disabled,omitempty" mapstructure:"disabled"`
}

// Spawned reports whether the server has to be started by mcphub.
func (s MCPServer) Spawned() bool {
	return s.Command != ""
}

// Server returns the entry with the given name.
func (c Config) Server(name string) (MCPServer, bool) {
	for _, s := range c.MCPServers {
		if s.Name == name {
			return s, true
		}
	}
	return MCPServer{}, false
}

// AddServer appends s, or replaces the entry of the same name in place so
// that configuration order is kept.
func (c *Config) AddServer(s MCPServer) {
	for i := range c.MCPServers {
		if c.MCPServers[i].Name == s.Name {
			c.MCPServers[i] = s
			return
		}
	}
	c.MCPServers = append(c.MCPServers, s)
}

// ServerNames returns the names of all entries in configuration order.
func (c Config) ServerNames() []string {
	names := make([]string, 0, len(c.MCPServers))
	for _, s := range c.MCPServers {
		names = append(names, s.Name)
	}
	return names
}
