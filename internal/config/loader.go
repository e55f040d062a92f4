package config

import (
	"fmt"
	"os"
	"sort"

	"mcphub/pkg/logging"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name looked up when no --config is given.
const DefaultConfigFile = "mcp_servers.json"

// document mirrors Config but keeps mcpServers as a raw node so the order of
// its entries survives decoding.
type document struct {
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Hub        HubConfig        `yaml:"hub"`
	MCPServers yaml.Node        `yaml:"mcpServers"`
}

// Load reads, parses and validates the configuration file at path.
// JSON and YAML are both accepted.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigurationError{Path: path, Message: "cannot read configuration file", Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, &ConfigurationError{Path: path, Message: "invalid configuration", Err: err}
	}

	logging.Info("Config", "Loaded %d MCP server(s) from %s", len(cfg.MCPServers), path)
	return cfg, nil
}

// Resolve loads the file at path. With an empty path it loads
// DefaultConfigFile from the working directory when that exists, and
// otherwise returns the defaults with no servers. The path actually read is
// returned, or "" when none was.
func Resolve(path string) (Config, string, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			logging.Debug("Config", "No %s found, using defaults", DefaultConfigFile)
			return Default(), "", nil
		}
		path = DefaultConfigFile
	}

	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Parse decodes a configuration document. JSON input is parsed as YAML,
// of which it is a subset, so that the mcpServers mapping keeps its order.
func Parse(data []byte) (Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := Config{
		Aggregator: doc.Aggregator,
		Hub:        doc.Hub,
	}

	servers, err := decodeServers(&doc.MCPServers)
	if err != nil {
		return Config{}, err
	}
	cfg.MCPServers = servers
	cfg.ApplyDefaults()

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeServers(node *yaml.Node) ([]MCPServer, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("mcpServers must be a mapping of name to server, got %s", nodeKind(node))
	}

	servers := make([]MCPServer, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var server MCPServer
		if err := value.Decode(&server); err != nil {
			return nil, fmt.Errorf("mcpServers.%s (line %d): %w", key.Value, value.Line, err)
		}
		server.Name = key.Value
		servers = append(servers, server)
	}
	return servers, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unsupported node"
	}
}

// FromMap builds a configuration from an already decoded document, as
// produced by encoding/json into map[string]any. A Go map has no order, so
// servers are sorted by name.
func FromMap(m map[string]any) (Config, error) {
	var cfg Config
	if err := decodeMap(m, &cfg); err != nil {
		return Config{}, err
	}

	if raw, ok := m["mcpServers"]; ok && raw != nil {
		entries, ok := raw.(map[string]any)
		if !ok {
			return Config{}, fmt.Errorf("mcpServers must be a mapping of name to server, got %T", raw)
		}

		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			server, err := ServerFromMap(name, entries[name])
			if err != nil {
				return Config{}, err
			}
			cfg.MCPServers = append(cfg.MCPServers, server)
		}
	}

	cfg.ApplyDefaults()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ServerFromMap decodes a single mcpServers entry.
func ServerFromMap(name string, raw any) (MCPServer, error) {
	var server MCPServer
	if err := decodeMap(raw, &server); err != nil {
		return MCPServer{}, fmt.Errorf("mcpServers.%s: %w", name, err)
	}
	server.Name = name
	return server, nil
}

func decodeMap(input any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	return nil
}
