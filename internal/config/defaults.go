package config

import "time"

const (
	DefaultHost          = "localhost"
	DefaultPort          = 8090
	DefaultHubPort       = 8091
	DefaultSpawnPortBase = 9100
	DefaultReadyTimeout  = 10 * time.Second
	DefaultPollInterval  = 500 * time.Millisecond
)

// Default returns a configuration with every default applied and no servers.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Aggregator.Host == "" {
		c.Aggregator.Host = DefaultHost
	}
	if c.Aggregator.Port == 0 {
		c.Aggregator.Port = DefaultPort
	}
	if c.Aggregator.SpawnPortBase == 0 {
		c.Aggregator.SpawnPortBase = DefaultSpawnPortBase
	}
	if c.Aggregator.ReadyTimeout == 0 {
		c.Aggregator.ReadyTimeout = DefaultReadyTimeout
	}
	if c.Aggregator.PollInterval == 0 {
		c.Aggregator.PollInterval = DefaultPollInterval
	}
	if c.Hub.Host == "" {
		c.Hub.Host = DefaultHost
	}
	if c.Hub.Port == 0 {
		c.Hub.Port = DefaultHubPort
	}
}
