package app

import "mcphub/internal/config"

// Mode selects what Run starts.
type Mode string

const (
	ModeAggregator Mode = "aggregator"
	ModeHub        Mode = "hub"
)

// Config holds the application configuration
type Config struct {
	Mode Mode

	// Logging settings
	Debug     bool
	LogFormat string
	Silent    bool

	// ConfigPath is the configuration file. When empty, mcp_servers.json in
	// the working directory is used if present.
	ConfigPath  string
	WatchConfig bool

	// Host and Port override the listener of the selected mode when set.
	Host string
	Port int

	Version string

	// Loaded configuration, filled in by NewApplication when nil.
	Loaded *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(mode Mode, debug bool, logFormat, configPath string) *Config {
	return &Config{
		Mode:       mode,
		Debug:      debug,
		LogFormat:  logFormat,
		ConfigPath: configPath,
	}
}
