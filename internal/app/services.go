package app

import (
	"fmt"
	"net"
	"strconv"

	"mcphub/internal/aggregator"
	"mcphub/internal/client"
	"mcphub/internal/hub"
	"mcphub/internal/plugins"
)

// Services holds everything Run needs for the selected mode. Only the
// fields of that mode are set.
type Services struct {
	Aggregator *aggregator.Aggregator
	Client     *client.MCPClient
	Hub        *hub.Hub

	// Addr is the listen address of the selected mode.
	Addr string
}

// InitializeServices builds the services for cfg.Mode.
func InitializeServices(cfg *Config) (*Services, error) {
	loaded := *cfg.Loaded

	switch cfg.Mode {
	case ModeHub:
		c := client.New(loaded)
		if cfg.Version != "" {
			client.ClientVersion = cfg.Version
			hub.Version = cfg.Version
		}
		return &Services{
			Client: c,
			Hub:    hub.New(c),
			Addr:   net.JoinHostPort(loaded.Hub.Host, strconv.Itoa(loaded.Hub.Port)),
		}, nil
	case ModeAggregator, "":
		agg := aggregator.New(loaded, aggregator.Options{
			Plugins: plugins.Builtin(),
			Version: cfg.Version,
		})
		return &Services{
			Aggregator: agg,
			Addr:       net.JoinHostPort(loaded.Aggregator.Host, strconv.Itoa(loaded.Aggregator.Port)),
		}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}
