package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"mcphub/internal/config"
	"mcphub/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs mcphub. Bootstrap loads configuration and builds services; Run
// executes the selected mode until shutdown.
type Application struct {
	config   *Config
	services *Services
}

// NewApplication configures logging, loads the configuration and
// initializes the services for cfg.Mode.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stderr
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.Init(cfg.LogFormat, appLogLevel, logOutput)

	if cfg.Loaded == nil {
		loaded, path, err := config.Resolve(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, err
		}
		if path == "" {
			logging.Info("Bootstrap", "No configuration file, serving embedded plugins only")
		}
		cfg.ConfigPath = path
		cfg.Loaded = &loaded
	}
	applyOverrides(cfg)

	if err := config.Validate(*cfg.Loaded); err != nil {
		return nil, &config.ConfigurationError{Path: cfg.ConfigPath, Message: "invalid configuration", Err: err}
	}
	for _, ve := range config.InvalidServers(*cfg.Loaded) {
		logging.Warn("Bootstrap", "Server entry will be skipped: %v", ve)
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// applyOverrides copies the command line listener settings into the loaded
// configuration.
func applyOverrides(cfg *Config) {
	switch cfg.Mode {
	case ModeHub:
		if cfg.Host != "" {
			cfg.Loaded.Hub.Host = cfg.Host
		}
		if cfg.Port != 0 {
			cfg.Loaded.Hub.Port = cfg.Port
		}
	default:
		if cfg.Host != "" {
			cfg.Loaded.Aggregator.Host = cfg.Host
		}
		if cfg.Port != 0 {
			cfg.Loaded.Aggregator.Port = cfg.Port
		}
	}
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run executes the selected mode until ctx ends or the process is
// signalled.
func (a *Application) Run(ctx context.Context) error {
	switch a.config.Mode {
	case ModeHub:
		return runHubMode(ctx, a.config, a.services)
	default:
		return runAggregatorMode(ctx, a.config, a.services)
	}
}
