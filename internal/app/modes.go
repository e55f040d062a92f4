package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"mcphub/internal/config"
	"mcphub/pkg/logging"
)

// runAggregatorMode serves the aggregator until ctx ends or SIGINT/SIGTERM
// arrives. Spawned children are stopped on the way out.
func runAggregatorMode(ctx context.Context, cfg *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watchConfig(ctx, cfg)

	logging.Info("CLI", "Starting aggregator on %s. Press Ctrl+C to stop.", services.Addr)
	return services.Aggregator.Serve(ctx)
}

// runHubMode starts the tool hub and blocks until ctx ends, the process is
// signalled or the listener fails.
func runHubMode(ctx context.Context, cfg *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watchConfig(ctx, cfg)

	if err := services.Hub.Start(ctx, services.Addr); err != nil {
		logging.Error("CLI", err, "Failed to start hub")
		_ = services.Client.CloseAllSessions(context.Background())
		return err
	}
	logging.Info("CLI", "Hub started. Press Ctrl+C to stop.")

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-services.Hub.Done():
	}

	logging.Info("CLI", "--- Shutting down hub ---")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := services.Hub.Stop(shutdownCtx); err != nil {
		logging.Warn("CLI", "Error during shutdown: %v", err)
	}
	return serveErr
}

func watchConfig(ctx context.Context, cfg *Config) {
	if !cfg.WatchConfig || cfg.ConfigPath == "" {
		return
	}
	if err := config.Watch(ctx, cfg.ConfigPath, nil); err != nil {
		logging.Warn("CLI", "Not watching %s: %v", cfg.ConfigPath, err)
	}
}
