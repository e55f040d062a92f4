package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"mcphub/pkg/logging"
)

// Serve listens on the configured address, loads every plugin and serves
// until ctx is done. It then shuts the HTTP server down and stops every
// spawned child. Failing to bind the listener is the only fatal error.
func (a *Aggregator) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(a.cfg.Aggregator.Host, strconv.Itoa(a.cfg.Aggregator.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return a.ServeListener(ctx, listener)
}

// ServeListener is Serve on an existing listener.
func (a *Aggregator) ServeListener(ctx context.Context, listener net.Listener) error {
	defer a.stopChildren()

	a.Load(ctx)

	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	logging.Info("Aggregator", "Serving %d plugin(s) on http://%s", len(a.Loaded()), listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("aggregator server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info("Aggregator", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Aggregator", err, "Error shutting down HTTP server")
	}
	return nil
}

func (a *Aggregator) stopChildren() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.sup.StopAll(ctx); err != nil {
		logging.Warn("Aggregator", "Some child processes could not be stopped: %v", err)
	}
}
