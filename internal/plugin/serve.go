package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"mcphub/pkg/logging"
)

// Handler returns a handler serving d standalone: its routes at the root and
// its resolved catalog at GET /openapi.json.
func Handler(ctx context.Context, d Descriptor) (http.Handler, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := register(NewNamespace("", mux), d); err != nil {
		return nil, err
	}

	doc, err := d.Catalog.Resolve(ctx)
	if err != nil {
		return nil, NewLoadError(d.Name, "catalog unavailable", err)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	mux.HandleFunc("GET /openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
	return mux, nil
}

// Serve runs d standalone on addr until ctx is done.
func Serve(ctx context.Context, d Descriptor, addr string) error {
	handler, err := Handler(ctx, d)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	logging.Info("Plugin", "Serving plugin %s on %s", d.Name, listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logging.Info("Plugin", "Stopping plugin %s", d.Name)
	return srv.Shutdown(shutdownCtx)
}
