package supervisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mcphub/internal/catalog"
	"mcphub/pkg/logging"
)

// CatalogPath is the self-description endpoint every server must expose.
const CatalogPath = "/openapi.json"

// maxCatalogSize bounds the catalog body read from a backend.
const maxCatalogSize = 16 << 20

// Probe performs exactly one GET <baseURL>/openapi.json. Any network error,
// non-2xx status or undecodable body yields a ProbeError.
func (s *Supervisor) Probe(ctx context.Context, baseURL string) (catalog.Document, error) {
	return fetchCatalog(ctx, s.client, baseURL)
}

func fetchCatalog(ctx context.Context, client *http.Client, baseURL string) (catalog.Document, error) {
	target := strings.TrimSuffix(baseURL, "/") + CatalogPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &ProbeError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ProbeError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &ProbeError{URL: target, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize))
	if err != nil {
		return nil, &ProbeError{URL: target, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	doc, err := catalog.Parse(data)
	if err != nil {
		return nil, &ProbeError{URL: target, Err: err}
	}
	return doc, nil
}

// WaitReady polls GET <baseURL>/openapi.json every interval until it
// succeeds, timeout elapses, ctx ends or done is closed. done may be nil.
// Giving up yields a SpawnError naming baseURL that wraps the last probe
// error.
func WaitReady(ctx context.Context, client *http.Client, baseURL string, interval, timeout time.Duration, done <-chan struct{}) (catalog.Document, error) {
	if client == nil {
		client = http.DefaultClient
	}

	readyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		attemptCtx, attemptCancel := context.WithTimeout(readyCtx, max(interval, time.Second))
		doc, err := fetchCatalog(attemptCtx, client, baseURL)
		attemptCancel()
		if err == nil {
			return doc, nil
		}
		lastErr = err
		logging.Debug("Supervisor", "%s not ready yet: %v", baseURL, err)

		select {
		case <-done:
			return nil, &SpawnError{Name: baseURL, Reason: ReasonExited, Err: lastErr}
		case <-readyCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &SpawnError{Name: baseURL, Reason: ReasonTimeout, Err: fmt.Errorf("no answer within %s: %w", timeout, lastErr)}
		case <-ticker.C:
		}
	}
}
