package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AggregatorClient reads the HTTP surface of a running aggregator.
type AggregatorClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewAggregatorClient creates a client for the aggregator at endpoint.
func NewAggregatorClient(endpoint string) *AggregatorClient {
	return &AggregatorClient{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Names returns the loaded plugin names in load order.
func (c *AggregatorClient) Names(ctx context.Context) ([]string, error) {
	data, err := c.get(ctx, "/mcp")
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("invalid plugin list from %s: %w", c.endpoint, err)
	}
	return names, nil
}

// Catalog returns the combined catalog as served.
func (c *AggregatorClient) Catalog(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/openapi.json")
}

func (c *AggregatorClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %s: %w", c.endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mcphub aggregator is not running at %s. Start it with: mcphub serve", c.endpoint)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", c.endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mcphub aggregator is not responding correctly (status: %d): %s",
			resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
