package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /mcp", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["echo","weather"]`))
	})
	mux.HandleFunc("GET /openapi.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"openapi":"3.0.1","paths":{}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewAggregatorClient(srv.URL + "/")
	names, err := c.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "weather"}, names)

	doc, err := c.Catalog(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"openapi":"3.0.1","paths":{}}`, string(doc))
}

func TestAggregatorClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"plugins are not loaded yet"}`))
	}))
	c := NewAggregatorClient(srv.URL)

	_, err := c.Names(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 503")

	srv.Close()
	_, err = c.Catalog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not running")
}

func TestGetDefaultEndpoint(t *testing.T) {
	t.Setenv(EndpointEnvVar, "")
	assert.Equal(t, "http://localhost:8090", GetDefaultEndpoint())

	t.Setenv(EndpointEnvVar, "http://example.com:1234")
	assert.Equal(t, "http://example.com:1234", GetDefaultEndpoint())
}
