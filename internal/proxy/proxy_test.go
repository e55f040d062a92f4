package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mcphub/internal/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	Method     string
	Path       string
	RawQuery   string
	Header     http.Header
	Body       string
	Host       string
	HasBody    bool
	ContentLen int64
}

// recordingBackend answers every request with 201, a custom header and a
// fixed binary body, and records what it received.
func recordingBackend(t *testing.T) (*httptest.Server, func() seenRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		last seenRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		last = seenRequest{
			Method:     r.Method,
			Path:       r.URL.Path,
			RawQuery:   r.URL.RawQuery,
			Header:     r.Header.Clone(),
			Body:       string(body),
			Host:       r.Host,
			HasBody:    len(body) > 0,
			ContentLen: r.ContentLength,
		}
		mu.Unlock()

		w.Header().Set("X-Backend", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte{0x00, 0xff, 0x10})
	}))
	t.Cleanup(srv.Close)
	return srv, func() seenRequest {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func attached(t *testing.T, baseURL string, opts Options) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	require.NoError(t, Attach(plugin.NewNamespace("/mcp/remote", mux), baseURL, opts))
	return mux
}

func TestProxy_ForwardsRequest(t *testing.T) {
	backend, seen := recordingBackend(t)
	mux := attached(t, backend.URL, Options{})

	req := httptest.NewRequest(http.MethodPost, "/mcp/remote/tools/run?x=1&y=two", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Custom", "kept")
	req.Header.Set("Connection", "close")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Backend"))
	assert.Equal(t, []byte{0x00, 0xff, 0x10}, rec.Body.Bytes())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	got := seen()
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/tools/run", got.Path)
	assert.Equal(t, "x=1&y=two", got.RawQuery)
	assert.Equal(t, `{"a":1}`, got.Body)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "kept", got.Header.Get("X-Custom"))
	assert.Empty(t, got.Header.Get("Connection"))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), got.Header.Get(RequestIDHeader))
	assert.Equal(t, strings.TrimPrefix(backend.URL, "http://"), got.Host)
}

func TestProxy_GetSendsNoBody(t *testing.T) {
	backend, seen := recordingBackend(t)
	mux := attached(t, backend.URL, Options{})

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(method, "/mcp/remote/call", strings.NewReader(`{"msg":"hello"}`)))

			got := seen()
			assert.Equal(t, method, got.Method)
			assert.False(t, got.HasBody)
			assert.Zero(t, got.ContentLen)
		})
	}
}

func TestProxy_MethodsPreserved(t *testing.T) {
	backend, seen := recordingBackend(t)
	mux := attached(t, backend.URL, Options{})

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, "/mcp/remote/item", strings.NewReader("payload")))
		assert.Equal(t, method, seen().Method)
		assert.Equal(t, "payload", seen().Body)
	}
}

func TestProxy_HeadersAndToken(t *testing.T) {
	backend, seen := recordingBackend(t)
	mux := attached(t, backend.URL, Options{
		Headers:   map[string]string{"X-Api-Key": "k1"},
		AuthToken: "secret",
	})

	req := httptest.NewRequest(http.MethodGet, "/mcp/remote/", nil)
	req.Header.Set("Authorization", "Basic nope")
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	got := seen()
	assert.Equal(t, "/", got.Path)
	assert.Equal(t, "k1", got.Header.Get("X-Api-Key"))
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	assert.Equal(t, "req-42", got.Header.Get(RequestIDHeader))
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestProxy_BasePath(t *testing.T) {
	backend, seen := recordingBackend(t)
	mux := attached(t, backend.URL+"/api/", Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp/remote/v1/items", nil))
	assert.Equal(t, "/api/v1/items", seen().Path)
}

func TestProxy_UpstreamDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	mux := attached(t, url, Options{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp/remote/call", strings.NewReader("{}")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "remote", body["plugin"])
	assert.Contains(t, body["error"], "upstream remote unavailable")

	// The proxy keeps serving after a failure.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp/remote/call", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestProxy_StreamsResponses(t *testing.T) {
	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "data: first\n\n")
		w.(http.Flusher).Flush()
		<-release
		_, _ = io.WriteString(w, "data: second\n\n")
	}))
	defer backend.Close()

	front := httptest.NewServer(attached(t, backend.URL, Options{}))
	defer front.Close()

	resp, err := http.Get(front.URL + "/mcp/remote/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	defer close(release)

	buf := make([]byte, len("data: first\n\n"))
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(resp.Body, buf)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Equal(t, "data: first\n\n", string(buf))
	case <-time.After(5 * time.Second):
		t.Fatal("first event was not flushed")
	}
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("/mcp/x", "not a url", Options{})
	assert.Error(t, err)

	p, err := New("/mcp/x/", "http://localhost:1", Options{})
	require.NoError(t, err)
	assert.Equal(t, "x", p.name)
	assert.Equal(t, "/mcp/x", p.prefix)
}
