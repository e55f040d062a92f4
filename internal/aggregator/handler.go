package aggregator

import (
	"errors"
	"net/http"
	"strings"

	"mcphub/internal/plugin"
	"mcphub/pkg/logging"
)

// Handler returns the HTTP handler serving every route of the aggregator.
func (a *Aggregator) Handler() http.Handler {
	return a.handler
}

func (a *Aggregator) routes() {
	a.mux.HandleFunc("GET /mcp", a.handleNames)
	a.mux.HandleFunc("GET /openapi.json", a.handleCatalog)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)
	// More specific plugin namespaces win over this catch-all.
	a.mux.HandleFunc("/mcp/", a.handleUnknown)

	a.handler = a.logRequests(a.mux)
}

func (a *Aggregator) handleNames(w http.ResponseWriter, r *http.Request) {
	a.writeCached(w, a.NameList)
}

func (a *Aggregator) handleCatalog(w http.ResponseWriter, r *http.Request) {
	a.writeCached(w, a.CombinedCatalog)
}

func (a *Aggregator) writeCached(w http.ResponseWriter, get func() ([]byte, error)) {
	data, err := get()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errNotLoaded) {
			status = http.StatusServiceUnavailable
		}
		plugin.WriteError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (a *Aggregator) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !a.isLoaded() {
		plugin.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "loading"})
		return
	}
	plugin.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"plugins": len(a.Loaded()),
	})
}

func (a *Aggregator) handleUnknown(w http.ResponseWriter, r *http.Request) {
	name, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/mcp/"), "/")
	plugin.WriteJSON(w, http.StatusNotFound, map[string]string{
		"error":  "unknown plugin",
		"plugin": name,
	})
}

func (a *Aggregator) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Debug("Aggregator", "%s %s", r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}
