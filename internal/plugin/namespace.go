package plugin

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/server"
)

// Namespace is a view of an http.ServeMux that places every registered
// pattern below a fixed path prefix.
type Namespace struct {
	prefix string
	mux    *http.ServeMux
}

// NewNamespace returns a Namespace registering on mux below prefix. An empty
// prefix registers patterns unchanged.
func NewNamespace(prefix string, mux *http.ServeMux) *Namespace {
	return &Namespace{prefix: strings.TrimSuffix(prefix, "/"), mux: mux}
}

// Prefix returns the path prefix, without a trailing slash.
func (n *Namespace) Prefix() string {
	return n.prefix
}

// Handle registers h for pattern. Patterns follow http.ServeMux syntax and
// may start with a method, as in "POST /call". The pattern "/" matches every
// path in the namespace.
func (n *Namespace) Handle(pattern string, h http.Handler) {
	n.mux.Handle(n.rewrite(pattern), h)
}

// HandleFunc registers f for pattern.
func (n *Namespace) HandleFunc(pattern string, f func(http.ResponseWriter, *http.Request)) {
	n.Handle(pattern, http.HandlerFunc(f))
}

// HandleMCP serves s over streamable HTTP at <prefix>/mcp.
func (n *Namespace) HandleMCP(s *server.MCPServer) {
	n.Handle("/mcp", server.NewStreamableHTTPServer(s))
}

func (n *Namespace) rewrite(pattern string) string {
	method, path := "", pattern
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		method, path = pattern[:i+1], strings.TrimLeft(pattern[i+1:], " ")
	}
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("plugin: pattern %q must start with /", pattern))
	}
	return method + n.prefix + path
}
