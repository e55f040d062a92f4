// Package proxy forwards every request below a plugin namespace to the
// plugin's backend.
//
// The namespace prefix is stripped from the path, the query string is kept,
// and method, headers and body are sent on unchanged, except that GET and
// HEAD never carry a body and hop-by-hop headers are dropped. Responses are
// relayed as they arrive so event streams keep working. A backend that cannot
// be reached yields a 502 with a JSON body.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"mcphub/internal/plugin"
	"mcphub/pkg/logging"

	"github.com/google/uuid"
)

// RequestIDHeader correlates a proxied request across the aggregator and
// the backend logs.
const RequestIDHeader = "X-Request-Id"

// Options configures a Proxy.
type Options struct {
	// Name identifies the backend in logs and error bodies. Defaults to the
	// last element of the namespace prefix.
	Name string

	// Headers are set on every outbound request, replacing inbound values.
	Headers map[string]string

	// AuthToken, if set, is sent as "Authorization: Bearer <token>".
	AuthToken string

	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Proxy is an http.Handler forwarding to one backend.
type Proxy struct {
	name   string
	prefix string
	target *url.URL
	opts   Options
	rp     *httputil.ReverseProxy
}

// New returns a Proxy that strips prefix from inbound paths and forwards to
// baseURL.
func New(prefix, baseURL string, opts Options) (*Proxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: must be absolute", baseURL)
	}

	prefix = strings.TrimSuffix(prefix, "/")
	name := opts.Name
	if name == "" {
		name = prefix[strings.LastIndex(prefix, "/")+1:]
	}

	p := &Proxy{name: name, prefix: prefix, target: target, opts: opts}
	p.rp = &httputil.ReverseProxy{
		Rewrite:       p.rewrite,
		Transport:     opts.Transport,
		FlushInterval: -1,
		ErrorHandler:  p.handleError,
	}
	return p, nil
}

// Attach mounts a Proxy to baseURL on every path of ns.
func Attach(ns *plugin.Namespace, baseURL string, opts Options) error {
	p, err := New(ns.Prefix(), baseURL, opts)
	if err != nil {
		return err
	}
	ns.Handle("/", p)
	logging.Debug("Proxy", "Forwarding %s/* to %s", ns.Prefix(), baseURL)
	return nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		r.Header.Set(RequestIDHeader, id)
	}
	w.Header().Set(RequestIDHeader, id)

	p.rp.ServeHTTP(w, r)
}

// rewrite runs after ReverseProxy removed hop-by-hop headers from pr.Out.
func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	in := pr.In.URL

	pr.Out.URL.Scheme = p.target.Scheme
	pr.Out.URL.Host = p.target.Host
	pr.Out.URL.Path = p.join(p.target.Path, p.strip(in.Path))
	if in.RawPath != "" {
		pr.Out.URL.RawPath = p.join(p.target.EscapedPath(), p.strip(in.RawPath))
	} else {
		pr.Out.URL.RawPath = ""
	}
	pr.Out.URL.RawQuery = in.RawQuery
	pr.Out.Host = ""

	pr.SetXForwarded()

	if pr.Out.Method == http.MethodGet || pr.Out.Method == http.MethodHead {
		pr.Out.Body = nil
		pr.Out.ContentLength = 0
		pr.Out.Header.Del("Content-Length")
	}

	for key, value := range p.opts.Headers {
		pr.Out.Header.Set(key, value)
	}
	if p.opts.AuthToken != "" {
		pr.Out.Header.Set("Authorization", "Bearer "+p.opts.AuthToken)
	}
}

func (p *Proxy) strip(path string) string {
	rest := strings.TrimPrefix(path, p.prefix)
	if rest == "" {
		return "/"
	}
	return rest
}

func (p *Proxy) join(base, rest string) string {
	return strings.TrimSuffix(base, "/") + rest
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		logging.Debug("Proxy", "Client went away during %s %s: %v", r.Method, r.URL.Path, err)
		return
	}

	logging.Warn("Proxy", "Upstream %s failed for %s %s (request %s): %v",
		p.name, r.Method, r.URL.Path, r.Header.Get(RequestIDHeader), err)
	plugin.WriteJSON(w, http.StatusBadGateway, map[string]string{
		"error":  fmt.Sprintf("upstream %s unavailable: %v", p.name, err),
		"plugin": p.name,
	})
}
