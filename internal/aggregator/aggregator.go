package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"mcphub/internal/catalog"
	"mcphub/internal/config"
	"mcphub/internal/plugin"
	"mcphub/internal/proxy"
	"mcphub/internal/supervisor"
	"mcphub/pkg/logging"

	"golang.org/x/sync/singleflight"
)

// Options configures an Aggregator.
type Options struct {
	// Plugins are the embedded plugins to load, in order.
	Plugins []plugin.Descriptor

	// Supervisor spawns external servers. Defaults to one configured from
	// the aggregator section of the configuration.
	Supervisor *supervisor.Supervisor

	// Version is reported in the combined catalog.
	Version string

	// ProxyTransport is used for requests forwarded to external servers.
	ProxyTransport http.RoundTripper
}

// Aggregator loads plugins and serves them behind one HTTP handler.
type Aggregator struct {
	cfg     config.Config
	opts    Options
	sup     *supervisor.Supervisor
	mux     *http.ServeMux
	handler http.Handler

	mu     sync.Mutex
	loaded []LoadedSpec
	done   bool

	gate     singleflight.Group
	cacheMu  sync.RWMutex
	catalog  []byte
	nameList []byte
}

// New creates an Aggregator for cfg. Nothing is loaded until Load is called.
func New(cfg config.Config, opts Options) *Aggregator {
	sup := opts.Supervisor
	if sup == nil {
		sup = supervisor.New(supervisor.Options{
			ReadyTimeout: cfg.Aggregator.ReadyTimeout,
			PollInterval: cfg.Aggregator.PollInterval,
		})
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	a := &Aggregator{
		cfg:  cfg,
		opts: opts,
		sup:  sup,
		mux:  http.NewServeMux(),
	}
	a.routes()
	return a
}

// Supervisor returns the supervisor owning spawned servers.
func (a *Aggregator) Supervisor() *supervisor.Supervisor {
	return a.sup
}

// Load mounts every embedded plugin, then every usable external server, and
// returns the plugins that loaded. Failures are logged and skipped. Load
// runs once; later calls return the first result.
func (a *Aggregator) Load(ctx context.Context) []LoadedSpec {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return a.loaded
	}

	seen := make(map[string]bool)
	var loaded []LoadedSpec

	for _, d := range a.opts.Plugins {
		spec, err := a.loadEmbedded(ctx, d, seen)
		if err != nil {
			logging.Warn("Aggregator", "Skipping plugin: %v", err)
			continue
		}
		seen[spec.Name] = true
		loaded = append(loaded, spec)
	}

	nextPort := a.cfg.Aggregator.SpawnPortBase
	for _, server := range a.cfg.MCPServers {
		defaultPort := nextPort
		nextPort++

		spec, ok := a.loadExternal(ctx, server, defaultPort, seen)
		if !ok {
			continue
		}
		seen[spec.Name] = true
		loaded = append(loaded, spec)
	}

	a.loaded = loaded
	a.done = true
	logging.Info("Aggregator", "Loaded %d plugin(s)", len(loaded))
	return loaded
}

func (a *Aggregator) loadEmbedded(ctx context.Context, d plugin.Descriptor, seen map[string]bool) (LoadedSpec, error) {
	if seen[d.Name] {
		return LoadedSpec{}, plugin.NewLoadError(d.Name, "duplicate name", nil)
	}
	if _, err := plugin.Mount(a.mux, d); err != nil {
		return LoadedSpec{}, err
	}

	doc, err := d.Catalog.Resolve(ctx)
	if err != nil {
		logging.Warn("Aggregator", "Catalog of plugin %s unavailable, serving it with an empty catalog: %v", d.Name, err)
		doc = catalog.New(d.Name, "")
	}

	logging.Info("Aggregator", "Loaded embedded plugin %s", d.Name)
	return LoadedSpec{Name: d.Name, Kind: KindEmbedded, Catalog: doc}, nil
}

func (a *Aggregator) loadExternal(ctx context.Context, server config.MCPServer, defaultPort int, seen map[string]bool) (LoadedSpec, bool) {
	if server.Disabled {
		logging.Info("Aggregator", "Server %s is disabled", server.Name)
		return LoadedSpec{}, false
	}
	if err := config.ValidateServer(server); err != nil {
		logging.Warn("Aggregator", "Skipping server %q: %v", server.Name, err)
		return LoadedSpec{}, false
	}
	if seen[server.Name] {
		logging.Warn("Aggregator", "Skipping server %s: a plugin with that name is already loaded", server.Name)
		return LoadedSpec{}, false
	}

	kind := KindHosted
	if server.Spawned() {
		kind = KindSpawned
		logging.Info("Aggregator", "Spawning server %s (default port %d)", server.Name, defaultPort)
	} else {
		logging.Info("Aggregator", "Probing hosted server %s at %s", server.Name, server.URL)
	}

	ready, err := a.sup.SpawnAndWait(ctx, server, defaultPort)
	if err != nil {
		logging.Warn("Aggregator", "Skipping server %s: %v", server.Name, err)
		return LoadedSpec{}, false
	}

	if err := a.attach(server, ready.BaseURL); err != nil {
		logging.Warn("Aggregator", "Skipping server %s: %v", server.Name, err)
		if ready.Process != nil {
			_ = ready.Process.Stop(ctx, supervisor.DefaultStopGrace)
		}
		return LoadedSpec{}, false
	}

	logging.Info("Aggregator", "Loaded %s server %s at %s", kind, server.Name, ready.BaseURL)
	return LoadedSpec{Name: server.Name, Kind: kind, Catalog: ready.Catalog, BaseURL: ready.BaseURL}, true
}

// attach mounts the proxy for server. http.ServeMux panics on patterns it
// cannot parse or that conflict, which is reported as an error.
func (a *Aggregator) attach(server config.MCPServer, baseURL string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = plugin.NewLoadError(server.Name, fmt.Sprintf("mount failed: %v", r), nil)
		}
	}()

	ns := plugin.NewNamespace(catalog.NamespacePath(server.Name, ""), a.mux)
	return proxy.Attach(ns, baseURL, proxy.Options{
		Name:      server.Name,
		Headers:   server.Headers,
		AuthToken: server.AuthToken,
		Transport: a.opts.ProxyTransport,
	})
}

// Loaded returns the plugins loaded so far, or nil before Load.
func (a *Aggregator) Loaded() []LoadedSpec {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

func (a *Aggregator) isLoaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Names returns the names of loaded plugins in load order.
func (a *Aggregator) Names() []string {
	loaded := a.Loaded()
	names := make([]string, 0, len(loaded))
	for _, spec := range loaded {
		names = append(names, spec.Name)
	}
	return names
}
