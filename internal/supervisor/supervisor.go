package supervisor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"mcphub/internal/catalog"
	"mcphub/internal/config"
	"mcphub/pkg/logging"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultReadyTimeout = 10 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultStopGrace    = 5 * time.Second
)

// Options configures a Supervisor. Zero values select the defaults.
type Options struct {
	ReadyTimeout time.Duration
	PollInterval time.Duration
	StopGrace    time.Duration
	HTTPClient   *http.Client
}

// Ready is a server whose catalog has been fetched and which can be proxied
// to.
type Ready struct {
	Name    string
	BaseURL string
	Catalog catalog.Document

	// Process is nil for hosted servers.
	Process *Process
}

// Supervisor owns every process it spawned.
type Supervisor struct {
	opts   Options
	client *http.Client

	mu        sync.Mutex
	processes []*Process
}

// New creates a Supervisor.
func New(opts Options) *Supervisor {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = DefaultReadyTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.StopGrace <= 0 {
		opts.StopGrace = DefaultStopGrace
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Supervisor{opts: opts, client: client}
}

// SpawnAndWait makes spec usable. A spec without a command is probed once at
// its url. Otherwise the command is started with PORT taken from the url, or
// defaultPort, and polled until ready; on failure the child is stopped and a
// SpawnError returned.
func (s *Supervisor) SpawnAndWait(ctx context.Context, spec config.MCPServer, defaultPort int) (*Ready, error) {
	if !spec.Spawned() {
		doc, err := s.Probe(ctx, spec.URL)
		if err != nil {
			return nil, err
		}
		return &Ready{Name: spec.Name, BaseURL: spec.URL, Catalog: doc}, nil
	}

	proc, err := s.Start(spec, defaultPort)
	if err != nil {
		return nil, err
	}

	doc, err := WaitReady(ctx, s.client, proc.BaseURL, s.opts.PollInterval, s.opts.ReadyTimeout, proc.Done())
	if err != nil {
		proc.setState(StateFailed)
		if stopErr := proc.Stop(context.Background(), s.opts.StopGrace); stopErr != nil {
			logging.Warn("Supervisor", "Failed to stop %s: %v", spec.Name, stopErr)
		}

		var se *SpawnError
		if errors.As(err, &se) {
			se.Name = spec.Name
			if se.Reason == ReasonExited && proc.ExitErr() != nil {
				se.Err = proc.ExitErr()
			}
			return nil, se
		}
		return nil, &SpawnError{Name: spec.Name, Reason: ReasonTimeout, Err: err}
	}

	proc.setState(StateReady)
	logging.Info("Supervisor", "Server %s is ready at %s", spec.Name, proc.BaseURL)
	return &Ready{Name: spec.Name, BaseURL: proc.BaseURL, Catalog: doc, Process: proc}, nil
}

// Start launches spec without waiting for it and tracks the process for
// StopAll.
func (s *Supervisor) Start(spec config.MCPServer, defaultPort int) (*Process, error) {
	port, baseURL, err := Endpoint(spec.URL, defaultPort)
	if err != nil {
		return nil, &SpawnError{Name: spec.Name, Reason: ReasonStart, Err: err}
	}

	proc, err := startProcess(spec, port, baseURL)
	if err != nil {
		return nil, &SpawnError{Name: spec.Name, Reason: ReasonStart, Err: err}
	}

	s.mu.Lock()
	s.processes = append(s.processes, proc)
	s.mu.Unlock()
	return proc, nil
}

// Processes returns a snapshot of every process spawned so far.
func (s *Supervisor) Processes() []*Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Process(nil), s.processes...)
}

// StopAll stops every child that is still running, concurrently. Children
// that already exited are skipped.
func (s *Supervisor) StopAll(ctx context.Context) error {
	var g errgroup.Group
	for _, proc := range s.Processes() {
		if proc.Exited() {
			continue
		}
		g.Go(func() error {
			err := proc.Stop(ctx, s.opts.StopGrace)
			if err == nil {
				proc.setState(StateStopped)
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		logging.Error("Supervisor", err, "Failed to stop every child process")
		return err
	}
	return nil
}
