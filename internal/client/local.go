package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"mcphub/internal/config"
	"mcphub/internal/supervisor"
	"mcphub/pkg/logging"
)

const (
	DefaultReadyTimeout = 10 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// LocalProcessConnector spawns an HTTP tool server, waits until it answers
// GET /openapi.json and then connects to its MCP endpoint.
type LocalProcessConnector struct {
	baseConnector
	spec config.MCPServer

	ReadyTimeout time.Duration
	PollInterval time.Duration

	sup        *supervisor.Supervisor
	httpClient *http.Client

	procMu sync.Mutex
	proc   *supervisor.Process
}

// NewLocalProcessConnector creates a connector that spawns spec.Command.
func NewLocalProcessConnector(spec config.MCPServer) *LocalProcessConnector {
	return &LocalProcessConnector{
		baseConnector: baseConnector{name: spec.Name},
		spec:          spec,
		ReadyTimeout:  DefaultReadyTimeout,
		PollInterval:  DefaultPollInterval,
		sup:           supervisor.New(supervisor.Options{}),
		httpClient:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Process returns the spawned process, or nil when not connected.
func (c *LocalProcessConnector) Process() *supervisor.Process {
	c.procMu.Lock()
	defer c.procMu.Unlock()
	return c.proc
}

func (c *LocalProcessConnector) Connect(ctx context.Context) error {
	if c.Connected() {
		return nil
	}

	// Used only when the url names no port.
	port, err := freePort()
	if err != nil {
		return err
	}

	proc, err := c.sup.Start(c.spec, port)
	if err != nil {
		return err
	}

	if _, err := supervisor.WaitReady(ctx, c.httpClient, proc.BaseURL, c.PollInterval, c.ReadyTimeout, proc.Done()); err != nil {
		c.stop(proc)
		var se *supervisor.SpawnError
		if errors.As(err, &se) {
			se.Name = c.name
		}
		return fmt.Errorf("external MCP server not reachable at %s: %w", proc.BaseURL, err)
	}

	session, err := openHTTPSession(ctx, c.spec.Transport, endpointURL(proc.BaseURL),
		requestHeaders(c.spec.Headers, c.spec.AuthToken), nil)
	if err == nil {
		err = c.attach(ctx, session)
	}
	if err != nil {
		c.stop(proc)
		return err
	}

	c.procMu.Lock()
	c.proc = proc
	c.procMu.Unlock()
	logging.Info("Client", "Started local server %s at %s", c.name, proc.BaseURL)
	return nil
}

func (c *LocalProcessConnector) Cleanup(ctx context.Context) error {
	err := c.closeSession()

	c.procMu.Lock()
	proc := c.proc
	c.proc = nil
	c.procMu.Unlock()

	if proc != nil {
		if stopErr := proc.Stop(ctx, supervisor.DefaultStopGrace); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}
	return err
}

func (c *LocalProcessConnector) stop(proc *supervisor.Process) {
	if err := proc.Stop(context.Background(), supervisor.DefaultStopGrace); err != nil {
		logging.Warn("Client", "Failed to stop %s: %v", c.name, err)
	}
}

// freePort asks the kernel for an unused TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
