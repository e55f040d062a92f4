package supervisor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"mcphub/internal/config"
	"mcphub/pkg/logging"
)

// State is the lifecycle state of a supervised process.
type State int

const (
	StateStarting State = iota
	StateReady
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "Starting"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Process is a spawned external server.
type Process struct {
	Spec    config.MCPServer
	Port    int
	BaseURL string

	cmd     *exec.Cmd
	outputs []io.WriteCloser
	done    chan struct{}
	waitErr error

	mu    sync.Mutex
	state State
}

// startProcess launches spec with PORT set to port. The child's stdout and
// stderr are logged line by line under Process:<name>.
func startProcess(spec config.MCPServer, port int, baseURL string) (*Process, error) {
	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Env = MergeEnv(os.Environ(), spec.Env, port)
	configureProcAttr(cmd)
	// Grandchildren holding the output pipes must not keep Wait blocked.
	cmd.WaitDelay = 2 * time.Second

	subsystem := "Process:" + spec.Name
	stdout := logging.NewLineWriter(subsystem, logging.LevelInfo)
	stderr := logging.NewLineWriter(subsystem, logging.LevelWarn)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	p := &Process{
		Spec:    spec,
		Port:    port,
		BaseURL: baseURL,
		cmd:     cmd,
		outputs: []io.WriteCloser{stdout, stderr},
		done:    make(chan struct{}),
		state:   StateStarting,
	}

	if err := cmd.Start(); err != nil {
		p.closeOutputs()
		return nil, err
	}
	logging.Info("Supervisor", "Started %s (pid %d) with PORT=%d", spec.Name, cmd.Process.Pid, port)

	go p.wait()
	return p, nil
}

func (p *Process) wait() {
	err := p.cmd.Wait()
	p.closeOutputs()

	p.mu.Lock()
	p.waitErr = err
	if p.state == StateStarting || p.state == StateReady {
		p.state = StateStopped
	}
	p.mu.Unlock()

	if err != nil {
		logging.Info("Supervisor", "Process %s exited: %v", p.Spec.Name, err)
	} else {
		logging.Info("Supervisor", "Process %s exited", p.Spec.Name)
	}
	close(p.done)
}

func (p *Process) closeOutputs() {
	for _, w := range p.outputs {
		_ = w.Close()
	}
}

// Name returns the configured server name.
func (p *Process) Name() string {
	return p.Spec.Name
}

// Pid returns the process id of the child.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// State returns the current lifecycle state.
func (p *Process) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Process) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Done is closed once the child has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the child has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// ExitErr returns the error reported by Wait once the child has exited.
func (p *Process) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

// Stop sends SIGTERM to the child's process group and escalates to SIGKILL
// if it is still alive after grace or when ctx ends. Stopping a process that
// already exited is not an error.
func (p *Process) Stop(ctx context.Context, grace time.Duration) error {
	if p.Exited() {
		return nil
	}

	pid := p.Pid()
	logging.Debug("Supervisor", "Stopping %s (pid %d)", p.Spec.Name, pid)
	if err := terminateGroup(pid); err != nil && !p.Exited() {
		logging.Warn("Supervisor", "Failed to send SIGTERM to %s: %v", p.Spec.Name, err)
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-p.done:
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}

	logging.Warn("Supervisor", "Process %s did not exit after SIGTERM, sending SIGKILL", p.Spec.Name)
	if err := killGroup(pid); err != nil && !p.Exited() {
		return fmt.Errorf("failed to kill %s: %w", p.Spec.Name, err)
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(grace):
		return fmt.Errorf("process %s (pid %d) did not exit after SIGKILL", p.Spec.Name, pid)
	}
}
