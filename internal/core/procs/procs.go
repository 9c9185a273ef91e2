// Package procs starts, stops and lists the processes a plan spawns.
package procs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/registry"
	"github.com/colonyops/saathi/pkg/executil"
)

// StartRequest describes a process-operation start.
type StartRequest struct {
	Name        string
	Command     string
	Dir         string
	LogFile     string
	WaitForExit bool
}

// StartResult is returned by Start. Output is only set for WaitForExit runs;
// Entry only for detached runs.
type StartResult struct {
	Output string
	Entry  *registry.ProcessEntry
}

// Info is the list snapshot of one tracked process.
type Info struct {
	Name          string  `json:"name"`
	Command       string  `json:"command"`
	PID           int     `json:"pid,omitempty"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	LogFile       string  `json:"logFile,omitempty"`
}

// Manager is the process executor.
type Manager struct {
	reg  *registry.Registry
	exec executil.Executor
	log  zerolog.Logger
	now  func() time.Time
}

// NewManager creates a process executor backed by reg.
func NewManager(reg *registry.Registry, exec executil.Executor, log zerolog.Logger) *Manager {
	return &Manager{reg: reg, exec: exec, log: log, now: time.Now}
}

// Start runs req.Command. With WaitForExit it runs to completion and returns
// its output. Otherwise the process is spawned detached in its own process
// group, registered under req.Name and observed in the background; an exit
// is reported through the registry's event channel. A process already
// registered under the same name is stopped first.
func (m *Manager) Start(ctx context.Context, req StartRequest) (StartResult, error) {
	if req.Command == "" {
		return StartResult{}, fmt.Errorf("%w: empty command", action.ErrInvalid)
	}

	if req.WaitForExit {
		out, err := m.exec.RunSh(ctx, req.Dir, req.Command)
		if err != nil {
			return StartResult{Output: out}, err
		}
		return StartResult{Output: out}, nil
	}

	if req.Name == "" {
		return StartResult{}, fmt.Errorf("%w: detached process requires a name", action.ErrInvalid)
	}

	if _, ok := m.reg.LookupProcess(req.Name); ok {
		m.log.Info().Str("name", req.Name).Msg("replacing running process")
		if err := m.Stop(req.Name); err != nil {
			return StartResult{}, fmt.Errorf("stop previous %s: %w", req.Name, err)
		}
	}

	cmd := exec.Command("sh", "-c", req.Command)
	cmd.Dir = req.Dir
	configureProc(cmd)

	out, closeOut, err := openOutput(req.LogFile)
	if err != nil {
		return StartResult{}, err
	}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		closeOut()
		return StartResult{}, &executil.CommandError{Command: req.Command, Err: err}
	}

	entry := &registry.ProcessEntry{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Command:   req.Command,
		Dir:       req.Dir,
		LogFile:   req.LogFile,
		StartTime: m.now(),
		Handle:    &handle{cmd: cmd},
	}
	m.reg.RegisterProcess(entry)

	go m.observe(entry, cmd, closeOut)

	m.log.Info().
		Str("name", req.Name).
		Int("pid", cmd.Process.Pid).
		Str("command", req.Command).
		Msg("process started")

	return StartResult{Entry: entry}, nil
}

// observe waits for the process and publishes its exit. It never touches the
// registry tables directly.
func (m *Manager) observe(entry *registry.ProcessEntry, cmd *exec.Cmd, closeOut func()) {
	err := cmd.Wait()
	closeOut()

	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	m.reg.Emit(registry.Event{
		Kind:     registry.EventProcessExited,
		Name:     entry.Name,
		ID:       entry.ID,
		ExitCode: code,
		Err:      err,
	})
}

// HandleExit applies a process exit event. The entry is removed only if it
// still belongs to the exited process.
func (m *Manager) HandleExit(ev registry.Event) {
	removed := m.reg.RemoveProcessIfID(ev.Name, ev.ID)
	m.log.Info().
		Str("name", ev.Name).
		Int("exit_code", ev.ExitCode).
		Bool("tracked", removed).
		Msg("process exited")
}

// Stop terminates the named process and removes it from the registry. A
// process that already exited on its own still counts as stopped.
func (m *Manager) Stop(name string) error {
	entry, ok := m.reg.LookupProcess(name)
	if !ok {
		return fmt.Errorf("%w: process %q", action.ErrNotFound, name)
	}

	m.reg.RemoveProcess(name)
	if err := entry.Handle.Stop(); err != nil {
		m.log.Warn().Err(err).Str("name", name).Msg("signal process")
	}

	m.log.Info().Str("name", name).Msg("process stopped")
	return nil
}

// List returns a snapshot of all tracked processes sorted by name.
func (m *Manager) List() []Info {
	now := m.now()
	entries := m.reg.Processes()
	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		info := Info{
			Name:          e.Name,
			Command:       e.Command,
			UptimeSeconds: e.Uptime(now).Seconds(),
			LogFile:       e.LogFile,
		}
		if h, ok := e.Handle.(*handle); ok && h.cmd.Process != nil {
			info.PID = h.cmd.Process.Pid
		}
		out = append(out, info)
	}
	return out
}

func openOutput(logFile string) (io.Writer, func(), error) {
	if logFile == "" {
		// nil streams are connected to the null device without copy goroutines
		return nil, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open process log: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

type handle struct {
	cmd *exec.Cmd
}

func (h *handle) Stop() error {
	return terminate(h.cmd)
}
