// Package executil provides shell execution utilities.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// CommandError is returned when a shelled-out command exits nonzero or cannot
// be spawned. Stderr is capped at 500 bytes.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s: %v", e.Command, e.Stderr, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code, or -1 when the command never ran.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// RunSh executes a shell command in the given directory (empty means inherit cwd)
// and returns its trimmed stdout. There is exactly one attempt.
//
// On failure the returned error is a *CommandError combining the native error
// and the captured stderr. The original *exec.ExitError is preserved via
// wrapping so callers can inspect exit codes with errors.As.
func RunSh(ctx context.Context, dir, cmd string) (string, error) {
	c := exec.CommandContext(ctx, "sh", "-c", cmd)
	if dir != "" {
		c.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}
	if err := c.Run(); err != nil {
		return strings.TrimSpace(stdout.String()), &CommandError{
			Command: cmd,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Executor runs shell commands.
type Executor interface {
	// Run executes a binary with arguments and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// RunSh executes a command line through the shell in dir and returns its
	// trimmed stdout.
	RunSh(ctx context.Context, dir, cmd string) (string, error)
}

// RealExecutor calls actual shell commands.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// RunSh implements Executor using the package level RunSh.
func (e *RealExecutor) RunSh(ctx context.Context, dir, cmd string) (string, error) {
	return RunSh(ctx, dir, cmd)
}
