package executil

import (
	"context"
	"strings"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// Line returns the command with its arguments joined by spaces.
func (r RecordedCommand) Line() string {
	if len(r.Args) == 0 {
		return r.Cmd
	}
	return r.Cmd + " " + strings.Join(r.Args, " ")
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	// Key is the command name (e.g., "git"). For RunSh the key is the first
	// word of the command line.
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record("", cmd, args...)
}

// RunSh records the shell line with its directory and returns configured output/error.
func (e *RecordingExecutor) RunSh(ctx context.Context, dir, cmd string) (string, error) {
	name, rest, _ := strings.Cut(cmd, " ")
	var args []string
	if rest != "" {
		args = []string{rest}
	}
	out, err := e.record(dir, name, args...)
	return strings.TrimSpace(string(out)), err
}

func (e *RecordingExecutor) record(dir, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Dir:  dir,
		Cmd:  cmd,
		Args: args,
	})

	var out []byte
	var err error

	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}

	return out, err
}

// Lines returns every recorded command rendered with Line.
func (e *RecordingExecutor) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := make([]string, 0, len(e.Commands))
	for _, c := range e.Commands {
		lines = append(lines, c.Line())
	}
	return lines
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
