package git

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/saathi/pkg/executil"
)

// Executor runs git requests through the shell.
type Executor struct {
	exec executil.Executor
	log  zerolog.Logger
}

// NewExecutor creates a git executor.
func NewExecutor(exec executil.Executor, log zerolog.Logger) *Executor {
	return &Executor{exec: exec, log: log}
}

// Run executes req in dir and returns the trimmed output of git.
func (e *Executor) Run(ctx context.Context, dir string, req Request) (string, error) {
	line, err := BuildCommand(req)
	if err != nil {
		return "", err
	}

	e.log.Debug().Str("dir", dir).Str("command", line).Msg("running git")

	out, err := e.exec.RunSh(ctx, dir, line)
	if err != nil {
		e.log.Error().Err(err).Str("command", line).Msg("git failed")
		return out, fmt.Errorf("git %s: %w", req.Action, err)
	}
	return out, nil
}
