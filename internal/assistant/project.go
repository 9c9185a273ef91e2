package assistant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/pkgmgr"
)

// projectRoot returns the directory a project-setup action works in: Path
// resolved against the session directory, or Name under the default
// projects directory.
func (s *Session) projectRoot(a action.Action) string {
	if a.Path != "" {
		return s.resolve(a.Path)
	}
	return filepath.Join(s.resolve(s.cfg.DefaultProjectsDir), a.Name)
}

// runProject creates the project root, moves the session into it and runs
// the steps in order. The first failing step stops the sequence and moves the
// session back; files created by earlier steps stay. On success the session
// stays in the project root and the result reports it in Cwd.
func (s *Session) runProject(ctx context.Context, a action.Action) (action.Result, error) {
	root := s.projectRoot(a)
	if err := os.MkdirAll(root, 0o755); err != nil {
		err = fmt.Errorf("create project %s: %w", root, err)
		return action.Failed(a, err), err
	}

	prev := s.cwd
	s.cwd = root

	var steps []action.Result
	for i, step := range a.Steps {
		res, err := s.ExecuteAction(ctx, projectStep(step))
		steps = append(steps, res)
		if err == nil && !res.Success {
			err = errors.New(res.Message)
		}
		if err != nil {
			s.cwd = prev
			err = fmt.Errorf("step %d (%s): %w", i, step.Type, err)
			failed := action.Failed(a, err)
			failed.Steps = steps
			return failed, err
		}
	}

	s.log.Info().Ctx(ctx).Str("root", root).Int("steps", len(steps)).Msg("project ready")

	res := action.Ok(a, "project ready at "+root)
	res.Cwd = root
	res.Steps = steps
	return res, nil
}

// projectStep turns a project-setup step into the action of the executor
// that runs it.
func projectStep(step action.Action) action.Action {
	a := step
	switch string(step.Type) {
	case action.StepMkdir:
		a.Type, a.Action = action.KindFile, "mkdir"
		a.Options.Recursive = true
	case action.StepWrite:
		a.Type, a.Action = action.KindFile, "write"
	case action.StepExec:
		a.Type, a.Action = action.KindProcess, "start"
		a.Options.WaitForExit = true
	case action.StepInstall:
		a.Type = action.KindPackage
		if a.Action == "" {
			a.Action = "install"
		}
		if a.Manager == "" {
			a.Manager = string(pkgmgr.NPM)
		}
	case action.StepStart:
		a.Type, a.Action = action.KindProcess, "start"
		a.Options.WaitForExit = false
	case action.StepGit:
		a.Type = action.KindGit
	case action.StepDatabase:
		a.Type = action.KindDatabase
	}
	return a
}
