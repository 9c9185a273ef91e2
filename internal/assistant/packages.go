package assistant

import (
	"context"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/pkgmgr"
)

// runPackage builds the manager command before touching the shell and runs
// it inside a.Directory when one is given. The session directory is
// restored whether the command succeeds or not.
func (s *Session) runPackage(ctx context.Context, a action.Action) (action.Result, error) {
	line, err := pkgmgr.BuildCommand(pkgmgr.RequestFrom(a))
	if err != nil {
		return action.Failed(a, err), err
	}

	var out string
	err = s.withDir(a.Directory, func() error {
		var err error
		out, err = s.exec.RunSh(ctx, s.cwd, line)
		return err
	})
	if err != nil {
		res := action.Failed(a, err)
		res.Output = out
		return res, err
	}

	res := action.Ok(a, line)
	res.Output = out
	return res, nil
}
