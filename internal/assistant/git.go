package assistant

import (
	"context"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/git"
)

func (s *Session) runGit(ctx context.Context, a action.Action) (action.Result, error) {
	req := git.RequestFrom(a)

	var out string
	err := s.withDir(a.Directory, func() error {
		var err error
		out, err = s.git.Run(ctx, s.cwd, req)
		return err
	})
	if err != nil {
		res := action.Failed(a, err)
		res.Output = out
		return res, err
	}

	msg := "git " + a.Action
	if a.Action == "clone" {
		msg = "cloned " + git.ExtractRepoName(a.Repository)
	}
	res := action.Ok(a, msg)
	res.Output = out
	return res, nil
}
