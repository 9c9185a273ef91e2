package assistant

import (
	"context"
	"fmt"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/procs"
)

func (s *Session) runProcess(ctx context.Context, a action.Action) (action.Result, error) {
	switch a.Action {
	case "start":
		req := procs.StartRequest{
			Name:        a.ProcessName(),
			Command:     a.Command,
			Dir:         s.resolve(a.Options.Cwd),
			WaitForExit: a.Options.WaitForExit,
		}
		if a.Options.LogFile != "" {
			req.LogFile = s.resolve(a.Options.LogFile)
		}

		started, err := s.procs.Start(ctx, req)
		if err != nil {
			res := action.Failed(a, err)
			res.Output = started.Output
			return res, err
		}

		if req.WaitForExit {
			res := action.Ok(a, "ran "+a.Command)
			res.Output = started.Output
			return res, nil
		}
		return action.Ok(a, fmt.Sprintf("started %s", req.Name)), nil

	case "stop":
		name := a.ProcessName()
		if err := s.procs.Stop(name); err != nil {
			return action.Failed(a, err), err
		}
		return action.Ok(a, "stopped "+name), nil

	case "list":
		list := s.procs.List()
		res := action.Ok(a, fmt.Sprintf("%d running", len(list)))
		res.Data = list
		return res, nil
	}

	err := fmt.Errorf("%w: process action %q", action.ErrUnsupported, a.Action)
	return action.Failed(a, err), err
}
