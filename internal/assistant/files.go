package assistant

import (
	"context"
	"fmt"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/fileops"
)

func (s *Session) runFile(ctx context.Context, a action.Action) (action.Result, error) {
	path := s.resolve(a.Path)
	res := action.Ok(a, "")

	var err error
	switch a.Action {
	case "read":
		res.Content, err = s.files.Read(path)
		res.Message = "read " + path
	case "write":
		err = s.files.Write(path, a.Content)
		res.Message = "wrote " + path
	case "append":
		err = s.files.Append(path, a.Content)
		res.Message = "appended to " + path
	case "delete":
		err = s.files.Delete(path)
		res.Message = "deleted " + path
	case "rename":
		newPath := s.resolve(a.NewPath)
		err = s.files.Rename(path, newPath)
		res.Message = fmt.Sprintf("renamed %s to %s", path, newPath)
	case "mkdir":
		err = s.files.Mkdir(path, a.Options.Recursive)
		res.Message = "created " + path
	case "rmdir":
		err = s.files.Rmdir(path, a.Options.Recursive, a.Options.Force)
		res.Message = "removed " + path
	case "list":
		var entries []fileops.Entry
		entries, err = s.files.List(path, a.Options.Pattern, a.Options.Recursive)
		res.Data = entries
		res.Message = fmt.Sprintf("%d entries in %s", len(entries), path)
	case "watch":
		var created bool
		created, err = s.files.Watch(path, fileops.WatchOptions{
			Pattern:  a.Options.Pattern,
			OnChange: a.Options.OnChange,
		})
		res.Message = "watching " + path
		if !created {
			res.Message = "already watching " + path
		}
	case "unwatch":
		err = s.files.Unwatch(ctx, path)
		res.Message = "stopped watching " + path
	default:
		err = fmt.Errorf("%w: file action %q", action.ErrUnsupported, a.Action)
	}

	if err != nil {
		return action.Failed(a, err), err
	}
	return res, nil
}
