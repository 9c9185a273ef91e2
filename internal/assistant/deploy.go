package assistant

import (
	"context"
	"fmt"

	"github.com/colonyops/saathi/internal/core/action"
)

// DefaultBuildCommand is run by a build step without a command.
const DefaultBuildCommand = "npm run build"

// runDeploy runs the deployment steps in order and stops at the first
// failure. Deployment never moves the session directory.
func (s *Session) runDeploy(ctx context.Context, a action.Action) (action.Result, error) {
	var steps []action.Result
	for i, step := range a.Steps {
		res, err := s.deployStep(ctx, step)
		steps = append(steps, res)
		if err != nil {
			err = fmt.Errorf("step %d (%s): %w", i, step.Type, err)
			failed := action.Failed(a, err)
			failed.Steps = steps
			return failed, err
		}
	}

	res := action.Ok(a, fmt.Sprintf("deployed in %d steps", len(steps)))
	res.Steps = steps
	return res, nil
}

func (s *Session) deployStep(ctx context.Context, step action.Action) (action.Result, error) {
	res := action.Result{Kind: action.KindDeploy, Action: string(step.Type), Success: true}
	fail := func(err error) (action.Result, error) {
		res.Success = false
		res.Message = err.Error()
		return res, err
	}

	switch string(step.Type) {
	case action.StepBuild, action.StepInvoke:
		cmd := step.Command
		if cmd == "" {
			if string(step.Type) != action.StepBuild {
				return fail(fmt.Errorf("%w: invoke step requires command", action.ErrInvalid))
			}
			cmd = DefaultBuildCommand
		}
		err := s.withDir(step.Directory, func() error {
			var err error
			res.Output, err = s.exec.RunSh(ctx, s.cwd, cmd)
			return err
		})
		if err != nil {
			return fail(err)
		}
		res.Message = cmd

	case action.StepConfig:
		path := s.resolve(step.Path)
		if err := s.files.Write(path, step.Content); err != nil {
			return fail(err)
		}
		res.Message = "wrote " + path

	case action.StepUpload:
		uploader, err := s.deployUploader()
		if err != nil {
			return fail(err)
		}
		uploaded, err := uploader.Upload(ctx, step.Bucket, step.Key, s.resolve(step.Path))
		res.Data = uploaded
		if err != nil {
			return fail(err)
		}
		res.Message = fmt.Sprintf("uploaded %d objects", len(uploaded))

	default:
		return fail(fmt.Errorf("%w: deploy step %q", action.ErrUnsupported, step.Type))
	}

	return res, nil
}
