package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/history"
	"github.com/colonyops/saathi/internal/core/logging"
	"github.com/colonyops/saathi/internal/core/plan"
	"github.com/colonyops/saathi/internal/core/planner"
)

// State is the dispatcher state.
type State string

const (
	StateAwaitingInput State = "awaiting-input"
	StateParsing       State = "parsing"
	StateExecuting     State = "executing"
	StateIdle          State = "idle"
)

// Outcome is what one instruction or plan run produced. Results holds one
// entry per executed action, the failing one included.
type Outcome struct {
	Plan    *plan.Plan
	Results []action.Result
	// Skipped counts actions of unknown kind that were passed over.
	Skipped int
}

// State returns the current dispatcher state.
func (s *Session) State() State { return s.state }

// MarkAwaitingInput is called by the shell before it blocks on input.
func (s *Session) MarkAwaitingInput() { s.state = StateAwaitingInput }

// Handle sends instruction to the planner, parses the reply and executes the
// plan. A parse failure executes nothing. Every parsed plan is recorded in
// the history, even when execution fails afterwards.
func (s *Session) Handle(ctx context.Context, instruction string) (*Outcome, error) {
	s.state = StateParsing
	defer func() { s.state = StateIdle }()

	p, err := s.parse(ctx, instruction)
	if err != nil {
		s.stats.Counter("plans.failed").Inc(1)
		s.log.Error().Err(err).Str("instruction", instruction).Msg("plan failed")
		return &Outcome{}, err
	}
	s.stats.Counter("plans.parsed").Inc(1)

	s.record(ctx, instruction, p)

	return s.Execute(ctx, p)
}

func (s *Session) parse(ctx context.Context, instruction string) (*plan.Plan, error) {
	if s.planner == nil {
		return nil, planner.ErrNoAPIKey
	}

	raw, err := s.planner.Plan(ctx, planner.Request{
		Instruction: instruction,
		Cwd:         s.cwd,
		Language:    s.cfg.Language,
	})
	if err != nil {
		return nil, err
	}

	return plan.Parse(raw)
}

func (s *Session) record(ctx context.Context, instruction string, p *plan.Plan) {
	err := s.history.Record(ctx, history.Entry{
		ID:          uuid.NewString(),
		Command:     instruction,
		Timestamp:   time.Now(),
		Type:        p.Type,
		Description: p.Context.Description,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("save history")
	}
}

// Execute runs the actions of p in order. The first failing action aborts
// the rest; resources created by earlier actions are left in place.
func (s *Session) Execute(ctx context.Context, p *plan.Plan) (*Outcome, error) {
	s.state = StateExecuting
	defer func() { s.state = StateIdle }()

	ctx = logging.WithPlanID(ctx, p.ID)
	out := &Outcome{Plan: p}

	for i, a := range p.Actions {
		actx := logging.WithActionIndex(ctx, i)

		if !a.Type.IsValid() {
			err := fmt.Errorf("%w: action type %q", action.ErrUnsupported, a.Type)
			if s.cfg.FailOnUnknown() {
				s.log.Error().Ctx(actx).Err(err).Msg("unknown action")
				return out, fmt.Errorf("action %d: %w", i, err)
			}
			s.log.Warn().Ctx(actx).Str("type", string(a.Type)).Msg("skipping unknown action")
			out.Skipped++
			continue
		}

		s.log.Info().Ctx(actx).Str("action", a.Summary()).Msg("executing")

		scope := s.stats.Tagged(map[string]string{"kind": string(a.Type)})
		scope.Counter("actions.executed").Inc(1)

		res, err := s.ExecuteAction(actx, a)
		out.Results = append(out.Results, res)

		if err == nil && !res.Success {
			err = errors.New(res.Message)
		}
		if err != nil {
			scope.Counter("actions.failed").Inc(1)
			s.log.Error().Ctx(actx).Err(err).Str("action", a.Summary()).Msg("action failed")
			return out, fmt.Errorf("action %d (%s): %w", i, a.Type, err)
		}
	}

	return out, nil
}

// ExecuteAction validates a and routes it to the executor of its kind.
func (s *Session) ExecuteAction(ctx context.Context, a action.Action) (action.Result, error) {
	if err := a.Validate(); err != nil {
		return action.Failed(a, err), err
	}

	switch a.Type {
	case action.KindFile:
		return s.runFile(ctx, a)
	case action.KindPackage:
		return s.runPackage(ctx, a)
	case action.KindProcess:
		return s.runProcess(ctx, a)
	case action.KindDatabase:
		return s.db.Execute(ctx, a)
	case action.KindGit:
		return s.runGit(ctx, a)
	case action.KindProjectSetup:
		return s.runProject(ctx, a)
	case action.KindDeploy:
		return s.runDeploy(ctx, a)
	}

	err := fmt.Errorf("%w: action type %q", action.ErrUnsupported, a.Type)
	return action.Failed(a, err), err
}
