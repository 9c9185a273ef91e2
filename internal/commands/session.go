package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/uber-go/tally"

	"github.com/colonyops/saathi/internal/assistant"
	"github.com/colonyops/saathi/internal/core/history"
	"github.com/colonyops/saathi/internal/core/logging"
	"github.com/colonyops/saathi/internal/core/planner"
	"github.com/colonyops/saathi/internal/core/registry"
	"github.com/colonyops/saathi/internal/store/jsonfile"
)

const statsInterval = 30 * time.Second

// newSession wires a session from the loaded config. The returned closer
// stops metric reporting; the caller shuts the session down first.
func (f *Flags) newSession(ctx context.Context, onEvent func(registry.Event)) (*assistant.Session, io.Closer, error) {
	cfg := f.Config

	pl, err := newPlanner(ctx, f.apiKey(), cfg.Model)
	if err != nil {
		return nil, nil, err
	}

	stats, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   "saathi",
		Reporter: logging.NewStatsReporter(logging.Component("stats")),
	}, statsInterval)

	hist := history.NewLog(jsonfile.NewHistoryStore(f.HistoryPath()), cfg.HistoryLimit, cfg.AutoSave)

	sess, err := assistant.New(assistant.Options{
		Config:  cfg,
		Planner: pl,
		History: hist,
		Stats:   stats,
		OnEvent: onEvent,
	})
	if err != nil {
		_ = closer.Close()
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	return sess, closer, nil
}

// newPlanner returns nil without an API key so the session reports
// planner.ErrNoAPIKey on use instead of failing at startup.
func newPlanner(ctx context.Context, apiKey, model string) (planner.Planner, error) {
	if apiKey == "" {
		return nil, nil
	}
	g, err := planner.NewGemini(ctx, apiKey, model)
	if err != nil {
		return nil, fmt.Errorf("create planner: %w", err)
	}
	return g, nil
}
