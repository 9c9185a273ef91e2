// Package assistant runs plans against a session: the working directory,
// the resource registry, the executors and the command history.
package assistant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/uber-go/tally"

	"github.com/colonyops/saathi/internal/core/config"
	"github.com/colonyops/saathi/internal/core/database"
	"github.com/colonyops/saathi/internal/core/deploy"
	"github.com/colonyops/saathi/internal/core/fileops"
	"github.com/colonyops/saathi/internal/core/git"
	"github.com/colonyops/saathi/internal/core/history"
	"github.com/colonyops/saathi/internal/core/logging"
	"github.com/colonyops/saathi/internal/core/planner"
	"github.com/colonyops/saathi/internal/core/procs"
	"github.com/colonyops/saathi/internal/core/registry"
	"github.com/colonyops/saathi/pkg/executil"
)

// Options configures a Session. Zero fields get production defaults.
type Options struct {
	Config    *config.Config
	Cwd       string
	Exec      executil.Executor
	Planner   planner.Planner
	Connector database.Connector
	// Uploader is created from Config.Deploy on first use when nil.
	Uploader deploy.Uploader
	History  *history.Log
	Stats    tally.Scope
	// OnEvent is called for every background event after the session has
	// applied it.
	OnEvent func(registry.Event)
}

// Session owns the state a sequence of plans shares. It is driven by a single
// goroutine; background producers only reach it through registry events.
type Session struct {
	cfg *config.Config
	cwd string

	reg     *registry.Registry
	exec    executil.Executor
	procs   *procs.Manager
	files   *fileops.Files
	git     *git.Executor
	db      *database.Executor
	planner planner.Planner
	history *history.Log

	uploader deploy.Uploader

	stats   tally.Scope
	onEvent func(registry.Event)
	log     zerolog.Logger

	state State
}

// New creates a session.
func New(opts Options) (*Session, error) {
	if opts.Config == nil {
		cfg := config.DefaultConfig()
		opts.Config = &cfg
	}
	if opts.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		opts.Cwd = wd
	}
	if opts.Exec == nil {
		opts.Exec = &executil.RealExecutor{}
	}
	if opts.Connector == nil {
		opts.Connector = database.MongoConnector{}
	}
	if opts.History == nil {
		opts.History = history.NewLog(nil, 0, false)
	}
	if opts.Stats == nil {
		opts.Stats = tally.NoopScope
	}

	cwd, err := filepath.Abs(opts.Cwd)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	reg := registry.New(opts.Stats)

	s := &Session{
		cfg:      opts.Config,
		cwd:      cwd,
		reg:      reg,
		exec:     opts.Exec,
		procs:    procs.NewManager(reg, opts.Exec, logging.Component("procs")),
		files:    fileops.New(reg, logging.Component("files")),
		git:      git.NewExecutor(opts.Exec, logging.Component("git")),
		db:       database.NewExecutor(reg, opts.Connector, logging.Component("database")),
		planner:  opts.Planner,
		history:  opts.History,
		uploader: opts.Uploader,
		stats:    opts.Stats,
		onEvent:  opts.OnEvent,
		log:      logging.Component("session"),
		state:    StateIdle,
	}
	return s, nil
}

// Cwd returns the session working directory.
func (s *Session) Cwd() string { return s.cwd }

// Config returns the live configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Registry returns the resource registry.
func (s *Session) Registry() *registry.Registry { return s.reg }

// History returns the command history.
func (s *Session) History() *history.Log { return s.history }

// Processes returns a snapshot of the tracked processes.
func (s *Session) Processes() []procs.Info { return s.procs.List() }

// SetPlanner replaces the planner, for example after the API key changed.
func (s *Session) SetPlanner(p planner.Planner) { s.planner = p }

// Chdir moves the session to dir, resolved against the current directory.
func (s *Session) Chdir(dir string) error {
	target := fileops.Resolve(s.cwd, dir)
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("chdir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("chdir %s: not a directory", dir)
	}
	s.cwd = target
	return nil
}

func (s *Session) resolve(p string) string {
	return fileops.Resolve(s.cwd, p)
}

// withDir runs fn with the session directory moved to dir and restores the
// previous directory afterwards, whether fn fails or not. An empty dir runs
// fn in place.
func (s *Session) withDir(dir string, fn func() error) error {
	if dir == "" {
		return fn()
	}

	prev := s.cwd
	s.cwd = s.resolve(dir)
	defer func() { s.cwd = prev }()

	return fn()
}

// HandleEvent applies one background event: process exits release their
// registry entry, watch changes run the watcher's onChange command.
func (s *Session) HandleEvent(ctx context.Context, ev registry.Event) {
	switch ev.Kind {
	case registry.EventProcessExited:
		s.procs.HandleExit(ev)
	case registry.EventWatchChange:
		entry, ok := s.reg.LookupWatcher(ev.WatchPath)
		if ok && entry.OnChange != "" {
			out, err := s.exec.RunSh(ctx, s.cwd, entry.OnChange)
			if err != nil {
				s.log.Error().Err(err).Str("path", ev.Path).Msg("onChange command failed")
			} else {
				s.log.Info().Str("path", ev.Path).Str("output", out).Msg("onChange command ran")
			}
		}
	}

	if s.onEvent != nil {
		s.onEvent(ev)
	}
}

// Sync applies every buffered background event and returns how many were
// handled.
func (s *Session) Sync(ctx context.Context) int {
	events := s.reg.Pending()
	for _, ev := range events {
		s.HandleEvent(ctx, ev)
	}
	return len(events)
}

// Shutdown stops every process, closes every watcher and connection. All
// resources are attempted; the joined failures are logged and returned.
func (s *Session) Shutdown(ctx context.Context) error {
	err := s.reg.Shutdown(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("shutdown finished with errors")
	} else {
		s.log.Info().Msg("shutdown complete")
	}
	return err
}

// deployUploader returns the configured uploader, creating it from the deploy
// settings on first use.
func (s *Session) deployUploader() (deploy.Uploader, error) {
	if s.uploader != nil {
		return s.uploader, nil
	}
	u, err := deploy.NewMinioUploader(s.cfg.Deploy)
	if err != nil {
		return nil, err
	}
	s.uploader = u
	return u, nil
}
