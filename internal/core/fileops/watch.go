package fileops

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/registry"
)

// WatchOptions configures a directory watcher.
type WatchOptions struct {
	// Pattern is a doublestar glob matched against the changed file's path
	// relative to the watched directory. Empty matches everything.
	Pattern string
	// OnChange is a shell command the session runs for each change.
	OnChange string
}

// Watch installs a watcher on dir. A second watch on the same path is a
// no-op and reports created=false.
func (f *Files) Watch(dir string, opts WatchOptions) (created bool, err error) {
	if _, ok := f.reg.LookupWatcher(dir); ok {
		f.log.Debug().Str("path", dir).Msg("already watching")
		return false, nil
	}

	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return false, fmt.Errorf("%w: bad pattern %q", action.ErrInvalid, opts.Pattern)
	}

	w, err := newDirWatcher(dir, opts.Pattern, f.reg, f.log)
	if err != nil {
		return false, fmt.Errorf("watch %s: %w", dir, err)
	}

	f.reg.RegisterWatcher(&registry.WatcherEntry{
		Path:     dir,
		Pattern:  opts.Pattern,
		OnChange: opts.OnChange,
		Watcher:  w,
	})
	f.log.Info().Str("path", dir).Msg("watching directory")
	return true, nil
}

// Unwatch closes the watcher on dir.
func (f *Files) Unwatch(ctx context.Context, dir string) error {
	entry, ok := f.reg.LookupWatcher(dir)
	if !ok {
		return fmt.Errorf("%w: watcher %q", action.ErrNotFound, dir)
	}
	f.reg.RemoveWatcher(dir)
	if err := entry.Watcher.Close(ctx); err != nil {
		return fmt.Errorf("unwatch %s: %w", dir, err)
	}
	f.log.Info().Str("path", dir).Msg("stopped watching directory")
	return nil
}

// dirWatcher forwards fsnotify events for one directory to the registry.
type dirWatcher struct {
	dir     string
	pattern string
	watcher *fsnotify.Watcher
	reg     *registry.Registry
	log     zerolog.Logger

	once sync.Once
	wg   sync.WaitGroup
}

func newDirWatcher(dir, pattern string, reg *registry.Registry, log zerolog.Logger) (*dirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	dw := &dirWatcher{
		dir:     dir,
		pattern: pattern,
		watcher: watcher,
		reg:     reg,
		log:     log,
	}

	dw.wg.Add(1)
	go dw.run()

	return dw, nil
}

// run processes filesystem events until the fsnotify channels close.
func (dw *dirWatcher) run() {
	defer dw.wg.Done()

	for {
		select {
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.handleEvent(event)
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.log.Warn().Err(err).Str("path", dw.dir).Msg("watcher error")
		}
	}
}

func (dw *dirWatcher) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(dw.dir, event.Name)
	if err != nil {
		rel = filepath.Base(event.Name)
	}

	if dw.pattern != "" {
		if ok, _ := doublestar.Match(dw.pattern, filepath.ToSlash(rel)); !ok {
			return
		}
	}

	dw.log.Info().
		Str("path", dw.dir).
		Str("file", rel).
		Str("op", event.Op.String()).
		Msg("file changed")

	ok := dw.reg.TryEmit(registry.Event{
		Kind:      registry.EventWatchChange,
		WatchPath: dw.dir,
		Path:      event.Name,
		Op:        event.Op.String(),
	})
	if !ok {
		dw.log.Warn().Str("path", dw.dir).Str("file", rel).Msg("change event dropped")
	}
}

// Close stops the watcher and waits for its goroutine.
func (dw *dirWatcher) Close(context.Context) error {
	var err error
	dw.once.Do(func() {
		err = dw.watcher.Close()
		dw.wg.Wait()
	})
	return err
}
