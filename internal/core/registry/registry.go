// Package registry tracks the live resources a session owns: spawned
// processes, directory watchers and database connections.
//
// A Registry is owned by a single goroutine (the shell loop). Background
// producers such as process exit observers and watchers never touch the maps;
// they publish an Event through Emit and the owner applies it after reading
// from Events.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/uber-go/tally"
)

const eventBufferSize = 256

// ProcessHandle is the owned handle of a spawned process.
type ProcessHandle interface {
	// Stop signals the process (and its group) to terminate.
	Stop() error
}

// Closer releases a watcher or connection.
type Closer interface {
	Close(ctx context.Context) error
}

// ProcessEntry is one tracked long-running process.
type ProcessEntry struct {
	ID        string
	Name      string
	Command   string
	Dir       string
	LogFile   string
	StartTime time.Time
	Handle    ProcessHandle
}

// Uptime is measured from registry insertion, not from the child.
func (e *ProcessEntry) Uptime(now time.Time) time.Duration {
	return now.Sub(e.StartTime)
}

// WatcherEntry is one live directory watcher.
type WatcherEntry struct {
	Path     string
	Pattern  string
	OnChange string
	Watcher  Closer
}

// ConnEntry is one open database connection.
type ConnEntry struct {
	ConnString string
	DBType     string
	Conn       Closer
}

// Registry holds the resource tables. It is not safe for concurrent use; see
// the package documentation.
type Registry struct {
	processes map[string]*ProcessEntry
	watchers  map[string]*WatcherEntry
	conns     map[string]*ConnEntry

	events chan Event
	done   chan struct{}
	closed bool

	stats tally.Scope
}

// New creates an empty registry reporting gauges to stats.
func New(stats tally.Scope) *Registry {
	if stats == nil {
		stats = tally.NoopScope
	}
	return &Registry{
		processes: make(map[string]*ProcessEntry),
		watchers:  make(map[string]*WatcherEntry),
		conns:     make(map[string]*ConnEntry),
		events:    make(chan Event, eventBufferSize),
		done:      make(chan struct{}),
		stats:     stats,
	}
}

// RegisterProcess inserts or replaces the entry for e.Name. Callers stop any
// previous entry first.
func (r *Registry) RegisterProcess(e *ProcessEntry) {
	r.processes[e.Name] = e
	r.updateGauges()
}

// LookupProcess returns the entry registered under name.
func (r *Registry) LookupProcess(name string) (*ProcessEntry, bool) {
	e, ok := r.processes[name]
	return e, ok
}

// RemoveProcess deletes the entry for name and reports whether it existed.
func (r *Registry) RemoveProcess(name string) bool {
	if _, ok := r.processes[name]; !ok {
		return false
	}
	delete(r.processes, name)
	r.updateGauges()
	return true
}

// RemoveProcessIfID deletes the entry for name only when it still belongs to
// the process identified by id. Exit events of a replaced process are ignored.
func (r *Registry) RemoveProcessIfID(name, id string) bool {
	e, ok := r.processes[name]
	if !ok || e.ID != id {
		return false
	}
	return r.RemoveProcess(name)
}

// Processes returns the entries sorted by name.
func (r *Registry) Processes() []*ProcessEntry {
	return sortedValues(r.processes)
}

// RegisterWatcher inserts the entry for e.Path.
func (r *Registry) RegisterWatcher(e *WatcherEntry) {
	r.watchers[e.Path] = e
	r.updateGauges()
}

// LookupWatcher returns the watcher for path.
func (r *Registry) LookupWatcher(path string) (*WatcherEntry, bool) {
	e, ok := r.watchers[path]
	return e, ok
}

// RemoveWatcher deletes the watcher for path and reports whether it existed.
func (r *Registry) RemoveWatcher(path string) bool {
	if _, ok := r.watchers[path]; !ok {
		return false
	}
	delete(r.watchers, path)
	r.updateGauges()
	return true
}

// Watchers returns the entries sorted by path.
func (r *Registry) Watchers() []*WatcherEntry {
	return sortedValues(r.watchers)
}

// RegisterConn inserts the connection for e.ConnString.
func (r *Registry) RegisterConn(e *ConnEntry) {
	r.conns[e.ConnString] = e
	r.updateGauges()
}

// LookupConn returns the connection for connString.
func (r *Registry) LookupConn(connString string) (*ConnEntry, bool) {
	e, ok := r.conns[connString]
	return e, ok
}

// RemoveConn deletes the connection for connString and reports whether it existed.
func (r *Registry) RemoveConn(connString string) bool {
	if _, ok := r.conns[connString]; !ok {
		return false
	}
	delete(r.conns, connString)
	r.updateGauges()
	return true
}

// Conns returns the entries sorted by connection string.
func (r *Registry) Conns() []*ConnEntry {
	return sortedValues(r.conns)
}

// Shutdown stops every process, closes every watcher and every connection.
// Each resource is attempted regardless of earlier failures and all tables
// are empty afterwards. The returned error joins the individual failures.
func (r *Registry) Shutdown(ctx context.Context) error {
	// Release producers blocked in Emit before waiting on them.
	if !r.closed {
		r.closed = true
		close(r.done)
	}

	var errs []error

	for _, name := range sortedKeys(r.processes) {
		e := r.processes[name]
		if e.Handle == nil {
			delete(r.processes, name)
			continue
		}
		if err := e.Handle.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop process %s: %w", name, err))
		}
		delete(r.processes, name)
	}

	for _, path := range sortedKeys(r.watchers) {
		if w := r.watchers[path].Watcher; w != nil {
			if err := w.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("close watcher %s: %w", path, err))
			}
		}
		delete(r.watchers, path)
	}

	for _, cs := range sortedKeys(r.conns) {
		if c := r.conns[cs].Conn; c != nil {
			if err := c.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("close connection %s: %w", r.conns[cs].DBType, err))
			}
		}
		delete(r.conns, cs)
	}

	r.updateGauges()

	return errors.Join(errs...)
}

func (r *Registry) updateGauges() {
	r.stats.Gauge("registry.processes").Update(float64(len(r.processes)))
	r.stats.Gauge("registry.watchers").Update(float64(len(r.watchers)))
	r.stats.Gauge("registry.connections").Update(float64(len(r.conns)))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedValues[V any](m map[string]V) []V {
	keys := sortedKeys(m)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
