// Package history records one entry per parsed plan.
package history

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// Entry is one instruction that produced a plan.
type Entry struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
}

// Store persists entries between sessions.
type Store interface {
	// List returns entries newest first.
	List(ctx context.Context) ([]Entry, error)
	// Get returns the entry with id.
	Get(ctx context.Context, id string) (Entry, error)
	// Save prepends entry and prunes to maxEntries.
	Save(ctx context.Context, entry Entry, maxEntries int) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// Log is the in-memory, append-only history of a session. When persistence
// is enabled each recorded entry is also saved to the store.
type Log struct {
	mu      sync.Mutex
	entries []Entry

	store   Store
	limit   int
	persist bool
}

// NewLog creates a log. store may be nil for a memory-only log.
func NewLog(store Store, limit int, persist bool) *Log {
	return &Log{store: store, limit: limit, persist: persist}
}

// SetPersist toggles saving new entries to the store.
func (l *Log) SetPersist(persist bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.persist = persist
}

// SetLimit changes how many persisted entries are kept.
func (l *Log) SetLimit(limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = limit
}

// Record appends e. The in-memory append always happens; a store failure is
// returned for the caller to report.
func (l *Log) Record(ctx context.Context, e Entry) error {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	store, limit, persist := l.store, l.limit, l.persist
	l.mu.Unlock()

	if !persist || store == nil {
		return nil
	}
	return store.Save(ctx, e, limit)
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Recent returns up to n entries, most recent first.
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := slices.Clone(l.entries[len(l.entries)-n:])
	slices.Reverse(out)
	return out
}
