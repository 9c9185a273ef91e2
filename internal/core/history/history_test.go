package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saved []Entry
	max   []int
	err   error
}

func (m *memStore) List(context.Context) ([]Entry, error) { return m.saved, nil }

func (m *memStore) Get(_ context.Context, id string) (Entry, error) {
	for _, e := range m.saved {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (m *memStore) Save(_ context.Context, e Entry, maxEntries int) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append([]Entry{e}, m.saved...)
	m.max = append(m.max, maxEntries)
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.saved = nil
	return nil
}

func entry(cmd string) Entry {
	return Entry{ID: cmd, Command: cmd, Timestamp: time.Now(), Type: "file-operation"}
}

func TestLog_RecentMostRecentFirst(t *testing.T) {
	l := NewLog(nil, 0, false)
	for _, c := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		require.NoError(t, l.Record(context.Background(), entry(c)))
	}

	recent := l.Recent(5)
	require.Len(t, recent, 5)
	got := make([]string, 0, len(recent))
	for _, e := range recent {
		got = append(got, e.Command)
	}
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, got)

	assert.Len(t, l.Recent(50), 7)
	assert.Len(t, l.Recent(0), 7)
	assert.Equal(t, 7, l.Len())
}

func TestLog_RecentIsACopy(t *testing.T) {
	l := NewLog(nil, 0, false)
	require.NoError(t, l.Record(context.Background(), entry("a")))

	recent := l.Recent(1)
	recent[0].Command = "mutated"
	assert.Equal(t, "a", l.Recent(1)[0].Command)
}

func TestLog_Persistence(t *testing.T) {
	store := &memStore{}
	l := NewLog(store, 3, false)

	require.NoError(t, l.Record(context.Background(), entry("memory only")))
	assert.Empty(t, store.saved)

	l.SetPersist(true)
	l.SetLimit(10)
	require.NoError(t, l.Record(context.Background(), entry("saved")))
	require.Len(t, store.saved, 1)
	assert.Equal(t, "saved", store.saved[0].Command)
	assert.Equal(t, []int{10}, store.max)
}

func TestLog_StoreFailureKeepsMemoryEntry(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	l := NewLog(store, 10, true)

	err := l.Record(context.Background(), entry("x"))
	require.Error(t, err)
	assert.Equal(t, 1, l.Len())
}
