// Package jsonfile persists saathi data as JSON files.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/saathi/internal/core/history"
)

var _ history.Store = (*HistoryStore)(nil)

// historyFile is the root JSON structure stored on disk.
type historyFile struct {
	Version int             `json:"version"`
	Entries []history.Entry `json:"entries"`
}

const historyVersion = 1

// HistoryStore keeps history entries in a single JSON file, newest first.
type HistoryStore struct {
	path string
	mu   sync.RWMutex
}

// NewHistoryStore creates a store backed by path. The file is created on the
// first Save.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Path returns the backing file.
func (s *HistoryStore) Path() string {
	return s.path
}

func (s *HistoryStore) List(ctx context.Context) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.read()
	if err != nil {
		return nil, err
	}
	return file.Entries, nil
}

func (s *HistoryStore) Get(ctx context.Context, id string) (history.Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return history.Entry{}, err
	}

	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return history.Entry{}, fmt.Errorf("%w: %s", history.ErrNotFound, id)
}

func (s *HistoryStore) Save(ctx context.Context, entry history.Entry, maxEntries int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	file.Entries = append([]history.Entry{entry}, file.Entries...)
	if maxEntries > 0 && len(file.Entries) > maxEntries {
		file.Entries = file.Entries[:maxEntries]
	}

	return s.write(file)
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(historyFile{Entries: []history.Entry{}})
}

// read loads the file. A missing or empty file is an empty history.
func (s *HistoryStore) read() (historyFile, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return historyFile{}, nil
	case err != nil:
		return historyFile{}, fmt.Errorf("read history: %w", err)
	case len(data) == 0:
		return historyFile{}, nil
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return historyFile{}, fmt.Errorf("decode history %s: %w", s.path, err)
	}
	return file, nil
}

// write replaces the file atomically.
func (s *HistoryStore) write(file historyFile) error {
	file.Version = historyVersion

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
