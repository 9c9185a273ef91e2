// Package fileops implements the file-operation executor.
package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/registry"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"isDir"`
	Size  int64  `json:"size"`
}

// Files is the file-operation executor. Paths passed to its methods must
// already be resolved with Resolve.
type Files struct {
	reg *registry.Registry
	log zerolog.Logger
}

// New creates a file executor that registers watchers in reg.
func New(reg *registry.Registry, log zerolog.Logger) *Files {
	return &Files{reg: reg, log: log}
}

// Resolve makes p absolute relative to cwd unless it already is.
func Resolve(cwd, p string) string {
	if p == "" {
		return cwd
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}

// Read returns the file content.
func (f *Files) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces the file content, creating missing parent directories.
func (f *Files) Write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Append adds content to the end of the file, creating it if needed.
func (f *Files) Append(path, content string) error {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	if _, err := fh.WriteString(content); err != nil {
		_ = fh.Close()
		return fmt.Errorf("append %s: %w", path, err)
	}
	return fh.Close()
}

// Delete removes a file. Directories must go through Rmdir.
func (f *Files) Delete(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("delete %s: is a directory", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// Rename moves oldPath to newPath.
func (f *Files) Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	return nil
}

// Mkdir creates a directory. With recursive, parents are created and an
// existing directory is not an error.
func (f *Files) Mkdir(path string, recursive bool) error {
	var err error
	if recursive {
		err = os.MkdirAll(path, 0o755)
	} else {
		err = os.Mkdir(path, 0o755)
	}
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Rmdir removes a directory. Without recursive only empty directories are
// removed. With force a missing directory is not an error.
func (f *Files) Rmdir(path string, recursive, force bool) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && force:
		return nil
	case err != nil:
		return fmt.Errorf("rmdir %s: %w", path, err)
	case !info.IsDir():
		return fmt.Errorf("rmdir %s: not a directory", path)
	}

	if recursive {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return fmt.Errorf("rmdir %s: %w", path, err)
	}
	return nil
}

// List returns the entries of dir. With recursive the whole tree is walked
// and names are relative to dir. A non-empty pattern is a doublestar glob
// matched against those relative names.
func (f *Files) List(dir, pattern string, recursive bool) ([]Entry, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad pattern %q", action.ErrInvalid, pattern)
	}

	var entries []Entry
	add := func(rel string, d fs.DirEntry) error {
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); !ok {
				return nil
			}
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Name: filepath.ToSlash(rel), IsDir: d.IsDir(), Size: info.Size()})
		return nil
	}

	if !recursive {
		dirEntries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, d := range dirEntries {
			if err := add(d.Name(), d); err != nil {
				return nil, fmt.Errorf("list %s: %w", dir, err)
			}
		}
		return entries, nil
	}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		return add(rel, d)
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}
