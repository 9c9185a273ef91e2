package fileops

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/registry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestFiles(t *testing.T) (*Files, *registry.Registry) {
	t.Helper()
	reg := registry.New(nil)
	t.Cleanup(func() { _ = reg.Shutdown(context.Background()) })
	return New(reg, zerolog.Nop()), reg
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		cwd  string
		path string
		want string
	}{
		{name: "relative", cwd: "/work", path: "a/b.txt", want: "/work/a/b.txt"},
		{name: "absolute", cwd: "/work", path: "/etc/hosts", want: "/etc/hosts"},
		{name: "dot segments", cwd: "/work/app", path: "../x", want: "/work/x"},
		{name: "empty is cwd", cwd: "/work", path: "", want: "/work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.cwd, tt.path))
		})
	}
}

func TestFiles_WriteReadAppend(t *testing.T) {
	f, _ := newTestFiles(t)
	path := filepath.Join(t.TempDir(), "nested", "notes.txt")

	require.NoError(t, f.Write(path, "hello"))
	require.NoError(t, f.Append(path, " world"))

	got, err := f.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	require.NoError(t, f.Write(path, "replaced"))
	got, err = f.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)
}

func TestFiles_ReadMissing(t *testing.T) {
	f, _ := newTestFiles(t)

	_, err := f.Read(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFiles_DeleteAndRename(t *testing.T) {
	f, _ := newTestFiles(t)
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "a.txt")
	newPath := filepath.Join(dir, "b.txt")

	require.NoError(t, f.Write(oldPath, "x"))
	require.NoError(t, f.Rename(oldPath, newPath))
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, newPath)

	require.NoError(t, f.Delete(newPath))
	assert.NoFileExists(t, newPath)

	require.Error(t, f.Delete(dir), "directories are removed with rmdir")
}

func TestFiles_MkdirRmdir(t *testing.T) {
	f, _ := newTestFiles(t)
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")

	require.Error(t, f.Mkdir(deep, false))
	require.NoError(t, f.Mkdir(deep, true))
	require.NoError(t, f.Mkdir(deep, true), "recursive mkdir is idempotent")
	assert.DirExists(t, deep)

	top := filepath.Join(root, "a")
	require.Error(t, f.Rmdir(top, false, false), "non-empty without recursive")
	require.NoError(t, f.Rmdir(top, true, false))
	assert.NoDirExists(t, top)

	require.Error(t, f.Rmdir(top, true, false))
	require.NoError(t, f.Rmdir(top, true, true), "force ignores missing")
}

func TestFiles_List(t *testing.T) {
	f, _ := newTestFiles(t)
	dir := t.TempDir()
	require.NoError(t, f.Write(filepath.Join(dir, "main.go"), "package main"))
	require.NoError(t, f.Write(filepath.Join(dir, "README.md"), "# hi"))
	require.NoError(t, f.Write(filepath.Join(dir, "pkg", "util.go"), "package pkg"))

	t.Run("flat", func(t *testing.T) {
		entries, err := f.List(dir, "", false)
		require.NoError(t, err)
		names := entryNames(entries)
		assert.ElementsMatch(t, []string{"main.go", "README.md", "pkg"}, names)
	})

	t.Run("recursive with pattern", func(t *testing.T) {
		entries, err := f.List(dir, "**/*.go", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"main.go", "pkg/util.go"}, entryNames(entries))
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := f.List(dir, "[", false)
		require.ErrorIs(t, err, action.ErrInvalid)
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := f.List(filepath.Join(dir, "nope"), "", false)
		require.Error(t, err)
	})
}

func TestFiles_WatchEmitsChanges(t *testing.T) {
	f, reg := newTestFiles(t)
	dir := t.TempDir()

	created, err := f.Watch(dir, WatchOptions{Pattern: "*.txt", OnChange: "echo changed"})
	require.NoError(t, err)
	assert.True(t, created)

	entry, ok := reg.LookupWatcher(dir)
	require.True(t, ok)
	assert.Equal(t, "echo changed", entry.OnChange)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.log"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen.txt"), []byte("x"), 0o644))

	select {
	case ev := <-reg.Events():
		assert.Equal(t, registry.EventWatchChange, ev.Kind)
		assert.Equal(t, dir, ev.WatchPath)
		assert.Equal(t, "seen.txt", filepath.Base(ev.Path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestFiles_WatchIsDeduplicated(t *testing.T) {
	f, reg := newTestFiles(t)
	dir := t.TempDir()

	created, err := f.Watch(dir, WatchOptions{})
	require.NoError(t, err)
	require.True(t, created)

	created, err = f.Watch(dir, WatchOptions{OnChange: "other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, reg.Watchers(), 1)
}

func TestFiles_WatchMissingDir(t *testing.T) {
	f, reg := newTestFiles(t)

	_, err := f.Watch(filepath.Join(t.TempDir(), "missing"), WatchOptions{})
	require.Error(t, err)
	assert.Empty(t, reg.Watchers())
}

func TestFiles_Unwatch(t *testing.T) {
	f, reg := newTestFiles(t)
	dir := t.TempDir()

	err := f.Unwatch(context.Background(), dir)
	require.ErrorIs(t, err, action.ErrNotFound)

	_, err = f.Watch(dir, WatchOptions{})
	require.NoError(t, err)
	require.NoError(t, f.Unwatch(context.Background(), dir))
	assert.Empty(t, reg.Watchers())
}

func entryNames(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
