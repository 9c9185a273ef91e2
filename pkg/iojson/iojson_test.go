package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), `"json_error"`)
}

func TestInputFile_Read(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.yaml")
		require.NoError(t, os.WriteFile(path, []byte("type: x"), 0o644))

		f := &InputFile{path: path}
		data, ext, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, "type: x", string(data))
		assert.Equal(t, ".yaml", ext)
	})

	t.Run("piped stdin", func(t *testing.T) {
		f := &InputFile{stdin: strings.NewReader(`{"type":"x"}`), isTTY: func() bool { return false }}
		data, ext, err := f.Read()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"x"}`, string(data))
		assert.Empty(t, ext)
	})

	t.Run("terminal stdin", func(t *testing.T) {
		f := &InputFile{isTTY: func() bool { return true }}
		_, _, err := f.Read()
		require.ErrorIs(t, err, ErrNoInput)
	})
}
