package logutils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\S+ \[(DEBUG|INFO|WARN|ERROR)\] `)

func TestNew_AppendsFormattedLines(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "saathi.log")
	var console bytes.Buffer

	logger, closer, err := newWithConsole("debug", file, &console)
	require.NoError(t, err)
	logger.Info().Msg("first")
	logger.Warn().Str("path", "a.txt").Msg("second")
	closer()

	// A second logger must append rather than truncate.
	logger, closer, err = newWithConsole("info", file, &console)
	require.NoError(t, err)
	logger.Error().Msg("third")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Regexp(t, lineRe, line)
	}
	assert.Contains(t, lines[0], "[INFO] first")
	assert.Contains(t, lines[1], "path=a.txt")
	assert.Contains(t, lines[2], "[ERROR] third")

	// Console only receives warn and above.
	assert.NotContains(t, console.String(), "first")
	assert.Contains(t, console.String(), "second")
	assert.Contains(t, console.String(), "third")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	require.Error(t, err)
}

func TestAppendFatal(t *testing.T) {
	file := filepath.Join(t.TempDir(), "errors.log")

	require.NoError(t, AppendFatal(file, errors.New("boom")))
	require.NoError(t, AppendFatal(file, errors.New("line one\nline two")))

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\S+ - Fatal error: boom$`, lines[0])
	assert.Contains(t, lines[1], "line one | line two")
}
