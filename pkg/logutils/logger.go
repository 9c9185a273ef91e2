package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger that appends one line per event to file and mirrors
// warnings and errors to stderr. If file is empty, only stderr is used.
//
// File lines look like `<RFC3339 timestamp> [<LEVEL>] <message> key=value`.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (zerolog.Logger, func(), error) {
	return newWithConsole(level, file, os.Stderr)
}

func newWithConsole(level, file string, console io.Writer) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	writers := []io.Writer{
		minLevelWriter{w: lineWriter(console), min: zerolog.WarnLevel},
	}

	if file != "" {
		osFile, err := openAppend(file)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = osFile.Close() }
		writers = append(writers, lineWriter(osFile))
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}

// AppendFatal records an unrecoverable failure in the error log file using
// the format `<RFC3339 timestamp> - Fatal error: <message>`.
func AppendFatal(file string, cause error) error {
	f, err := openAppend(file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	msg := strings.ReplaceAll(fmt.Sprintf("%+v", cause), "\n", " | ")
	_, err = fmt.Fprintf(f, "%s - Fatal error: %s\n", time.Now().Format(time.RFC3339), msg)
	return err
}

func openAppend(file string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	return os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func lineWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i any) string {
			s, _ := i.(string)
			return "[" + strings.ToUpper(s) + "]"
		},
	}
}

// minLevelWriter drops events below min.
type minLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (m minLevelWriter) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}
