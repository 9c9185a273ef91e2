package iojson

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file is given and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f or pipe the document")

// InputFile reads a document from the file named by its -f flag, or from
// stdin when the flag is empty.
type InputFile struct {
	path  string
	stdin io.Reader
	isTTY func() bool
}

// Flag returns the -f/--file flag bound to the reader.
func (f *InputFile) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a JSON or YAML file (reads from stdin if not provided)",
		Destination: &f.path,
	}
}

// Read returns the document and the extension of its file. Stdin input has
// no extension and is treated as JSON by callers.
func (f *InputFile) Read() ([]byte, string, error) {
	if f.path != "" {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", f.path, err)
		}
		return data, filepath.Ext(f.path), nil
	}

	stdin, isTTY := f.stdin, f.isTTY
	if stdin == nil {
		stdin = os.Stdin
	}
	if isTTY == nil {
		isTTY = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}
	if isTTY() {
		return nil, "", ErrNoInput
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read stdin: %w", err)
	}
	return data, "", nil
}
