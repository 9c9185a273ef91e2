// Package pkgmgr builds npm and pip command lines for package-operation
// actions.
package pkgmgr

import (
	"fmt"
	"slices"

	"github.com/kballard/go-shellquote"

	"github.com/colonyops/saathi/internal/core/action"
)

// Manager names a supported package manager.
type Manager string

const (
	NPM Manager = "npm"
	Pip Manager = "pip"
)

// Managers lists the supported package managers.
var Managers = []Manager{NPM, Pip}

// Request describes one package manager invocation.
type Request struct {
	Manager  Manager
	Action   string
	Packages []string
	Dev      bool
	Global   bool
	Script   string
}

// RequestFrom builds a Request from a package-operation action.
func RequestFrom(a action.Action) Request {
	return Request{
		Manager:  Manager(a.Manager),
		Action:   a.Action,
		Packages: a.Packages,
		Dev:      a.Options.Dev,
		Global:   a.Options.Global,
		Script:   a.Options.Script,
	}
}

// BuildCommand returns the single shell command for req. Unsupported
// manager/action combinations fail with action.ErrUnsupported.
func BuildCommand(req Request) (string, error) {
	if !slices.Contains(Managers, req.Manager) {
		return "", fmt.Errorf("%w: package manager %q", action.ErrUnsupported, req.Manager)
	}

	var args []string
	switch req.Manager {
	case NPM:
		args = npmArgs(req)
	case Pip:
		args = pipArgs(req)
	}
	if args == nil {
		return "", fmt.Errorf("%w: %s %s", action.ErrUnsupported, req.Manager, req.Action)
	}

	return shellquote.Join(args...), nil
}

func npmArgs(req Request) []string {
	switch req.Action {
	case "install":
		args := []string{"npm", "install"}
		switch {
		case req.Global:
			args = append(args, "-g")
		case req.Dev:
			args = append(args, "--save-dev")
		}
		return append(args, req.Packages...)
	case "uninstall":
		return append([]string{"npm", "uninstall"}, req.Packages...)
	case "update":
		return append([]string{"npm", "update"}, req.Packages...)
	case "init":
		return []string{"npm", "init", "-y"}
	case "run":
		script := req.Script
		if script == "" && len(req.Packages) > 0 {
			script = req.Packages[0]
		}
		if script == "" {
			return nil
		}
		return []string{"npm", "run", script}
	}
	return nil
}

func pipArgs(req Request) []string {
	switch req.Action {
	case "install":
		return append([]string{"pip", "install"}, req.Packages...)
	case "uninstall":
		return append([]string{"pip", "uninstall", "-y"}, req.Packages...)
	case "update":
		return append([]string{"pip", "install", "--upgrade"}, req.Packages...)
	case "init":
		return []string{"python", "-m", "venv", "venv"}
	}
	return nil
}
