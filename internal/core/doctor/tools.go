package doctor

import (
	"context"
	"os/exec"
	"strings"

	"github.com/colonyops/saathi/pkg/executil"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// tool is an external executable some action kinds shell out to.
type tool struct {
	name     string
	usedBy   string
	required bool
}

var tools = []tool{
	{name: "git", usedBy: "git actions", required: true},
	{name: "node", usedBy: "node projects"},
	{name: "npm", usedBy: "npm package actions"},
	{name: "pip", usedBy: "pip package actions"},
}

// ToolsCheck verifies that external tools are available on $PATH and
// reports the version each one prints.
type ToolsCheck struct {
	exec executil.Executor
}

// NewToolsCheck creates a new tools check.
func NewToolsCheck(runner executil.Executor) *ToolsCheck {
	return &ToolsCheck{exec: runner}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	for _, t := range tools {
		path, err := lookPathFunc(t.name)
		switch {
		case err == nil:
			detail := path
			if v := c.version(ctx, t.name); v != "" {
				detail += " (" + v + ")"
			}
			result.Items = append(result.Items, CheckItem{Label: t.name, Status: StatusPass, Detail: detail})
		case t.required:
			result.Items = append(result.Items, CheckItem{Label: t.name, Status: StatusFail, Detail: "not found on PATH"})
		default:
			result.Items = append(result.Items, CheckItem{
				Label:  t.name,
				Status: StatusWarn,
				Detail: "not found on PATH (needed for " + t.usedBy + ")",
			})
		}
	}

	return result
}

// version returns the first line of `<name> --version`, or "" when the tool
// does not answer.
func (c *ToolsCheck) version(ctx context.Context, name string) string {
	if c.exec == nil {
		return ""
	}
	out, err := c.exec.Run(ctx, name, "--version")
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line)
}
