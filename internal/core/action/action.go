// Package action defines the typed action taxonomy carried by a plan and the
// result envelope every executor returns.
package action

import (
	"fmt"
	"slices"
	"strings"
)

// Action is one step of a plan. It is a flat tagged union: Type selects the
// kind and only the fields relevant to that kind are read.
//
// Inside project-setup and deploy-operation actions, Steps reuse the same
// shape with Type holding a step type (mkdir, write, build, upload, ...).
type Action struct {
	Type   Kind   `json:"type" yaml:"type"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"`

	// file-operation, project-setup and deploy config steps
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	NewPath string `json:"newPath,omitempty" yaml:"newPath,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// process-operation, exec/build/invoke steps
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`

	// package-operation
	Manager   string   `json:"manager,omitempty" yaml:"manager,omitempty"`
	Packages  []string `json:"packages,omitempty" yaml:"packages,omitempty"`
	Directory string   `json:"directory,omitempty" yaml:"directory,omitempty"`

	// database-operation
	DBType           string         `json:"dbType,omitempty" yaml:"dbType,omitempty"`
	ConnectionString string         `json:"connectionString,omitempty" yaml:"connectionString,omitempty"`
	Database         string         `json:"database,omitempty" yaml:"database,omitempty"`
	Collection       string         `json:"collection,omitempty" yaml:"collection,omitempty"`
	Data             any            `json:"data,omitempty" yaml:"data,omitempty"`
	Query            map[string]any `json:"query,omitempty" yaml:"query,omitempty"`

	// git-operation
	Repository string   `json:"repository,omitempty" yaml:"repository,omitempty"`
	Branch     string   `json:"branch,omitempty" yaml:"branch,omitempty"`
	Message    string   `json:"message,omitempty" yaml:"message,omitempty"`
	Files      []string `json:"files,omitempty" yaml:"files,omitempty"`

	// deploy upload steps
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`

	Steps   []Action `json:"steps,omitempty" yaml:"steps,omitempty"`
	Options Options  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Options carries the optional knobs of every kind.
type Options struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	WaitForExit bool   `json:"waitForExit,omitempty" yaml:"waitForExit,omitempty"`
	Cwd         string `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	LogFile     string `json:"logFile,omitempty" yaml:"logFile,omitempty"`

	Recursive bool   `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	Force     bool   `json:"force,omitempty" yaml:"force,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	OnChange  string `json:"onChange,omitempty" yaml:"onChange,omitempty"`

	Dev    bool   `json:"dev,omitempty" yaml:"dev,omitempty"`
	Global bool   `json:"global,omitempty" yaml:"global,omitempty"`
	Script string `json:"script,omitempty" yaml:"script,omitempty"`

	Limit  int  `json:"limit,omitempty" yaml:"limit,omitempty"`
	Create bool `json:"create,omitempty" yaml:"create,omitempty"`
}

// ProcessName returns the registry key for a process action. The options name
// wins over the top-level name; a bare command falls back to its first word.
func (a Action) ProcessName() string {
	if a.Options.Name != "" {
		return a.Options.Name
	}
	if a.Name != "" {
		return a.Name
	}
	if fields := strings.Fields(a.Command); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Summary is a one-line human description used in logs and the shell.
func (a Action) Summary() string {
	var parts []string
	parts = append(parts, string(a.Type))
	if a.Action != "" {
		parts = append(parts, a.Action)
	}
	for _, v := range []string{a.Path, a.Command, a.Repository, a.Collection} {
		if v != "" {
			parts = append(parts, v)
			break
		}
	}
	if len(a.Packages) > 0 {
		parts = append(parts, strings.Join(a.Packages, " "))
	}
	if len(a.Steps) > 0 {
		parts = append(parts, fmt.Sprintf("(%d steps)", len(a.Steps)))
	}
	return strings.Join(parts, " ")
}

// Validate checks the action against the schema of its kind. Unknown kinds
// and verbs wrap ErrUnsupported; missing fields wrap ErrInvalid.
func (a Action) Validate() error {
	if !a.Type.IsValid() {
		return fmt.Errorf("%w: action type %q", ErrUnsupported, a.Type)
	}

	switch a.Type {
	case KindProjectSetup, KindDeploy:
		if a.Type == KindProjectSetup && a.Name == "" && a.Path == "" {
			return fmt.Errorf("%w: project-setup requires name or path", ErrInvalid)
		}
		for i, step := range a.Steps {
			if err := validateStep(a.Type, step); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		return nil
	}

	if a.Type == KindDatabase && slices.Contains(StubbedDBTypes, a.DBType) {
		return nil
	}

	if !slices.Contains(verbs[a.Type], a.Action) {
		return fmt.Errorf("%w: %s action %q", ErrUnsupported, a.Type, a.Action)
	}

	return a.requireFields()
}

func (a Action) requireFields() error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s %s requires %s", ErrInvalid, a.Type, a.Action, field)
	}

	switch a.Type {
	case KindFile:
		if a.Path == "" && a.Action != "list" {
			return missing("path")
		}
		if a.Action == "rename" && a.NewPath == "" {
			return missing("newPath")
		}
	case KindPackage:
		if a.Manager == "" {
			return missing("manager")
		}
	case KindProcess:
		switch a.Action {
		case "start":
			if a.Command == "" {
				return missing("command")
			}
		case "stop":
			if a.ProcessName() == "" {
				return missing("name")
			}
		}
	case KindDatabase:
		if a.DBType == "" {
			return missing("dbType")
		}
	case KindGit:
		if a.Action == "clone" && a.Repository == "" {
			return missing("repository")
		}
	}
	return nil
}

func validateStep(parent Kind, step Action) error {
	t := string(step.Type)
	if !slices.Contains(stepTypes[parent], t) {
		return fmt.Errorf("%w: %s step %q", ErrUnsupported, parent, t)
	}

	missing := func(field string) error {
		return fmt.Errorf("%w: %s step requires %s", ErrInvalid, t, field)
	}

	switch t {
	case StepMkdir, StepWrite, StepConfig, StepUpload:
		if step.Path == "" {
			return missing("path")
		}
	case StepExec, StepStart, StepInvoke:
		if step.Command == "" {
			return missing("command")
		}
	case StepGit:
		if step.Action == "" {
			return missing("action")
		}
	case StepDatabase:
		if step.Action == "" || step.DBType == "" {
			return missing("action and dbType")
		}
	}
	return nil
}
