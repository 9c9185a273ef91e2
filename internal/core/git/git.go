// Package git maps git-operation actions to git command lines.
package git

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/colonyops/saathi/internal/core/action"
)

const (
	// DefaultBranch is used by push, pull and checkout when no branch is given.
	DefaultBranch = "main"
	// DefaultMessage is the commit message used when none is given.
	DefaultMessage = "Update via saathi"
)

// Request describes one git invocation.
type Request struct {
	Action     string
	Repository string
	Branch     string
	Message    string
	Files      []string
	// Create makes checkout create the branch (-b).
	Create bool
}

// RequestFrom builds a Request from a git-operation action.
func RequestFrom(a action.Action) Request {
	return Request{
		Action:     a.Action,
		Repository: a.Repository,
		Branch:     a.Branch,
		Message:    a.Message,
		Files:      a.Files,
		Create:     a.Options.Create,
	}
}

// BuildCommand returns the git command line for req.
func BuildCommand(req Request) (string, error) {
	branch := req.Branch
	if branch == "" {
		branch = DefaultBranch
	}

	var args []string
	switch req.Action {
	case "init":
		args = []string{"init"}
	case "clone":
		if req.Repository == "" {
			return "", fmt.Errorf("%w: clone requires a repository", action.ErrInvalid)
		}
		args = []string{"clone", req.Repository}
	case "add":
		args = []string{"add"}
		if len(req.Files) == 0 {
			args = append(args, ".")
		} else {
			args = append(args, req.Files...)
		}
	case "commit":
		msg := req.Message
		if msg == "" {
			msg = DefaultMessage
		}
		args = []string{"commit", "-m", msg}
	case "push":
		args = []string{"push", "origin", branch}
	case "pull":
		args = []string{"pull", "origin", branch}
	case "checkout":
		args = []string{"checkout"}
		if req.Create {
			args = append(args, "-b")
		}
		args = append(args, branch)
	case "status":
		args = []string{"status", "--short"}
	default:
		return "", fmt.Errorf("%w: git action %q", action.ErrUnsupported, req.Action)
	}

	return "git " + shellquote.Join(args...), nil
}

// ExtractRepoName returns the repository name of a remote URL, which is the
// directory git clone creates.
func ExtractRepoName(remote string) string {
	remote = strings.TrimSuffix(strings.TrimSpace(remote), "/")
	remote = strings.TrimSuffix(remote, ".git")
	if i := strings.LastIndexAny(remote, "/:"); i >= 0 {
		remote = remote[i+1:]
	}
	return remote
}
