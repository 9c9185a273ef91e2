package planner

import (
	"fmt"
	"strings"

	"github.com/colonyops/saathi/internal/core/action"
)

const systemPrompt = `You are saathi, a developer assistant that turns instructions written in
Hindi, English or Hinglish into an execution plan.

Reply with exactly one JSON object and nothing else:

{
  "type": "<the main action kind>",
  "actions": [ <action>, ... ],
  "context": {
    "description": "<one line summary>",
    "needsMonitoring": <true if a long running process is started>,
    "estimated_time": "<rough duration>"
  }
}

Actions run strictly in order. Every action has a "type" and the fields of its kind:

- project-setup: name, path, steps[] where each step has type
  (%s) and the fields of the matching action kind.
- file-operation: action (%s), path, newPath, content,
  options {recursive, force, pattern, onChange}.
- package-operation: manager (npm|pip), action (%s), packages[], directory,
  options {dev, global, script}.
- process-operation: action (%s), command, name, options {name, waitForExit, cwd, logFile}.
- database-operation: dbType (mongodb|mysql|postgres|sqlite), connectionString, database,
  collection, action (%s), data, query, options {limit}.
- git-operation: action (%s), repository, branch, message, files[],
  options {create}.
- deploy-operation: name, steps[] where each step has type (%s);
  build and invoke take command, config takes path and content, upload takes path, bucket, key.

Use relative paths unless the user gave an absolute one.`

// SystemPrompt returns the instruction describing the plan format, with the
// reply language set by language.
func SystemPrompt(language string) string {
	join := func(items []string) string { return strings.Join(items, "|") }

	p := fmt.Sprintf(systemPrompt,
		join(action.StepTypes(action.KindProjectSetup)),
		join(action.Verbs(action.KindFile)),
		join(action.Verbs(action.KindPackage)),
		join(action.Verbs(action.KindProcess)),
		join(action.Verbs(action.KindDatabase)),
		join(action.Verbs(action.KindGit)),
		join(action.StepTypes(action.KindDeploy)),
	)

	switch language {
	case "hi":
		p += "\nWrite the description in Hindi."
	case "hinglish":
		p += "\nWrite the description in Hinglish."
	default:
		p += "\nWrite the description in English."
	}
	return p
}

// UserPrompt renders the instruction with the working directory.
func UserPrompt(req Request) string {
	var b strings.Builder
	if req.Cwd != "" {
		fmt.Fprintf(&b, "Current directory: %s\n", req.Cwd)
	}
	fmt.Fprintf(&b, "Instruction: %s", strings.TrimSpace(req.Instruction))
	return b.String()
}
