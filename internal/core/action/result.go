package action

// Result is the normalised envelope every executor returns.
type Result struct {
	Kind    Kind   `json:"kind"`
	Action  string `json:"action,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	// Output is trimmed stdout of a shelled-out command.
	Output string `json:"output,omitempty"`
	// Content is the body returned by a file read.
	Content string `json:"content,omitempty"`
	// Notice explains a non-error partial result, such as an unimplemented
	// database type or a skipped action.
	Notice string `json:"notice,omitempty"`
	// Cwd is set when the action moved the session working directory.
	Cwd string `json:"cwd,omitempty"`
	// Data holds structured payloads: directory listings, process snapshots,
	// query documents.
	Data any `json:"data,omitempty"`

	Steps []Result `json:"steps,omitempty"`
}

// Ok builds a successful result for a.
func Ok(a Action, msg string) Result {
	return Result{Kind: a.Type, Action: a.Action, Success: true, Message: msg}
}

// Failed builds a failed result for a carrying err's message.
func Failed(a Action, err error) Result {
	return Result{Kind: a.Type, Action: a.Action, Success: false, Message: err.Error()}
}
