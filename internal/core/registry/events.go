package registry

import "time"

// EventKind identifies what happened in the background.
type EventKind string

const (
	// EventProcessExited is published when a detached process exits.
	EventProcessExited EventKind = "process.exited"
	// EventWatchChange is published for every filesystem change a watcher sees.
	EventWatchChange EventKind = "watch.change"
)

// Event is a message from a background producer to the registry owner.
type Event struct {
	Kind EventKind
	Time time.Time

	// Process exit fields.
	Name     string
	ID       string
	ExitCode int
	Err      error

	// Watch change fields. WatchPath is the registry key of the watcher and
	// Path the file that changed.
	WatchPath string
	Path      string
	Op        string
}

// Emit publishes ev from any goroutine. It blocks while the buffer is full and
// returns without delivering once the registry has been shut down.
func (r *Registry) Emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	select {
	case <-r.done:
		return
	default:
	}
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// TryEmit publishes ev without blocking and reports whether it was buffered.
func (r *Registry) TryEmit(ev Event) bool {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.events <- ev:
		return true
	default:
		return false
	}
}

// Events is the single consumer side of Emit.
func (r *Registry) Events() <-chan Event {
	return r.events
}

// Pending drains all events currently buffered without blocking.
func (r *Registry) Pending() []Event {
	var out []Event
	for {
		select {
		case ev := <-r.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}
