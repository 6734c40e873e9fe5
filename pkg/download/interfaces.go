package download

import (
	"context"
	"io"
)

// Source opens transfers for remote files.
type Source interface {
	// Open starts fetching url. The returned Transfer stops producing data once ctx is done.
	Open(ctx context.Context, url string) (Transfer, error)
}

// Transfer is an open handle on a remote file's content.
type Transfer interface {
	io.Reader
	// Size is the expected number of bytes, or a value <= 0 when unknown.
	Size() int64
	// Close releases the handle. The coordinator calls it exactly once per Transfer.
	Close() error
}

// EventKind distinguishes progress events from terminal ones.
type EventKind int

// Event kinds. Completed and Failed are terminal.
const (
	EventProgress EventKind = iota
	EventCompleted
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one element of a download's progress stream.
type Event struct {
	Kind     EventKind
	Fraction float64 // EventProgress: 0..1
	Path     string  // EventCompleted: local file
	Err      error   // EventFailed: cause
}

// Terminal reports whether no events follow e.
func (e Event) Terminal() bool {
	return e.Kind == EventCompleted || e.Kind == EventFailed
}

// Phase is the coordinator's lifecycle position.
type Phase int

// Coordinator phases. Cancellation returns the coordinator to PhaseIdle.
const (
	PhaseIdle Phase = iota
	PhaseInProgress
	PhaseCompleted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the coordinator.
type State struct {
	Phase    Phase
	ID       string  // attempt identifier, empty when idle
	URL      string  // source of the current or last attempt
	Fraction float64 // last reported progress
	Path     string  // PhaseCompleted
	Err      error   // PhaseFailed
}
