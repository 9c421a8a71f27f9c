// ABOUTME: Events broadcast by the synchronizer on its event bus
// ABOUTME: Events are wake-ups; subscribers re-read state from the store and synchronizer

package tasksync

// EventKind identifies what changed.
type EventKind int

const (
	// EventMessages means a session's messages were appended or updated.
	EventMessages EventKind = iota
	// EventLoading means the in-flight flag changed.
	EventLoading
	// EventStatus means the active task or its status changed.
	EventStatus
	// EventReachability means the backend became reachable or unreachable.
	EventReachability
)

func (k EventKind) String() string {
	switch k {
	case EventMessages:
		return "messages"
	case EventLoading:
		return "loading"
	case EventStatus:
		return "status"
	case EventReachability:
		return "reachability"
	default:
		return "unknown"
	}
}

// Event describes one state change.
type Event struct {
	Kind      EventKind
	SessionID string
	TaskID    string
	Status    string
}
