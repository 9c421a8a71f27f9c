// ABOUTME: Error taxonomy for agent backend calls: transport, timeout, backend and decode
// ABOUTME: Callers discriminate with errors.As or IsKind; the underlying cause is unwrappable

package agentclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed backend call.
type Kind int

const (
	// KindTransport covers network, DNS and connection failures.
	KindTransport Kind = iota
	// KindTimeout means the client-enforced deadline was exceeded.
	KindTimeout
	// KindBackend is a non-2xx response, possibly with a detail message.
	KindBackend
	// KindDecode is a malformed response body.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindBackend:
		return "backend"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every propagating Client operation.
type Error struct {
	Kind   Kind
	Op     string // e.g. "send", "complete task"
	Status int    // HTTP status for KindBackend
	Detail string // human-readable detail from the response body
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "request timed out: the agent provided no response"
	case KindBackend:
		if e.Detail != "" {
			return e.Detail
		}
		return fmt.Sprintf("agent backend error: %d", e.Status)
	case KindDecode:
		return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Op, e.Err)
		}
		return e.Op + ": transport error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
