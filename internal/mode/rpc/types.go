// ABOUTME: RPC request, response and notification types for external integrations
// ABOUTME: One JSON object per line; notifications carry no id

package rpc

import "encoding/json"

// Request represents an RPC request from an external client.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents an RPC response to an external client.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Notification is pushed to the client without a request.
type Notification struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

// Error represents an RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Methods
const (
	MethodSend          = "send"
	MethodEscalate      = "escalate"
	MethodGetStatus     = "get_status"
	MethodListSessions  = "list_sessions"
	MethodNewSession    = "new_session"
	MethodSelectSession = "select_session"
	MethodDeleteSession = "delete_session"
	MethodGetMessages   = "get_messages"

	// NotifyEvent is the method name of task event notifications.
	NotifyEvent = "event"
)
