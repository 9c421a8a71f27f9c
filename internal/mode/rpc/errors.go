// ABOUTME: Standard JSON-RPC error codes and custom application errors
// ABOUTME: Maps synchronizer and store sentinel errors onto wire codes

package rpc

import (
	"errors"

	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/tasksync"
)

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidReq     = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

// Custom application error codes.
const (
	ErrCodeBusy         = -32001
	ErrCodeNoSession    = -32002
	ErrCodeNoActiveTask = -32003
)

// NewParseError returns an Error for malformed JSON input.
func NewParseError(msg string) *Error {
	return &Error{Code: ErrCodeParse, Message: msg}
}

// NewMethodNotFoundError returns an Error for an unknown RPC method.
func NewMethodNotFoundError(method string) *Error {
	return &Error{Code: ErrCodeMethodNotFound, Message: "method not found: " + method}
}

// NewInvalidParamsError returns an Error for invalid method parameters.
func NewInvalidParamsError(msg string) *Error {
	return &Error{Code: ErrCodeInvalidParams, Message: msg}
}

// NewInternalError returns an Error for unexpected server-side failures.
func NewInternalError(msg string) *Error {
	return &Error{Code: ErrCodeInternal, Message: msg}
}

// fromError maps a domain error to its wire error.
func fromError(err error) *Error {
	switch {
	case errors.Is(err, tasksync.ErrEmptyMessage):
		return NewInvalidParamsError(err.Error())
	case errors.Is(err, tasksync.ErrBusy):
		return &Error{Code: ErrCodeBusy, Message: err.Error()}
	case errors.Is(err, chat.ErrNoSession):
		return &Error{Code: ErrCodeNoSession, Message: err.Error()}
	case errors.Is(err, tasksync.ErrNoActiveTask), errors.Is(err, tasksync.ErrStaleTarget):
		return &Error{Code: ErrCodeNoActiveTask, Message: err.Error()}
	default:
		return NewInternalError(err.Error())
	}
}
