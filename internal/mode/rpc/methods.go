// ABOUTME: Router and handler implementations for the RPC methods
// ABOUTME: Handlers call into the chat store and task synchronizer with input validation

package rpc

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/tasksync"
)

// HandlerFunc processes an RPC request's params and returns a Response.
type HandlerFunc func(ctx context.Context, params json.RawMessage) Response

// Router dispatches RPC requests to registered handlers by method name.
type Router struct {
	handlers map[string]HandlerFunc
}

// NewRouter creates a Router with an empty handler registry.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Register associates a method name with a handler function.
func (r *Router) Register(method string, handler HandlerFunc) {
	r.handlers[method] = handler
}

// Handle dispatches a request to the registered handler, or returns
// a method-not-found error if no handler is registered.
func (r *Router) Handle(ctx context.Context, req Request) Response {
	h, ok := r.handlers[req.Method]
	if !ok {
		return Response{ID: req.ID, Error: NewMethodNotFoundError(req.Method)}
	}
	resp := h(ctx, req.Params)
	resp.ID = req.ID
	return resp
}

// Deps holds what the handlers call into.
type Deps struct {
	Store *chat.Store
	Sync  *tasksync.Synchronizer
}

// RegisterHandlers wires all method handlers into the given router.
func RegisterHandlers(r *Router, d Deps) {
	r.Register(MethodSend, handleSend(d))
	r.Register(MethodEscalate, handleEscalate(d))
	r.Register(MethodGetStatus, handleGetStatus(d))
	r.Register(MethodListSessions, handleListSessions(d))
	r.Register(MethodNewSession, handleNewSession(d))
	r.Register(MethodSelectSession, handleSelectSession(d))
	r.Register(MethodDeleteSession, handleDeleteSession(d))
	r.Register(MethodGetMessages, handleGetMessages(d))
}

func decode(params json.RawMessage, v any) *Error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return NewInvalidParamsError(err.Error())
	}
	return nil
}

func handleSend(d Deps) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) Response {
		var p SendParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if strings.TrimSpace(p.Text) == "" {
			return Response{Error: NewInvalidParamsError("text is required")}
		}
		if err := d.Sync.Send(p.Text); err != nil {
			return Response{Error: fromError(err)}
		}
		return Response{Result: SendResult{SessionID: d.Store.CurrentID()}}
	}
}

// escalate blocks until the live search answers.
func handleEscalate(d Deps) HandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) Response {
		if err := d.Sync.Escalate(ctx); err != nil {
			return Response{Error: fromError(err)}
		}
		return Response{Result: status(d)}
	}
}

func handleGetStatus(d Deps) HandlerFunc {
	return func(context.Context, json.RawMessage) Response {
		return Response{Result: status(d)}
	}
}

func status(d Deps) StatusResult {
	taskID, _ := d.Sync.ActiveTask()
	return StatusResult{
		SessionID:   d.Store.CurrentID(),
		TaskID:      taskID,
		Status:      d.Sync.Status(),
		Loading:     d.Sync.Loading(),
		CanEscalate: d.Sync.CanEscalate(),
		Reachable:   d.Sync.Reachable(),
	}
}

func handleListSessions(d Deps) HandlerFunc {
	return func(context.Context, json.RawMessage) Response {
		current := d.Store.CurrentID()
		sessions := []SessionInfo{}
		for _, s := range d.Store.Sessions() {
			sessions = append(sessions, SessionInfo{
				ID:        s.ID,
				Title:     s.Title,
				Messages:  len(s.Messages),
				UpdatedAt: s.UpdatedAt,
				Current:   s.ID == current,
			})
		}
		return Response{Result: SessionListResult{Sessions: sessions}}
	}
}

func handleNewSession(d Deps) HandlerFunc {
	return func(context.Context, json.RawMessage) Response {
		s := d.Store.NewSession()
		return Response{Result: SessionParams{ID: s.ID}}
	}
}

func handleSelectSession(d Deps) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) Response {
		var p SessionParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if p.ID == "" {
			return Response{Error: NewInvalidParamsError("id is required")}
		}
		if err := d.Store.Select(p.ID); err != nil {
			return Response{Error: fromError(err)}
		}
		return Response{Result: SessionParams{ID: p.ID}}
	}
}

func handleDeleteSession(d Deps) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) Response {
		var p SessionParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if p.ID == "" {
			return Response{Error: NewInvalidParamsError("id is required")}
		}
		if err := d.Store.Delete(p.ID); err != nil {
			return Response{Error: fromError(err)}
		}
		return Response{Result: SessionParams{ID: p.ID}}
	}
}

func handleGetMessages(d Deps) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) Response {
		var p SessionParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		id := p.ID
		if id == "" {
			id = d.Store.CurrentID()
		}
		sess, ok := d.Store.Get(id)
		if !ok {
			return Response{Error: fromError(chat.ErrNoSession)}
		}
		msgs := make([]MessageInfo, 0, len(sess.Messages))
		for _, m := range sess.Messages {
			msgs = append(msgs, messageInfo(m))
		}
		return Response{Result: MessagesResult{SessionID: sess.ID, Messages: msgs}}
	}
}
