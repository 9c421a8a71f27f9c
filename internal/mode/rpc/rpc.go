// ABOUTME: RPC mode for external integrations such as editor extensions and scripts
// ABOUTME: JSONL requests on stdin, responses and task event notifications on stdout

package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/mauromedda/agentdesk/internal/log"
	"github.com/mauromedda/agentdesk/internal/tasksync"
)

const eventBuffer = 64

// Server handles RPC requests from an external client.
type Server struct {
	reader *bufio.Scanner
	router *Router

	mu     sync.Mutex
	writer io.Writer
}

// NewServer creates an RPC server reading requests from r and writing to w.
func NewServer(r io.Reader, w io.Writer, router *Router) *Server {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	return &Server{reader: scanner, writer: w, router: router}
}

// Run serves deps over r and w until r is exhausted or ctx ends. Task
// events are forwarded as notifications while it runs.
func Run(ctx context.Context, deps Deps, r io.Reader, w io.Writer) error {
	router := NewRouter()
	RegisterHandlers(router, deps)
	s := NewServer(r, w, router)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, unsub := deps.Sync.Events().Channel(eventBuffer)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.forward(ctx, events)
	}()
	defer func() {
		unsub()
		wg.Wait()
	}()

	return s.Serve(ctx)
}

// Serve starts the request loop. Requests are handled in order.
func (s *Server) Serve(ctx context.Context) error {
	for s.reader.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := s.reader.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(Response{Error: NewParseError(fmt.Sprintf("parse error: %v", err))})
			continue
		}
		if req.Method == "" {
			s.write(Response{ID: req.ID, Error: &Error{Code: ErrCodeInvalidReq, Message: "method is required"}})
			continue
		}
		log.Debug("rpc: %s %s", req.ID, req.Method)
		if err := s.write(s.router.Handle(ctx, req)); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	return s.reader.Err()
}

func (s *Server) forward(ctx context.Context, events <-chan tasksync.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = s.write(Notification{Method: NotifyEvent, Params: EventParams{
				Kind:      ev.Kind.String(),
				SessionID: ev.SessionID,
				TaskID:    ev.TaskID,
				Status:    ev.Status,
			}})
		}
	}
}

func (s *Server) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(Response{Error: NewInternalError(fmt.Sprintf("internal error: %v", err))})
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.writer.Write(data)
	return err
}
