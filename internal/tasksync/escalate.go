// ABOUTME: Fallback escalation of the active task to a live web search
// ABOUTME: Claims the task from the poller, merges the search answer and notifies the backend

package tasksync

import (
	"context"
	"errors"
	"fmt"

	"github.com/mauromedda/agentdesk/internal/agentclient"
	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/log"
	"github.com/mauromedda/agentdesk/internal/search"
)

var errNoSearcher = errors.New("live search is not configured")

// CanEscalate reports whether the active task's message is still trailing
// and looks like it needs live data.
func (s *Synchronizer) CanEscalate() bool {
	s.mu.Lock()
	at := s.active
	busy := s.escalating || s.sending
	s.mu.Unlock()
	if at == nil || busy {
		return false
	}
	if !s.store.IsTrailing(at.sessionID, at.messageID) {
		return false
	}
	msg, ok := s.store.Message(at.sessionID, at.messageID)
	return ok && NeedsLiveData(msg.Content)
}

// Escalate answers the active task with a live web search. It is terminal
// for the task: polling stops and the task is cleared whatever the outcome.
func (s *Synchronizer) Escalate(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.active == nil:
		s.mu.Unlock()
		return ErrNoActiveTask
	case s.escalating || s.sending:
		s.mu.Unlock()
		return ErrBusy
	}
	at := s.active
	if !s.store.IsTrailing(at.sessionID, at.messageID) {
		s.mu.Unlock()
		return ErrStaleTarget
	}
	if at.query == "" {
		s.mu.Unlock()
		return ErrNoQuery
	}

	// Claim: a newer version makes any in-flight poll result stale.
	at.stop()
	s.version++
	claimed := *at
	claimed.version = s.version
	s.active = &claimed
	s.escalating = true
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	s.publish(Event{Kind: EventLoading, SessionID: claimed.sessionID, TaskID: claimed.id})
	defer func() {
		s.mu.Lock()
		s.escalating = false
		s.mu.Unlock()
		s.publish(Event{Kind: EventLoading, SessionID: claimed.sessionID, TaskID: claimed.id})
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	var (
		res *search.Result
		err error
	)
	if s.searcher == nil {
		err = errNoSearcher
	} else {
		res, err = s.searcher.Search(ctx, claimed.query)
	}

	if err != nil {
		return s.failEscalation(&claimed, err)
	}
	return s.finishEscalation(ctx, &claimed, res)
}

// release clears the claimed task if it is still the active one.
func (s *Synchronizer) release(claimed *activeTask, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(claimed) {
		return false
	}
	s.active = nil
	s.status = status
	return true
}

// finishEscalation merges the answer into the task's message and only then
// reports it to the backend. A failed merge leaves the backend task alone.
func (s *Synchronizer) finishEscalation(ctx context.Context, claimed *activeTask, res *search.Result) error {
	s.mu.Lock()
	if !s.current(claimed) {
		s.mu.Unlock()
		return nil
	}
	_, mergeErr := s.store.UpdateTrailing(claimed.sessionID, claimed.messageID, func(m *chat.Message) {
		m.Content = res.Text
		m.Sources = res.Sources
		m.Latency = s.now().Sub(m.Timestamp)
	})
	s.active = nil
	if mergeErr != nil {
		s.status = ""
	} else {
		s.status = agentclient.StatusCompleted
	}
	s.mu.Unlock()

	if mergeErr != nil {
		log.Warn("tasksync: escalation result for %s not merged: %v", claimed.id, mergeErr)
		s.publish(Event{Kind: EventStatus, SessionID: claimed.sessionID, TaskID: claimed.id})
		return fmt.Errorf("escalate: %w", mergeErr)
	}
	s.publish(Event{Kind: EventMessages, SessionID: claimed.sessionID, TaskID: claimed.id})
	s.publish(Event{Kind: EventStatus, SessionID: claimed.sessionID, TaskID: claimed.id, Status: agentclient.StatusCompleted})

	if err := s.api.CompleteTask(ctx, claimed.id, res.Text, res.Sources); err != nil {
		log.Warn("tasksync: failed to update backend task %s: %v", claimed.id, err)
	}
	return nil
}

func (s *Synchronizer) failEscalation(claimed *activeTask, cause error) error {
	log.Warn("tasksync: search for task %s failed: %v", claimed.id, cause)
	if !s.release(claimed, "") {
		return fmt.Errorf("escalate: %w", cause)
	}
	if s.ctx.Err() == nil {
		_, err := s.store.UpdateTrailing(claimed.sessionID, claimed.messageID, func(m *chat.Message) {
			m.Content = "Error performing search: " + cause.Error()
		})
		if err == nil {
			s.publish(Event{Kind: EventMessages, SessionID: claimed.sessionID, TaskID: claimed.id})
		}
	}
	s.publish(Event{Kind: EventStatus, SessionID: claimed.sessionID, TaskID: claimed.id})
	return fmt.Errorf("escalate: %w", cause)
}
