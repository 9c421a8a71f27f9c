// ABOUTME: Task lifecycle synchronizer: optimistic send, bounded polling and result merge
// ABOUTME: Results land on the message captured at task creation, guarded by a per-task version

package tasksync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mauromedda/agentdesk/internal/agentclient"
	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/eventbus"
	"github.com/mauromedda/agentdesk/internal/log"
	"github.com/mauromedda/agentdesk/internal/search"
)

const (
	// DefaultPollInterval is the delay between task polls.
	DefaultPollInterval = time.Second
	// DefaultMaxPollDuration bounds how long a task is polled.
	DefaultMaxPollDuration = 10 * time.Minute
	// StatusExpired is reported when polling gives up on a task.
	StatusExpired = "expired"
)

var (
	ErrEmptyMessage = errors.New("tasksync: message is empty")
	ErrBusy         = errors.New("tasksync: a request is already in flight")
	ErrNoActiveTask = errors.New("tasksync: no active task")
	ErrNoQuery      = errors.New("tasksync: session has no user message to search for")
	ErrClosed       = errors.New("tasksync: synchronizer is closed")
	ErrStaleTarget  = errors.New("tasksync: task message is no longer the latest reply")
)

// Backend is the subset of the agent client the synchronizer needs.
type Backend interface {
	Send(ctx context.Context, text string) (*agentclient.SendResult, error)
	GetTask(ctx context.Context, id string) *agentclient.Task
	CompleteTask(ctx context.Context, id, plan string, sources []chat.Source) error
}

// activeTask is the single task whose results may still mutate a message.
type activeTask struct {
	id        string
	sessionID string
	messageID string
	query     string // user text that created the task
	version   uint64
	stop      context.CancelFunc
}

// Synchronizer owns at most one active task at a time.
type Synchronizer struct {
	store    *chat.Store
	api      Backend
	searcher search.Searcher
	bus      *eventbus.Bus[Event]

	pollInterval time.Duration
	maxPoll      time.Duration
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	active     *activeTask
	version    uint64
	status     string
	sending    bool
	escalating bool
	closed     bool
	offline    bool // last backend call failed in transport
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithMaxPollDuration overrides DefaultMaxPollDuration. Zero disables the bound.
func WithMaxPollDuration(d time.Duration) Option {
	return func(s *Synchronizer) { s.maxPoll = d }
}

// WithBus publishes events on bus instead of a private one.
func WithBus(bus *eventbus.Bus[Event]) Option {
	return func(s *Synchronizer) { s.bus = bus }
}

// New creates a synchronizer over store. searcher may be nil, in which case
// Escalate always fails.
func New(store *chat.Store, api Backend, searcher search.Searcher, opts ...Option) *Synchronizer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		store:        store,
		api:          api,
		searcher:     searcher,
		bus:          eventbus.New[Event](),
		pollInterval: DefaultPollInterval,
		maxPoll:      DefaultMaxPollDuration,
		now:          time.Now,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Events returns the bus the synchronizer publishes on.
func (s *Synchronizer) Events() *eventbus.Bus[Event] { return s.bus }

// SetPollInterval changes the interval used by pollers started afterwards.
func (s *Synchronizer) SetPollInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.pollInterval = d
	s.mu.Unlock()
}

// SetMaxPollDuration changes the bound used by pollers started afterwards.
func (s *Synchronizer) SetMaxPollDuration(d time.Duration) {
	s.mu.Lock()
	s.maxPoll = d
	s.mu.Unlock()
}

// Send appends the user message to the current session (creating one when
// none is selected) and submits it to the backend in the background.
func (s *Synchronizer) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.sending || s.escalating:
		s.mu.Unlock()
		return ErrBusy
	}
	s.sending = true
	s.wg.Add(1)
	s.mu.Unlock()

	sessionID := s.store.EnsureCurrent()
	if _, err := s.store.Append(sessionID, chat.Message{Role: chat.RoleUser, Content: text}); err != nil {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
		s.wg.Done()
		return err
	}
	s.publish(Event{Kind: EventMessages, SessionID: sessionID})
	s.publish(Event{Kind: EventLoading, SessionID: sessionID})

	go s.send(sessionID, text, s.now())
	return nil
}

func (s *Synchronizer) send(sessionID, text string, started time.Time) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
		s.publish(Event{Kind: EventLoading, SessionID: sessionID})
	}()

	res, err := s.api.Send(s.ctx, text)
	latency := s.now().Sub(started)
	if s.ctx.Err() != nil {
		return
	}

	s.observe(err)
	if err != nil {
		log.Warn("tasksync: send failed: %v", err)
		s.appendModel(sessionID, chat.Message{
			Role:    chat.RoleModel,
			Content: "Error: " + err.Error(),
			Latency: latency,
		})
		s.supersede(sessionID)
		return
	}

	msg, ok := s.appendModel(sessionID, chat.Message{
		Role:    chat.RoleModel,
		Content: res.Content(),
		Latency: latency,
		TaskID:  res.ID,
	})
	if !ok {
		return
	}
	if res.ID == "" {
		s.supersede(sessionID)
		return
	}
	s.activate(res.ID, res.Status, sessionID, msg.ID, text)
}

func (s *Synchronizer) appendModel(sessionID string, m chat.Message) (chat.Message, bool) {
	msg, err := s.store.Append(sessionID, m)
	if err != nil {
		log.Warn("tasksync: session %s gone before reply arrived: %v", sessionID, err)
		return chat.Message{}, false
	}
	s.publish(Event{Kind: EventMessages, SessionID: sessionID})
	return msg, true
}

// supersede abandons the active task when a later reply in its session
// has pushed its message out of the trailing position.
func (s *Synchronizer) supersede(sessionID string) {
	s.mu.Lock()
	at := s.active
	if at == nil || at.sessionID != sessionID || s.store.IsTrailing(at.sessionID, at.messageID) {
		s.mu.Unlock()
		return
	}
	log.Info("tasksync: abandoning task %s superseded by a newer reply", at.id)
	at.stop()
	s.active = nil
	s.status = ""
	s.mu.Unlock()

	s.publish(Event{Kind: EventStatus, SessionID: sessionID, TaskID: at.id})
}

// activate makes the task the sole active task, abandoning any previous one.
func (s *Synchronizer) activate(taskID, status, sessionID, messageID, query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if prev := s.active; prev != nil {
		log.Info("tasksync: abandoning task %s for %s", prev.id, taskID)
		prev.stop()
		s.active = nil
	}
	s.version++
	s.status = status
	if status == agentclient.StatusCompleted {
		s.mu.Unlock()
		s.publish(Event{Kind: EventStatus, SessionID: sessionID, TaskID: taskID, Status: status})
		return
	}

	ctx, stop := context.WithCancel(s.ctx)
	at := &activeTask{
		id:        taskID,
		sessionID: sessionID,
		messageID: messageID,
		query:     query,
		version:   s.version,
		stop:      stop,
	}
	s.active = at
	interval, bound := s.pollInterval, s.maxPoll
	s.wg.Add(1)
	s.mu.Unlock()

	s.publish(Event{Kind: EventStatus, SessionID: sessionID, TaskID: taskID, Status: status})
	go s.poll(ctx, at, interval, bound)
}

// poll issues one GetTask per tick and never overlaps requests. The ticker
// is reset after each poll so slow responses do not cause back-to-back calls.
// The bound is the context deadline, so it also cancels an in-flight poll.
func (s *Synchronizer) poll(ctx context.Context, at *activeTask, interval, bound time.Duration) {
	defer s.wg.Done()

	if bound > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bound)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.pollDone(ctx, at)
			return
		case <-ticker.C:
		}

		task := s.api.GetTask(ctx, at.id)
		if ctx.Err() != nil {
			s.pollDone(ctx, at)
			return
		}
		if task != nil {
			s.observe(nil)
		}
		if task == nil {
			log.Debug("tasksync: poll %s returned nothing; retrying next tick", at.id)
		} else if s.applyPoll(at, task) {
			return
		}
		ticker.Reset(interval)
	}
}

// pollDone expires the task when the poll bound ended ctx. A cancelled
// poller was abandoned and leaves the state alone.
func (s *Synchronizer) pollDone(ctx context.Context, at *activeTask) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		s.expire(at)
	}
}

// current reports whether at is still the active task at its version.
// Caller holds s.mu.
func (s *Synchronizer) current(at *activeTask) bool {
	return s.active != nil && s.active.id == at.id && s.active.version == at.version
}

// applyPoll merges one poll result. It returns true when polling should stop.
func (s *Synchronizer) applyPoll(at *activeTask, task *agentclient.Task) bool {
	s.mu.Lock()
	if !s.current(at) {
		s.mu.Unlock()
		return true
	}
	if task.Status != agentclient.StatusCompleted {
		changed := s.status != task.Status
		s.status = task.Status
		s.mu.Unlock()
		if changed {
			s.publish(Event{Kind: EventStatus, SessionID: at.sessionID, TaskID: at.id, Status: task.Status})
		}
		return false
	}
	s.active = nil
	s.status = agentclient.StatusCompleted
	s.mu.Unlock()

	_, err := s.store.UpdateTrailing(at.sessionID, at.messageID, func(m *chat.Message) {
		m.Content = task.Plan
		m.Sources = task.Sources
	})
	if err != nil {
		log.Warn("tasksync: task %s completed but message %s not updated: %v", at.id, at.messageID, err)
	} else {
		s.publish(Event{Kind: EventMessages, SessionID: at.sessionID, TaskID: at.id})
	}
	s.publish(Event{Kind: EventStatus, SessionID: at.sessionID, TaskID: at.id, Status: agentclient.StatusCompleted})
	return true
}

func (s *Synchronizer) expire(at *activeTask) {
	s.mu.Lock()
	if !s.current(at) {
		s.mu.Unlock()
		return
	}
	s.active = nil
	s.status = StatusExpired
	s.mu.Unlock()

	log.Warn("tasksync: task %s still not completed; stopped polling", at.id)
	s.publish(Event{Kind: EventStatus, SessionID: at.sessionID, TaskID: at.id, Status: StatusExpired})
}

// ActiveTask returns the id of the active task, if any.
func (s *Synchronizer) ActiveTask() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return "", false
	}
	return s.active.id, true
}

// Target returns the session and message the active task writes to.
func (s *Synchronizer) Target() (sessionID, messageID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return "", "", false
	}
	return s.active.sessionID, s.active.messageID, true
}

// Status returns the last observed task status, or "" before any task.
func (s *Synchronizer) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Reachable reports whether the last backend call got through. It starts
// true and flips on transport failures and timeouts.
func (s *Synchronizer) Reachable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.offline
}

// observe records the outcome of a backend call. Backend errors with a
// status code still prove the backend is reachable.
func (s *Synchronizer) observe(err error) {
	offline := agentclient.IsKind(err, agentclient.KindTransport) || agentclient.IsKind(err, agentclient.KindTimeout)
	s.mu.Lock()
	changed := s.offline != offline
	s.offline = offline
	s.mu.Unlock()
	if changed {
		if offline {
			log.Warn("tasksync: backend unreachable: %v", err)
		} else {
			log.Info("tasksync: backend reachable again")
		}
		s.publish(Event{Kind: EventReachability})
	}
}

// Loading reports whether a send or an escalation is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending || s.escalating
}

// Close cancels in-flight calls and pollers and waits for them to exit.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.active != nil {
		s.active.stop()
		s.active = nil
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Synchronizer) publish(ev Event) {
	s.bus.Publish(ev)
}
