// ABOUTME: Goroutine-safe in-memory session store with append-only message lists
// ABOUTME: The trailing model message is the only slot that may be mutated in place

package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle names a session until its first user message.
const DefaultTitle = "New Chat"

const titleLimit = 30

var (
	// ErrNoSession is returned when a session id is unknown.
	ErrNoSession = errors.New("chat: no such session")
	// ErrNotTrailing is returned when an update targets a message that is
	// no longer the trailing model message of its session.
	ErrNotTrailing = errors.New("chat: message is not the trailing model message")
)

// Session is a snapshot of one conversation.
type Session struct {
	ID        string
	Title     string
	Messages  []Message
	UpdatedAt time.Time
}

// Empty reports whether the session has no messages.
func (s Session) Empty() bool { return len(s.Messages) == 0 }

type session struct {
	id        string
	title     string
	messages  []Message
	updatedAt time.Time
}

func (s *session) snapshot() Session {
	msgs := make([]Message, len(s.messages))
	for i, m := range s.messages {
		msgs[i] = m.clone()
	}
	return Session{ID: s.id, Title: s.title, Messages: msgs, UpdatedAt: s.updatedAt}
}

// Store holds sessions newest-first and the currently selected session.
type Store struct {
	mu       sync.RWMutex
	sessions []*session
	current  string
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// NewSession creates an empty "New Chat" session and selects it.
func (s *Store) NewSession() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newSessionLocked().snapshot()
}

func (s *Store) newSessionLocked() *session {
	sess := &session{id: uuid.NewString(), title: DefaultTitle, updatedAt: s.now()}
	s.sessions = append([]*session{sess}, s.sessions...)
	s.current = sess.id
	return sess
}

// EnsureCurrent returns the selected session id, creating a session when
// none is selected.
func (s *Store) EnsureCurrent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != "" && s.find(s.current) != nil {
		return s.current
	}
	return s.newSessionLocked().id
}

// Select makes id the current session.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(id) == nil {
		return ErrNoSession
	}
	s.current = id
	return nil
}

// CurrentID returns the selected session id, or "" when none is selected.
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Current returns a snapshot of the selected session.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.find(s.current)
	if sess == nil {
		return Session{}, false
	}
	return sess.snapshot(), true
}

// Get returns a snapshot of the session with the given id.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.find(id)
	if sess == nil {
		return Session{}, false
	}
	return sess.snapshot(), true
}

// Sessions returns snapshots of all sessions, newest first.
func (s *Store) Sessions() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.snapshot()
	}
	return out
}

// Delete removes a session. Deleting the selected session leaves none selected.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sess := range s.sessions {
		if sess.id == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			if s.current == id {
				s.current = ""
			}
			return nil
		}
	}
	return ErrNoSession
}

// Rename sets a session title.
func (s *Store) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.find(id)
	if sess == nil {
		return ErrNoSession
	}
	sess.title = title
	return nil
}

// Append adds msg to the end of a session, filling in ID and Timestamp when
// unset. The first user message renames a "New Chat" session.
func (s *Store) Append(sessionID string, msg Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.find(sessionID)
	if sess == nil {
		return Message{}, ErrNoSession
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	if msg.Role == RoleUser && len(sess.messages) == 0 && sess.title == DefaultTitle {
		sess.title = TitleFrom(msg.Content)
	}
	msg = msg.clone()
	sess.messages = append(sess.messages, msg)
	sess.updatedAt = s.now()
	return msg.clone(), nil
}

// UpdateTrailing applies fn to the message only when it is still the last
// message of the session and has the model role.
func (s *Store) UpdateTrailing(sessionID, messageID string, fn func(*Message)) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.find(sessionID)
	if sess == nil {
		return Message{}, ErrNoSession
	}
	n := len(sess.messages)
	if n == 0 {
		return Message{}, ErrNotTrailing
	}
	last := &sess.messages[n-1]
	if last.ID != messageID || last.Role != RoleModel {
		return Message{}, ErrNotTrailing
	}
	id, role := last.ID, last.Role
	fn(last)
	last.ID, last.Role = id, role
	sess.updatedAt = s.now()
	return last.clone(), nil
}

// IsTrailing reports whether messageID is the trailing model message.
func (s *Store) IsTrailing(sessionID, messageID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.find(sessionID)
	if sess == nil || len(sess.messages) == 0 {
		return false
	}
	last := sess.messages[len(sess.messages)-1]
	return last.ID == messageID && last.Role == RoleModel
}

// Message returns a snapshot of a single message.
func (s *Store) Message(sessionID, messageID string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.find(sessionID)
	if sess == nil {
		return Message{}, false
	}
	for _, m := range sess.messages {
		if m.ID == messageID {
			return m.clone(), true
		}
	}
	return Message{}, false
}

func (s *Store) find(id string) *session {
	if id == "" {
		return nil
	}
	for _, sess := range s.sessions {
		if sess.id == id {
			return sess
		}
	}
	return nil
}

// TitleFrom derives a session title from the first user message.
func TitleFrom(text string) string {
	r := []rune(text)
	if len(r) <= titleLimit {
		return text
	}
	return string(r[:titleLimit]) + "..."
}
