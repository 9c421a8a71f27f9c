// ABOUTME: Params and result payloads for the RPC methods
// ABOUTME: Messages carry latency in milliseconds and sources with their display label

package rpc

import (
	"time"

	"github.com/mauromedda/agentdesk/internal/chat"
)

// SendParams is the payload of send.
type SendParams struct {
	Text string `json:"text"`
}

// SessionParams names a session. An empty id means the current one where
// the method allows it.
type SessionParams struct {
	ID string `json:"id"`
}

// SendResult is returned by send.
type SendResult struct {
	SessionID string `json:"session_id"`
}

// StatusResult is the response payload for get_status.
type StatusResult struct {
	SessionID   string `json:"session_id,omitempty"`
	TaskID      string `json:"task_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Loading     bool   `json:"loading"`
	CanEscalate bool   `json:"can_escalate"`
	Reachable   bool   `json:"reachable"`
}

// SessionInfo describes one chat session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  int       `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
	Current   bool      `json:"current"`
}

// SessionListResult is the response payload for list_sessions.
type SessionListResult struct {
	Sessions []SessionInfo `json:"sessions"`
}

// SourceInfo is a cited page.
type SourceInfo struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Label string `json:"label"`
}

// MessageInfo is one conversation entry.
type MessageInfo struct {
	ID        string       `json:"id"`
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	LatencyMs int64        `json:"latency_ms,omitempty"`
	TaskID    string       `json:"task_id,omitempty"`
	Sources   []SourceInfo `json:"sources,omitempty"`
}

// MessagesResult is the response payload for get_messages.
type MessagesResult struct {
	SessionID string        `json:"session_id"`
	Messages  []MessageInfo `json:"messages"`
}

// EventParams is the payload of an event notification.
type EventParams struct {
	Kind      string `json:"kind"`
	SessionID string `json:"session_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

func messageInfo(m chat.Message) MessageInfo {
	info := MessageInfo{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		LatencyMs: m.Latency.Milliseconds(),
		TaskID:    m.TaskID,
	}
	for _, s := range m.Sources {
		info.Sources = append(info.Sources, SourceInfo{Title: s.Title, URL: s.URL, Label: s.Label()})
	}
	return info
}
