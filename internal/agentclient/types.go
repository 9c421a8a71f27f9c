// ABOUTME: Wire types for the agent backend HTTP contract
// ABOUTME: Sources reuse chat.Source so task results merge into messages without conversion

package agentclient

import "github.com/mauromedda/agentdesk/internal/chat"

// Task status values reported by the backend. Other values are shown generically.
const (
	StatusPlanned            = "planned"
	StatusWaitingForInternet = "waiting_for_internet"
	StatusExecuting          = "executing"
	StatusCompleted          = "completed"
)

type sendRequest struct {
	Text       string `json:"text"`
	ClientTime string `json:"client_time"`
}

// SendResult is the reply to POST /agent. ID is empty for immediate answers.
type SendResult struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Plan   string `json:"plan"`
	// Raw is the response body, used as content when Plan is empty.
	Raw string `json:"-"`
}

// Content returns the text to show for this reply.
func (r *SendResult) Content() string {
	if r.Plan != "" {
		return r.Plan
	}
	return r.Raw
}

// Task is the client-side view of a backend task.
type Task struct {
	ID      string        `json:"id,omitempty"`
	Status  string        `json:"status"`
	Plan    string        `json:"plan"`
	Sources []chat.Source `json:"sources,omitempty"`
}

type completeRequest struct {
	PlanUpdate string        `json:"plan_update"`
	Sources    []chat.Source `json:"sources"`
}

type authCodeRequest struct {
	Code string `json:"code"`
}

// Credentials is returned by a successful code exchange.
type Credentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry,omitempty"`
}

// AuthStatus is the reply to GET /auth/status.
type AuthStatus struct {
	Connected bool `json:"connected"`
}

// Profile is the connected Google account.
type Profile struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Email   string `json:"email"`
}

// Settings is the reply to GET /settings.
type Settings struct {
	CalendarSyncEnabled bool `json:"calendar_sync_enabled"`
}

// DefaultSettings is substituted when settings cannot be read.
func DefaultSettings() Settings {
	return Settings{CalendarSyncEnabled: true}
}

type settingUpdate struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

type errorBody struct {
	Detail string `json:"detail"`
}
