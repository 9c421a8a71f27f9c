// ABOUTME: RPC wrapper for the agent backend: send, task polling, completion, auth and settings
// ABOUTME: Mutating calls propagate typed errors; advisory reads degrade to safe defaults

package agentclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/httputil"
	"github.com/mauromedda/agentdesk/internal/log"
)

const (
	// DefaultSendTimeout bounds a single POST /agent call.
	DefaultSendTimeout = 310 * time.Second
	// DefaultRequestTimeout bounds every other backend call.
	DefaultRequestTimeout = 30 * time.Second
)

const maxErrorBody = 64 << 10

// Client talks to the agent backend. It is safe for concurrent use.
type Client struct {
	http           *httputil.Client
	sendTimeout    time.Duration
	requestTimeout time.Duration
	now            func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = c.http.WithHTTPClient(hc) }
}

// WithSendTimeout overrides DefaultSendTimeout.
func WithSendTimeout(d time.Duration) Option {
	return func(c *Client) { c.sendTimeout = d }
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithClock overrides the time source used for client_time.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:           httputil.NewClient(baseURL, nil),
		sendTimeout:    DefaultSendTimeout,
		requestTimeout: DefaultRequestTimeout,
		now:            time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.http.BaseURL() }

// Send submits a user message. The call is bounded by the send timeout and
// exceeding it yields a KindTimeout error.
func (c *Client) Send(ctx context.Context, text string) (*SendResult, error) {
	const op = "send"
	sendCtx, cancel := context.WithTimeout(ctx, c.sendTimeout)
	defer cancel()

	body, err := c.do(sendCtx, op, http.MethodPost, "/agent", sendRequest{
		Text:       text,
		ClientTime: FormatClientTime(c.now()),
	})
	if err != nil {
		// Only our own deadline is a timeout; a cancelled parent stays transport.
		if ctx.Err() == nil && errors.Is(sendCtx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Op: op, Err: err}
		}
		return nil, err
	}

	var res SendResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	res.Raw = string(body)
	return &res, nil
}

// GetTask fetches a task. It returns nil on any failure.
func (c *Client) GetTask(ctx context.Context, id string) *Task {
	var t Task
	if err := c.getJSON(ctx, "get task", httputil.Path("tasks", id), &t); err != nil {
		log.Debug("agentclient: get task %s: %v", id, err)
		return nil
	}
	if t.ID == "" {
		t.ID = id
	}
	return &t
}

// CompleteTask records a client-side result on the backend task.
func (c *Client) CompleteTask(ctx context.Context, id, plan string, sources []chat.Source) error {
	if sources == nil {
		sources = []chat.Source{}
	}
	_, err := c.call(ctx, "complete task", http.MethodPost, httputil.Path("tasks", id, "complete"),
		completeRequest{PlanUpdate: plan, Sources: sources})
	return err
}

// ExchangeAuthCode trades an OAuth authorization code for credentials.
// Backend failures carry the response detail, or "Auth failed" when absent.
func (c *Client) ExchangeAuthCode(ctx context.Context, code string) (*Credentials, error) {
	const op = "exchange auth code"
	body, err := c.call(ctx, op, http.MethodPost, "/auth/google", authCodeRequest{Code: code})
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Kind == KindBackend && e.Detail == "" {
			e.Detail = "Auth failed"
		}
		return nil, err
	}
	var cred Credentials
	if err := json.Unmarshal(body, &cred); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return &cred, nil
}

// AuthStatus reports whether the backend holds Google credentials.
// Any failure reads as disconnected.
func (c *Client) AuthStatus(ctx context.Context) AuthStatus {
	var st AuthStatus
	if err := c.getJSON(ctx, "auth status", "/auth/status", &st); err != nil {
		log.Debug("agentclient: auth status: %v", err)
		return AuthStatus{}
	}
	return st
}

// User returns the connected profile, or nil when unavailable.
func (c *Client) User(ctx context.Context) *Profile {
	var p Profile
	if err := c.getJSON(ctx, "user", "/auth/user", &p); err != nil {
		log.Debug("agentclient: user: %v", err)
		return nil
	}
	return &p
}

// Logout revokes backend credentials.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.call(ctx, "logout", http.MethodPost, "/auth/logout", nil)
	return err
}

// Settings reads backend settings, falling back to DefaultSettings.
func (c *Client) Settings(ctx context.Context) Settings {
	s := DefaultSettings()
	if err := c.getJSON(ctx, "settings", "/settings", &s); err != nil {
		log.Debug("agentclient: settings: %v", err)
		return DefaultSettings()
	}
	return s
}

// UpdateSetting writes a single boolean setting.
func (c *Client) UpdateSetting(ctx context.Context, key string, value bool) error {
	_, err := c.call(ctx, "update setting", http.MethodPost, "/settings", settingUpdate{Key: key, Value: value})
	return err
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	body, err := c.call(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}

// call performs one request bounded by the request timeout. Exceeding it
// yields a KindTimeout error.
func (c *Client) call(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	body, err := c.do(reqCtx, op, method, path, payload)
	if err != nil && ctx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return nil, &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	return body, err
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	resp, err := c.http.DoJSON(ctx, method, path, payload)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw := httputil.ReadLimited(resp.Body, maxErrorBody)
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return nil, &Error{
			Kind:   KindBackend,
			Op:     op,
			Status: resp.StatusCode,
			Detail: eb.Detail,
			Err:    fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}
