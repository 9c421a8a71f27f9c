// ABOUTME: Tests for the agent backend client against httptest servers
// ABOUTME: Covers request shapes, error kinds, timeouts and advisory-read defaults

package agentclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/agentdesk/internal/chat"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...)
}

func TestSend_RequestShapeAndResult(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 2, 4, 2, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/agent" {
			t.Errorf("got %s %s; want POST /agent", r.Method, r.URL.Path)
		}
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Text != "hello" {
			t.Errorf("text = %q", req.Text)
		}
		if want := "Wed Feb 04 2026 02:30:00 GMT+0530 (IST)"; req.ClientTime != want {
			t.Errorf("client_time = %q; want %q", req.ClientTime, want)
		}
		_, _ = w.Write([]byte(`{"id":"t1","status":"executing","plan":"Checking forecast..."}`))
	}, WithClock(func() time.Time { return fixed }))

	res, err := c.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.ID != "t1" || res.Status != "executing" || res.Content() != "Checking forecast..." {
		t.Errorf("result = %+v", res)
	}
}

func TestSend_EmptyPlanFallsBackToRawBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	})

	res, err := c.Send(context.Background(), "x")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.ID != "" {
		t.Errorf("ID = %q; want empty", res.ID)
	}
	if res.Content() != `{"status":"error"}` {
		t.Errorf("Content = %q", res.Content())
	}
}

func TestSend_ErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Kind
	}{
		{"backend", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, KindBackend},
		{"decode", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}, KindDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, tt.handler)
			_, err := c.Send(context.Background(), "x")
			if !IsKind(err, tt.want) {
				t.Errorf("err = %v; want kind %v", err, tt.want)
			}
		})
	}
}

func TestSend_BackendErrorMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Send(context.Background(), "x")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %T; want *Error", err)
	}
	if e.Status != http.StatusBadGateway {
		t.Errorf("Status = %d", e.Status)
	}
	if err.Error() != "agent backend error: 502" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSend_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithSendTimeout(50*time.Millisecond))
	defer close(release)

	_, err := c.Send(context.Background(), "x")
	if !IsKind(err, KindTimeout) {
		t.Fatalf("err = %v; want timeout kind", err)
	}
}

func TestSend_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Send(context.Background(), "x")
	if !IsKind(err, KindTransport) {
		t.Errorf("err = %v; want transport kind", err)
	}
}

func TestSend_ParentCancelIsNotTimeout(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := c.Send(ctx, "x")
	if IsKind(err, KindTimeout) {
		t.Errorf("cancelled send reported as timeout: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want wrapping context.Canceled", err)
	}
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/t1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"completed","plan":"72°F, sunny","sources":[{"title":"Weather.com","url":"https://weather.com"}]}`))
	})

	task := c.GetTask(context.Background(), "t1")
	if task == nil {
		t.Fatal("GetTask returned nil")
	}
	if task.ID != "t1" || task.Status != StatusCompleted || task.Plan != "72°F, sunny" {
		t.Errorf("task = %+v", task)
	}
	if len(task.Sources) != 1 || task.Sources[0].URL != "https://weather.com" {
		t.Errorf("sources = %+v", task.Sources)
	}
}

func TestRequestTimeout_BoundsNonSendCalls(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithRequestTimeout(50*time.Millisecond))
	defer close(release)

	start := time.Now()
	if task := c.GetTask(context.Background(), "t1"); task != nil {
		t.Errorf("GetTask = %+v; want nil on a hung server", task)
	}
	if err := c.CompleteTask(context.Background(), "t1", "plan", nil); !IsKind(err, KindTimeout) {
		t.Errorf("CompleteTask err = %v; want timeout kind", err)
	}
	if err := c.Logout(context.Background()); !IsKind(err, KindTimeout) {
		t.Errorf("Logout err = %v; want timeout kind", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("calls took %v; request timeout not applied", elapsed)
	}
}

func TestAdvisoryReadsDegrade(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ctx := context.Background()

	if task := c.GetTask(ctx, "t1"); task != nil {
		t.Errorf("GetTask = %+v; want nil", task)
	}
	if st := c.AuthStatus(ctx); st.Connected {
		t.Error("AuthStatus connected; want disconnected")
	}
	if p := c.User(ctx); p != nil {
		t.Errorf("User = %+v; want nil", p)
	}
	if s := c.Settings(ctx); !s.CalendarSyncEnabled {
		t.Error("Settings should default to calendar_sync_enabled=true")
	}
}

func TestAdvisoryReadsDegradeOnGarbage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{{{`))
	})
	ctx := context.Background()

	if task := c.GetTask(ctx, "t1"); task != nil {
		t.Errorf("GetTask = %+v; want nil", task)
	}
	if s := c.Settings(ctx); !s.CalendarSyncEnabled {
		t.Error("Settings should default on decode failure")
	}
}

func TestCompleteTask(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/t1/complete" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req completeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.PlanUpdate != "done" || len(req.Sources) != 1 {
			t.Errorf("req = %+v", req)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	err := c.CompleteTask(context.Background(), "t1", "done", []chat.Source{{Title: "a", URL: "https://a.com"}})
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
}

func TestCompleteTask_NilSourcesSentAsEmptyList(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if string(raw["sources"]) != "[]" {
			t.Errorf("sources = %s; want []", raw["sources"])
		}
	})
	if err := c.CompleteTask(context.Background(), "t1", "x", nil); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
}

func TestExchangeAuthCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   string
		wantToken string
	}{
		{"ok", http.StatusOK, `{"token":"tok","refresh_token":"ref"}`, "", "tok"},
		{"detail", http.StatusBadRequest, `{"detail":"invalid_grant"}`, "invalid_grant", ""},
		{"no detail", http.StatusInternalServerError, `{}`, "Auth failed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var req authCodeRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Code != "abc" {
					t.Errorf("code = %q", req.Code)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			cred, err := c.ExchangeAuthCode(context.Background(), "abc")
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("err = %v; want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cred.Token != tt.wantToken {
				t.Errorf("Token = %q", cred.Token)
			}
		})
	}
}

func TestUserAndSettings(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/user":
			_, _ = w.Write([]byte(`{"name":"Ada","picture":"http://x/p.png","email":"ada@example.com"}`))
		case "/auth/status":
			_, _ = w.Write([]byte(`{"connected":true}`))
		case "/settings":
			if r.Method == http.MethodPost {
				var u settingUpdate
				_ = json.NewDecoder(r.Body).Decode(&u)
				if u.Key != "calendar_sync_enabled" || u.Value {
					t.Errorf("update = %+v", u)
				}
				return
			}
			_, _ = w.Write([]byte(`{"calendar_sync_enabled":false}`))
		case "/auth/logout":
			_, _ = w.Write([]byte(`{"status":"logged_out"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	if p := c.User(ctx); p == nil || p.Email != "ada@example.com" {
		t.Errorf("User = %+v", p)
	}
	if !c.AuthStatus(ctx).Connected {
		t.Error("AuthStatus should be connected")
	}
	if c.Settings(ctx).CalendarSyncEnabled {
		t.Error("Settings should reflect backend value false")
	}
	if err := c.UpdateSetting(ctx, "calendar_sync_enabled", false); err != nil {
		t.Errorf("UpdateSetting: %v", err)
	}
	if err := c.Logout(ctx); err != nil {
		t.Errorf("Logout: %v", err)
	}
}

func TestFormatClientTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 10, 19, 9, 5, 7, 0, time.UTC)
	got := FormatClientTime(ts)
	if !strings.HasPrefix(got, "Mon Oct 19 2026 09:05:07 GMT+0000") {
		t.Errorf("FormatClientTime = %q", got)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if KindTimeout.String() != "timeout" || KindDecode.String() != "decode" {
		t.Error("unexpected Kind names")
	}
}
