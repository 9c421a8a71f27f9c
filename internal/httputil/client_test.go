// ABOUTME: Tests for the shared HTTP client: headers, JSON bodies and single-attempt semantics
// ABOUTME: Uses httptest.NewServer for deterministic, isolated test scenarios

package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestClientDoBasicRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		if r.Header.Get("X-Custom") != "test-value" {
			t.Errorf("got header %q, want %q", r.Header.Get("X-Custom"), "test-value")
		}
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL+"/", map[string]string{"X-Custom": "test-value"})

	resp, err := client.Do(context.Background(), http.MethodPost, "/test", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	got, _ := io.ReadAll(resp.Body)
	if string(got) != "hello" {
		t.Errorf("got body %q, want %q", string(got), "hello")
	}
}

func TestClientDoNoRetryOn5xx(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	resp, err := NewClient(srv.URL, nil).Do(context.Background(), http.MethodGet, "/x", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("got status %d, want 503", resp.StatusCode)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("got %d attempts, want 1", got)
	}
}

func TestClientDoJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var m map[string]string
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Errorf("decode: %v", err)
		}
		if m["text"] != "hi" {
			t.Errorf("text = %q", m["text"])
		}
	}))
	t.Cleanup(srv.Close)

	resp, err := NewClient(srv.URL, nil).DoJSON(context.Background(), http.MethodPost, "/agent", map[string]string{"text": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
}

func TestClientDoCancelledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(srv.URL, nil).Do(ctx, http.MethodGet, "/", nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
