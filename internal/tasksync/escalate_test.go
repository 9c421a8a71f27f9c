// ABOUTME: Tests for escalating the active task to live search
// ABOUTME: Covers success, failure, best-effort completion and the stale-poll race

package tasksync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauromedda/agentdesk/internal/agentclient"
	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/search"
)

func executingForever(context.Context, string, int) *agentclient.Task {
	return &agentclient.Task{Status: "executing"}
}

func startTask(t *testing.T, s *Synchronizer, text string) {
	t.Helper()
	if err := s.Send(text); err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitFor(t, "active task", func() bool {
		_, ok := s.ActiveTask()
		return ok && !s.Loading()
	})
}

func TestNeedsLiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"Checking the WEATHER forecast", true},
		{"Latest headlines", true},
		{"stock prices are up", true},
		{"your schedule for today", true},
		{"Here is a poem", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := NeedsLiveData(tt.text); got != tt.want {
			t.Errorf("NeedsLiveData(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}

func TestCanEscalate(t *testing.T) {
	t.Parallel()

	api := &fakeBackend{sendFn: replyTask("t1", "waiting_for_internet", "I need the weather service"), taskFn: executingForever}
	s, store := newSync(t, api, &fakeSearcher{})

	if s.CanEscalate() {
		t.Error("CanEscalate true with no task")
	}
	startTask(t, s, "weather?")
	if !s.CanEscalate() {
		t.Error("CanEscalate false for a weather reply")
	}

	_, _ = store.Append(store.CurrentID(), chat.Message{Role: chat.RoleUser, Content: "follow up"})
	if s.CanEscalate() {
		t.Error("CanEscalate true after the target stopped trailing")
	}
}

func TestEscalate_Success(t *testing.T) {
	t.Parallel()

	api := &fakeBackend{sendFn: replyTask("t1", "waiting_for_internet", "Need live weather"), taskFn: executingForever}
	var gotQuery string
	searcher := &fakeSearcher{fn: func(_ context.Context, q string) (*search.Result, error) {
		gotQuery = q
		time.Sleep(5 * time.Millisecond)
		return &search.Result{
			Text:    "72°F, sunny",
			Sources: []chat.Source{{Title: "Weather.com", URL: "https://www.weather.com"}},
		}, nil
	}}
	s, store := newSync(t, api, searcher)

	startTask(t, s, "What's the weather in Paris?")
	if err := s.Escalate(context.Background()); err != nil {
		t.Fatalf("Escalate: %v", err)
	}

	if gotQuery != "What's the weather in Paris?" {
		t.Errorf("query = %q", gotQuery)
	}
	if _, ok := s.ActiveTask(); ok {
		t.Error("task should be cleared")
	}
	if s.Status() != agentclient.StatusCompleted {
		t.Errorf("Status = %q; want completed", s.Status())
	}
	msg := trailing(t, store, store.CurrentID())
	if msg.Content != "72°F, sunny" || len(msg.Sources) != 1 {
		t.Errorf("trailing = %+v", msg)
	}
	if msg.Latency <= 0 {
		t.Errorf("Latency = %v; want positive delta from message timestamp", msg.Latency)
	}

	calls := api.completeCalls()
	if len(calls) != 1 || calls[0].id != "t1" || calls[0].plan != "72°F, sunny" {
		t.Errorf("CompleteTask calls = %+v", calls)
	}

	polled := api.polls.Load()
	time.Sleep(5 * testInterval)
	if api.polls.Load() != polled {
		t.Error("polling continued after escalation")
	}
}

func TestEscalate_CompleteTaskFailureStillCompletes(t *testing.T) {
	t.Parallel()

	api := &fakeBackend{
		sendFn:      replyTask("t1", "executing", "news pending"),
		taskFn:      executingForever,
		completeErr: errors.New("backend down"),
	}
	searcher := &fakeSearcher{fn: func(context.Context, string) (*search.Result, error) {
		return &search.Result{Text: "headlines"}, nil
	}}
	s, _ := newSync(t, api, searcher)

	startTask(t, s, "news")
	if err := s.Escalate(context.Background()); err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if _, ok := s.ActiveTask(); ok || s.Status() != agentclient.StatusCompleted {
		t.Errorf("ActiveTask ok=%v Status=%q; want cleared and completed", ok, s.Status())
	}
}

func TestEscalate_SearchFailure(t *testing.T) {
	t.Parallel()

	api := &fakeBackend{sendFn: replyTask("t1", "executing", "price lookup"), taskFn: executingForever}
	searcher := &fakeSearcher{fn: func(context.Context, string) (*search.Result, error) {
		return nil, errors.New("quota exceeded")
	}}
	s, store := newSync(t, api, searcher)

	startTask(t, s, "price of gold")
	err := s.Escalate(context.Background())
	if err == nil {
		t.Fatal("expected escalation error")
	}

	if _, ok := s.ActiveTask(); ok {
		t.Error("task should be cleared after a failed search")
	}
	if msg := trailing(t, store, store.CurrentID()); msg.Content != "Error performing search: quota exceeded" {
		t.Errorf("content = %q", msg.Content)
	}
	if calls := api.completeCalls(); len(calls) != 0 {
		t.Errorf("backend notified on failure: %+v", calls)
	}
}

func TestEscalate_NoActiveTask(t *testing.T) {
	t.Parallel()

	s, _ := newSync(t, &fakeBackend{}, &fakeSearcher{})
	if err := s.Escalate(context.Background()); !errors.Is(err, ErrNoActiveTask) {
		t.Errorf("err = %v; want ErrNoActiveTask", err)
	}
}

func TestEscalate_NoSearcherFails(t *testing.T) {
	t.Parallel()

	api := &fakeBackend{sendFn: replyTask("t1", "executing", "weather"), taskFn: executingForever}
	s, store := newSync(t, api, nil)

	startTask(t, s, "weather")
	if err := s.Escalate(context.Background()); err == nil {
		t.Fatal("expected error without a searcher")
	}
	if msg := trailing(t, store, store.CurrentID()); msg.Content != "Error performing search: live search is not configured" {
		t.Errorf("content = %q", msg.Content)
	}
}

// A poll that is in flight when escalation claims the task must not
// overwrite the escalated answer when it finally returns.
func TestEscalate_StalePollCannotClobber(t *testing.T) {
	t.Parallel()

	pollStarted := make(chan struct{}, 1)
	releasePoll := make(chan struct{})
	api := &fakeBackend{
		sendFn: replyTask("t1", "executing", "weather soon"),
		taskFn: func(context.Context, string, int) *agentclient.Task {
			select {
			case pollStarted <- struct{}{}:
			default:
			}
			<-releasePoll
			return &agentclient.Task{Status: agentclient.StatusCompleted, Plan: "stale backend answer"}
		},
	}
	searcher := &fakeSearcher{fn: func(context.Context, string) (*search.Result, error) {
		return &search.Result{Text: "escalated answer"}, nil
	}}
	s, store := newSync(t, api, searcher)

	startTask(t, s, "weather")
	<-pollStarted

	if err := s.Escalate(context.Background()); err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	close(releasePoll)
	time.Sleep(5 * testInterval)

	if msg := trailing(t, store, store.CurrentID()); msg.Content != "escalated answer" {
		t.Errorf("content = %q; stale poll clobbered the escalated result", msg.Content)
	}
	if s.Status() != agentclient.StatusCompleted {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestApplyPoll_StaleVersionIgnored(t *testing.T) {
	t.Parallel()

	s, store := newSync(t, &fakeBackend{}, nil)
	sessionID := store.EnsureCurrent()
	msg, _ := store.Append(sessionID, chat.Message{Role: chat.RoleModel, Content: "original"})

	stale := &activeTask{id: "t1", sessionID: sessionID, messageID: msg.ID, version: 1, stop: func() {}}
	s.active = &activeTask{id: "t1", sessionID: sessionID, messageID: msg.ID, version: 2, stop: func() {}}

	if done := s.applyPoll(stale, &agentclient.Task{Status: agentclient.StatusCompleted, Plan: "stale"}); !done {
		t.Error("stale poller should be told to stop")
	}
	if got := trailing(t, store, sessionID); got.Content != "original" {
		t.Errorf("content = %q; want original", got.Content)
	}
	if _, ok := s.ActiveTask(); !ok {
		t.Error("current task must survive a stale result")
	}
}

func TestEscalate_SupersededTaskIsAbandoned(t *testing.T) {
	t.Parallel()

	var sends int
	api := &fakeBackend{
		sendFn: func(_ context.Context, text string) (*agentclient.SendResult, error) {
			sends++
			if sends == 1 {
				return &agentclient.SendResult{ID: "t1", Status: "executing", Plan: "Checking weather..."}, nil
			}
			return &agentclient.SendResult{Plan: "immediate answer"}, nil
		},
		taskFn: executingForever,
	}
	searcher := &fakeSearcher{fn: func(_ context.Context, q string) (*search.Result, error) {
		return &search.Result{Text: "answer for " + q}, nil
	}}
	s, store := newSync(t, api, searcher)

	startTask(t, s, "weather in Paris?")
	if err := s.Send("tell me a joke"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitFor(t, "immediate reply", func() bool { return !s.Loading() })

	if _, ok := s.ActiveTask(); ok {
		t.Error("task should be abandoned once a newer reply trails it")
	}
	if err := s.Escalate(context.Background()); !errors.Is(err, ErrNoActiveTask) {
		t.Errorf("err = %v; want ErrNoActiveTask", err)
	}
	if msg := trailing(t, store, store.CurrentID()); msg.Content != "immediate answer" {
		t.Errorf("content = %q", msg.Content)
	}
	if calls := api.completeCalls(); len(calls) != 0 {
		t.Errorf("backend notified for a superseded task: %+v", calls)
	}
}

func TestEscalate_RejectsTargetThatStoppedTrailing(t *testing.T) {
	t.Parallel()

	api := &fakeBackend{sendFn: replyTask("t1", "executing", "weather soon"), taskFn: executingForever}
	searched := false
	searcher := &fakeSearcher{fn: func(context.Context, string) (*search.Result, error) {
		searched = true
		return &search.Result{Text: "answer"}, nil
	}}
	s, store := newSync(t, api, searcher)

	startTask(t, s, "weather")
	_, _ = store.Append(store.CurrentID(), chat.Message{Role: chat.RoleUser, Content: "unrelated"})

	if err := s.Escalate(context.Background()); !errors.Is(err, ErrStaleTarget) {
		t.Fatalf("err = %v; want ErrStaleTarget", err)
	}
	if searched {
		t.Error("search ran for a stale target")
	}
	if calls := api.completeCalls(); len(calls) != 0 {
		t.Errorf("CompleteTask calls = %+v", calls)
	}
}

func TestEscalate_MergeFailureSkipsBackend(t *testing.T) {
	t.Parallel()

	api := &fakeBackend{sendFn: replyTask("t1", "executing", "news pending"), taskFn: executingForever}
	var store *chat.Store
	searcher := &fakeSearcher{fn: func(context.Context, string) (*search.Result, error) {
		// A message lands while the search runs.
		_, _ = store.Append(store.CurrentID(), chat.Message{Role: chat.RoleUser, Content: "meanwhile"})
		return &search.Result{Text: "headlines"}, nil
	}}
	s, st := newSync(t, api, searcher)
	store = st

	startTask(t, s, "news")
	err := s.Escalate(context.Background())
	if !errors.Is(err, chat.ErrNotTrailing) {
		t.Fatalf("err = %v; want chat.ErrNotTrailing", err)
	}
	if calls := api.completeCalls(); len(calls) != 0 {
		t.Errorf("backend notified after a failed merge: %+v", calls)
	}
	if _, ok := s.ActiveTask(); ok {
		t.Error("task should be cleared")
	}
	if s.Status() == agentclient.StatusCompleted {
		t.Error("status must not report completed when nothing was merged")
	}
}
