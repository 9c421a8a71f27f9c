// ABOUTME: Headless print mode: sends one prompt, waits for the task and prints the answer
// ABOUTME: Text, JSON and stream-JSON formatters; optional escalation to live search

package print

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/log"
	"github.com/mauromedda/agentdesk/internal/tasksync"
)

// settleCheck bounds how long a dropped bus event can delay completion.
const settleCheck = 250 * time.Millisecond

var (
	// ErrNoPrompt is returned when neither the argument nor stdin has text.
	ErrNoPrompt = errors.New("print: no prompt given")
	// ErrRequestFailed is returned when the backend call failed.
	ErrRequestFailed = errors.New("print: request failed")
	// ErrExpired is returned when the task did not complete within the poll bound.
	ErrExpired = errors.New("print: task did not complete in time")
)

// Config configures headless execution.
type Config struct {
	OutputFormat string // "text" (default), "json", "stream-json"
	// Escalate answers with a live web search when the reply needs live data.
	Escalate bool
}

// Deps provides dependencies for print mode.
type Deps struct {
	Store *chat.Store
	Sync  *tasksync.Synchronizer

	Stdin  io.Reader // nil uses os.Stdin
	Stdout io.Writer // nil uses os.Stdout
	Stderr io.Writer // nil uses os.Stderr
}

// Result is the final answer.
type Result struct {
	Text      string
	Status    string
	Latency   time.Duration
	Sources   []chat.Source
	TaskID    string
	Escalated bool
}

// Run sends prompt, or stdin when prompt is empty, and prints the final
// answer once the task settles.
func Run(ctx context.Context, cfg Config, deps Deps, prompt string) error {
	deps = withDefaults(deps)
	if strings.TrimSpace(prompt) == "" {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		prompt = string(data)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrNoPrompt
	}

	f := newFormatter(cfg.OutputFormat, deps.Stdout, deps.Stderr)

	events, unsub := deps.Sync.Events().Channel(32)
	defer unsub()

	f.start()
	if err := deps.Sync.Send(prompt); err != nil {
		f.err(err)
		f.end()
		return fmt.Errorf("send: %w", err)
	}

	res, err := wait(ctx, cfg, deps, events, f)
	if err != nil {
		f.err(err)
		f.end()
		return err
	}
	f.result(res)
	f.end()

	switch {
	case res.TaskID == "" && strings.HasPrefix(res.Text, "Error: "):
		return ErrRequestFailed
	case res.Status == tasksync.StatusExpired:
		return ErrExpired
	}
	return nil
}

func withDefaults(d Deps) Deps {
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	return d
}

// wait blocks until no send, escalation or task is in flight.
func wait(ctx context.Context, cfg Config, deps Deps, events <-chan tasksync.Event, f formatter) (Result, error) {
	ticker := time.NewTicker(settleCheck)
	defer ticker.Stop()

	escalated := false
	lastStatus := ""
	for {
		if st := deps.Sync.Status(); st != lastStatus {
			lastStatus = st
			f.status(st)
		}
		if cfg.Escalate && !escalated && deps.Sync.CanEscalate() {
			escalated = true
			log.Info("print: escalating to live search")
			if err := deps.Sync.Escalate(ctx); err != nil {
				f.err(err)
			}
			continue
		}
		if _, active := deps.Sync.ActiveTask(); !active && !deps.Sync.Loading() {
			res := final(deps.Store)
			res.Status = deps.Sync.Status()
			res.Escalated = escalated
			return res, nil
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-events:
		case <-ticker.C:
		}
	}
}

// final returns the trailing model message of the current session.
func final(store *chat.Store) Result {
	sess, ok := store.Current()
	if !ok || len(sess.Messages) == 0 {
		return Result{}
	}
	m := sess.Messages[len(sess.Messages)-1]
	if m.Role != chat.RoleModel {
		return Result{}
	}
	return Result{Text: m.Content, Latency: m.Latency, Sources: m.Sources, TaskID: m.TaskID}
}

// formatter abstracts output formatting.
type formatter interface {
	start()
	status(s string)
	result(r Result)
	err(e error)
	end()
}

func newFormatter(format string, out, errOut io.Writer) formatter {
	switch format {
	case "json":
		return &jsonFormatter{out: out}
	case "stream-json":
		return &streamJSONFormatter{out: out}
	default:
		return &textFormatter{out: out, errOut: errOut}
	}
}

// textFormatter prints the answer and numbered sources.
type textFormatter struct {
	out, errOut io.Writer
}

func (f *textFormatter) start() {}
func (f *textFormatter) status(s string) {
	if s != "" {
		fmt.Fprintf(f.errOut, "[status: %s]\n", s)
	}
}
func (f *textFormatter) result(r Result) {
	fmt.Fprintln(f.out, r.Text)
	if len(r.Sources) > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, "Sources:")
		for i, s := range r.Sources {
			fmt.Fprintf(f.out, "[%d] %s %s\n", i+1, s.Label(), s.URL)
		}
	}
}

// err is a no-op: the caller reports the returned error on stderr.
func (f *textFormatter) err(error) {}
func (f *textFormatter) end()      {}

// jsonFormatter collects everything and writes one JSON object at the end.
type jsonFormatter struct {
	out    io.Writer
	res    *Result
	errors []string
}

type jsonSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Label string `json:"label"`
}

type jsonOutput struct {
	Text      string       `json:"text"`
	Status    string       `json:"status,omitempty"`
	TaskID    string       `json:"task_id,omitempty"`
	LatencyMS int64        `json:"latency_ms,omitempty"`
	Escalated bool         `json:"escalated,omitempty"`
	Sources   []jsonSource `json:"sources,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
}

func toJSONSources(sources []chat.Source) []jsonSource {
	if len(sources) == 0 {
		return nil
	}
	out := make([]jsonSource, len(sources))
	for i, s := range sources {
		out[i] = jsonSource{Title: s.Title, URL: s.URL, Label: s.Label()}
	}
	return out
}

func (f *jsonFormatter) start()          {}
func (f *jsonFormatter) status(string)   {}
func (f *jsonFormatter) result(r Result) { f.res = &r }
func (f *jsonFormatter) err(e error)     { f.errors = append(f.errors, e.Error()) }
func (f *jsonFormatter) end() {
	out := jsonOutput{Errors: f.errors}
	if r := f.res; r != nil {
		out.Text = r.Text
		out.Status = r.Status
		out.TaskID = r.TaskID
		out.LatencyMS = r.Latency.Milliseconds()
		out.Escalated = r.Escalated
		out.Sources = toJSONSources(r.Sources)
	}
	data, _ := json.Marshal(out)
	fmt.Fprintln(f.out, string(data))
}

// streamJSONFormatter outputs one JSON line per event.
type streamJSONFormatter struct {
	out io.Writer
}

type streamEvent struct {
	Type    string       `json:"type"`
	Status  string       `json:"status,omitempty"`
	Text    string       `json:"text,omitempty"`
	Sources []jsonSource `json:"sources,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func (f *streamJSONFormatter) start() { f.write(streamEvent{Type: "start"}) }
func (f *streamJSONFormatter) status(s string) {
	if s != "" {
		f.write(streamEvent{Type: "status", Status: s})
	}
}
func (f *streamJSONFormatter) result(r Result) {
	f.write(streamEvent{Type: "result", Status: r.Status, Text: r.Text, Sources: toJSONSources(r.Sources)})
}
func (f *streamJSONFormatter) err(e error) { f.write(streamEvent{Type: "error", Error: e.Error()}) }
func (f *streamJSONFormatter) end()        { f.write(streamEvent{Type: "end"}) }

func (f *streamJSONFormatter) write(evt streamEvent) {
	data, _ := json.Marshal(evt)
	fmt.Fprintln(f.out, string(data))
}
