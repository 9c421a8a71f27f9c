// ABOUTME: Tests for CLI flag parsing, mode selection and the config subcommand
// ABOUTME: Uses a temporary AGENTDESK_HOME and working directory so no real config is read

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mauromedda/agentdesk/internal/config"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	args, err := parseFlags([]string{
		"-p", "weather in Paris?",
		"--escalate",
		"--output-format", "json",
		"--agent-url", "http://agent:9000",
		"--model", "gemini-2.5-pro",
		"--theme", "light",
		"--verbose",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if args.prompt != "weather in Paris?" || !args.escalate || args.outputFormat != "json" || !args.verbose {
		t.Errorf("args = %+v", args)
	}
	want := config.Overrides{AgentURL: "http://agent:9000", GeminiModel: "gemini-2.5-pro", Theme: "light"}
	if got := args.overrides(); got != want {
		t.Errorf("overrides = %+v; want %+v", got, want)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	args, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if args.outputFormat != "text" || args.prompt != "" || args.escalate {
		t.Errorf("args = %+v", args)
	}
	if (args.overrides() != config.Overrides{}) {
		t.Errorf("overrides = %+v; want zero", args.overrides())
	}
}

func TestParseFlags_InvalidOutputFormat(t *testing.T) {
	t.Parallel()

	if _, err := parseFlags([]string{"--output-format", "yaml"}, io.Discard); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestParseFlags_RPCWithPrompt(t *testing.T) {
	t.Parallel()

	if _, err := parseFlags([]string{"--rpc", "-p", "hi"}, io.Discard); err == nil {
		t.Fatal("expected error for -p with --rpc")
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	if _, err := parseFlags([]string{"--nope"}, &stderr); err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(stderr.String(), "nope") {
		t.Errorf("usage output = %q", stderr.String())
	}
}

func TestHeadless(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		argv     []string
		terminal bool
		want     bool
		question string
	}{
		{"dashboard on a terminal", nil, true, false, ""},
		{"prompt flag", []string{"-p", "hi"}, true, true, "hi"},
		{"positional prompt", []string{"what", "time", "is", "it"}, true, true, "what time is it"},
		{"piped stdin", nil, false, true, ""},
		{"rpc on a terminal", []string{"--rpc"}, true, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseFlags(tt.argv, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if got := args.headless(tt.terminal); got != tt.want {
				t.Errorf("headless = %v; want %v", got, tt.want)
			}
			if got := args.question(); got != tt.question {
				t.Errorf("question = %q; want %q", got, tt.question)
			}
		})
	}
}

func TestRunExplain(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AGENTDESK_HOME", home)
	t.Setenv("AGENTDESK_AGENT_URL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := `{"agent_url": "http://from-file:8000", "poll_interval_ms": 250}`
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(t.TempDir())

	args, err := parseFlags([]string{"--theme", "light"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := runExplain(args, &out); err != nil {
		t.Fatalf("runExplain: %v", err)
	}
	for _, want := range []string{"AgentURL:     http://from-file:8000", "PollInterval: 250ms", "Theme: light"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestThemePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("AGENTDESK_HOME", home)
	named := filepath.Join(home, "themes", "solar.json")
	if err := os.MkdirAll(filepath.Dir(named), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(named, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cwd := t.TempDir()

	tests := []struct {
		name, want string
	}{
		{"dark", ""},
		{"light", ""},
		{"/tmp/custom.json", "/tmp/custom.json"},
		{"solar", named},
		{"unknown", ""},
	}
	for _, tt := range tests {
		if got := themePath(cwd, tt.name); got != tt.want {
			t.Errorf("themePath(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}
