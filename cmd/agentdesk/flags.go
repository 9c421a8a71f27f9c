// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports -p, --rpc, --escalate, --output-format, --agent-url, --model, --theme, --verbose, --version

package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mauromedda/agentdesk/internal/config"
)

type cliArgs struct {
	prompt       string
	rpc          bool
	escalate     bool
	outputFormat string
	agentURL     string
	model        string
	theme        string
	verbose      bool
	version      bool
	rest         []string
}

var outputFormats = []string{"text", "json", "stream-json"}

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("agentdesk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&args.prompt, "p", "", "Ask one question without the dashboard and print the answer")
	fs.StringVar(&args.prompt, "print", "", "Alias for -p")
	fs.BoolVar(&args.rpc, "rpc", false, "Serve JSONL requests on stdin and write responses and task events to stdout")
	fs.BoolVar(&args.escalate, "escalate", false, "In print mode, answer with a live web search when the reply needs live data")
	fs.StringVar(&args.outputFormat, "output-format", "text", "Print mode output: text, json or stream-json")
	fs.StringVar(&args.agentURL, "agent-url", "", "Agent backend base URL")
	fs.StringVar(&args.model, "model", "", "Gemini model used for live search")
	fs.StringVar(&args.theme, "theme", "", "Theme: dark, light or a path to a .json theme")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	args.rest = fs.Args()

	valid := false
	for _, f := range outputFormats {
		if args.outputFormat == f {
			valid = true
		}
	}
	if args.rpc && args.prompt != "" {
		return cliArgs{}, fmt.Errorf("-p and --rpc are mutually exclusive")
	}
	if !valid {
		return cliArgs{}, fmt.Errorf("invalid --output-format %q (want %s)", args.outputFormat, strings.Join(outputFormats, ", "))
	}
	return args, nil
}

// overrides returns the flag values that take precedence over config files.
func (a cliArgs) overrides() config.Overrides {
	return config.Overrides{
		AgentURL:    a.agentURL,
		GeminiModel: a.model,
		Theme:       a.theme,
	}
}

// headless reports whether to skip the dashboard. RPC mode, a prompt on
// the command line or a piped stdin all run without it.
func (a cliArgs) headless(stdinTerminal bool) bool {
	return a.rpc || a.prompt != "" || len(a.rest) > 0 || !stdinTerminal
}

// question returns the prompt text from -p or the positional arguments.
// Empty means read it from stdin.
func (a cliArgs) question() string {
	if a.prompt != "" {
		return a.prompt
	}
	return strings.Join(a.rest, " ")
}
