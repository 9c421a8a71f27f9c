// ABOUTME: CLI entry point for agentdesk: loads config, builds the backend stack, picks the mode
// ABOUTME: Dashboard TUI on a terminal, RPC mode for --rpc, print mode for -p or piped stdin

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/agentdesk/internal/termfix"

	"github.com/mauromedda/agentdesk/internal/agentclient"
	"github.com/mauromedda/agentdesk/internal/authstate"
	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/config"
	"github.com/mauromedda/agentdesk/internal/keybindings"
	"github.com/mauromedda/agentdesk/internal/log"
	"github.com/mauromedda/agentdesk/internal/mode/print"
	"github.com/mauromedda/agentdesk/internal/mode/rpc"
	"github.com/mauromedda/agentdesk/internal/oauth"
	"github.com/mauromedda/agentdesk/internal/search"
	"github.com/mauromedda/agentdesk/internal/tasksync"
	"github.com/mauromedda/agentdesk/internal/ui"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	argv := os.Args[1:]
	explain := len(argv) > 0 && argv[0] == "config"
	if explain {
		argv = argv[1:]
	}

	args, err := parseFlags(argv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("agentdesk %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if explain {
		err = runExplain(args, os.Stdout)
	} else {
		err = run(args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings merges config files, env and flags for the working directory.
func loadSettings(args cliArgs) (string, *config.Settings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("getting working directory: %w", err)
	}
	settings, err := config.Load(cwd)
	if err != nil {
		return "", nil, fmt.Errorf("loading config: %w", err)
	}
	return cwd, settings.Apply(args.overrides()), nil
}

func runExplain(args cliArgs, w io.Writer) error {
	_, settings, err := loadSettings(args)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, config.Explain(settings))
	return err
}

// run performs the full initialization sequence and dispatches to the selected mode.
func run(args cliArgs) error {
	if args.verbose {
		log.SetLevel(log.LevelDebug)
	}

	cwd, settings, err := loadSettings(args)
	if err != nil {
		return err
	}

	headless := args.headless(term.IsTerminal(int(os.Stdin.Fd())))
	if !headless {
		// Log lines written to the terminal would corrupt the alt screen.
		closeLog, err := log.OpenFile(config.LogFile())
		if err != nil {
			log.SetOutput(io.Discard)
		} else {
			defer func() { _ = closeLog() }()
		}
	}

	applyTheme(cwd, settings.Theme)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := agentclient.New(settings.AgentURL)
	searcher := search.New(settings.GeminiKey(), search.WithModel(settings.GeminiModel))
	if settings.GeminiKey() == "" {
		log.Debug("no Gemini API key configured; live search escalation is disabled")
	}

	store := chat.NewStore()
	syncer := tasksync.New(store, client, searcher,
		tasksync.WithPollInterval(settings.PollInterval()),
		tasksync.WithMaxPollDuration(settings.MaxPollDuration()),
	)
	defer syncer.Close()

	log.Debug("agentdesk %s: agent=%s headless=%v", version, settings.AgentURL, headless)

	if args.rpc {
		return rpc.Run(ctx, rpc.Deps{Store: store, Sync: syncer}, os.Stdin, os.Stdout)
	}
	if headless {
		return print.Run(ctx, print.Config{
			OutputFormat: args.outputFormat,
			Escalate:     args.escalate,
		}, print.Deps{Store: store, Sync: syncer}, args.question())
	}
	return runDashboard(ctx, cwd, args, settings, client, store, syncer)
}

func runDashboard(ctx context.Context, cwd string, args cliArgs, settings *config.Settings,
	client *agentclient.Client, store *chat.Store, syncer *tasksync.Synchronizer) error {
	globalKeys := config.GlobalKeybindingsFile()
	localKeys := config.LocalKeybindingsFile(cwd)
	keys := keybindings.New(globalKeys, localKeys)

	auth := authstate.New(client, authstate.WithCacheFile(config.AuthCacheFile()))
	flow := oauth.New(oauth.Config{
		ClientID:    settings.OAuth.ClientID,
		RedirectURI: settings.OAuth.RedirectURI,
		Scopes:      settings.OAuth.Scopes,
	})

	prog, runUI := ui.New(ui.Deps{
		Store:      store,
		Sync:       syncer,
		Auth:       auth,
		Authorizer: flow,
		Keys:       keys,
		Version:    version,
	}, tea.WithContext(ctx))

	paths := []string{
		config.GlobalConfigFile(),
		config.ProjectConfigFile(cwd),
		globalKeys,
		localKeys,
	}
	if p := themePath(cwd, settings.Theme); p != "" {
		paths = append(paths, p)
	}
	if err := config.EnsureDir(config.GlobalDir()); err != nil {
		log.Debug("creating %s: %v", config.GlobalDir(), err)
	}
	watcher, err := config.NewWatcher(paths, reloader(cwd, args, syncer, keys, prog))
	if err != nil {
		log.Debug("config hot reload disabled: %v", err)
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	err = runUI()
	if err != nil && ctx.Err() != nil {
		// Interrupted by a signal.
		return nil
	}
	return err
}

// reloader re-reads settings and keybindings after a config file changes.
func reloader(cwd string, args cliArgs, syncer *tasksync.Synchronizer, keys *keybindings.Manager, prog *ui.Program) func() {
	return func() {
		settings, err := config.Load(cwd)
		if err != nil {
			log.Warn("config reload: %v", err)
			return
		}
		settings = settings.Apply(args.overrides())

		applyTheme(cwd, settings.Theme)
		syncer.SetPollInterval(settings.PollInterval())
		syncer.SetMaxPollDuration(settings.MaxPollDuration())
		keys.Reload(config.GlobalKeybindingsFile(), config.LocalKeybindingsFile(cwd))
		log.Info("config reloaded")

		prog.Send(ui.ReloadMsg{})
	}
}

// themePath maps a theme name to the JSON file it loads from, if any. Bare
// names that are not built-ins are looked up in the themes directories.
func themePath(cwd, name string) string {
	if strings.HasSuffix(name, ".json") {
		return name
	}
	if theme.Builtin(name) != nil {
		return ""
	}
	return config.ThemeFile(cwd, name)
}

// applyTheme activates a built-in theme or a JSON theme file. Unknown
// themes keep the current one.
func applyTheme(cwd, name string) {
	if p := themePath(cwd, name); p != "" {
		name = p
	}
	th, err := theme.Resolve(name)
	if err != nil {
		log.Warn("theme: %v", err)
		return
	}
	theme.Set(th)
}
