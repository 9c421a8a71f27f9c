// ABOUTME: Root AppModel for the dashboard: canvas, floating input, chat column and sidebar
// ABOUTME: Routes bus wake-ups, keys, mouse gestures and background results to the core packages

package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/agentdesk/internal/authstate"
	"github.com/mauromedda/agentdesk/internal/canvas"
	"github.com/mauromedda/agentdesk/internal/config"
	"github.com/mauromedda/agentdesk/internal/keybindings"
	"github.com/mauromedda/agentdesk/internal/log"
	"github.com/mauromedda/agentdesk/internal/tasksync"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
)

const (
	syncBuffer = 64
	authBuffer = 8
)

// shared holds mutable state that must survive AppModel value copies.
// Bubble Tea's Update is single-threaded; background work only reports
// back through messages.
type shared struct {
	ctx    context.Context
	cancel context.CancelFunc

	syncCh <-chan tasksync.Event
	authCh <-chan authstate.Snapshot
	unsubs []func()

	loginCancel context.CancelFunc
	md          *MarkdownRenderer
}

func (sh *shared) close() {
	sh.cancel()
	for _, u := range sh.unsubs {
		u()
	}
	sh.unsubs = nil
}

// AppModel is the root Bubble Tea model for the dashboard.
type AppModel struct {
	sh   *shared
	deps Deps
	keys *keybindings.Manager

	canvas *canvas.Canvas
	input  *canvas.InputController

	width, height int
	showSidebar   bool

	prompt   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Overlays (nil / false = closed)
	palette     *paletteModel
	paletteDrag string // widget type pressed in the palette
	showHelp    bool

	auth authstate.Snapshot

	pointerX, pointerY int
	hasPointer         bool

	loading      bool
	loadingSince time.Time
	now          time.Time
	chatSession  string

	notice    string
	noticeErr bool
	authBusy  bool
}

// NewAppModel creates an AppModel wired with the given dependencies.
func NewAppModel(deps Deps) AppModel {
	ctx, cancel := context.WithCancel(context.Background())
	sh := &shared{ctx: ctx, cancel: cancel, md: NewMarkdownRenderer()}

	ch, unsub := deps.Sync.Events().Channel(syncBuffer)
	sh.syncCh = ch
	sh.unsubs = append(sh.unsubs, unsub)

	var snap authstate.Snapshot
	if deps.Auth != nil {
		ach, aunsub := deps.Auth.Changed.Channel(authBuffer)
		sh.authCh = ach
		sh.unsubs = append(sh.unsubs, aunsub)
		snap = deps.Auth.Snapshot()
	}

	keys := deps.Keys
	if keys == nil {
		keys = keybindings.NewFromBindings(config.NewKeybindings())
	}
	cv := deps.Canvas
	if cv == nil {
		cv = canvas.New(nil)
	}
	cv.SetHandleSize(CellWidth, CellHeight)
	ic := deps.Input
	if ic == nil {
		ic = canvas.NewInputController()
	}

	prompt := textinput.New()
	prompt.Prompt = ""
	prompt.Placeholder = "Ask anything…"
	prompt.Focus()

	m := AppModel{
		sh:          sh,
		deps:        deps,
		keys:        keys,
		canvas:      cv,
		input:       ic,
		showSidebar: true,
		prompt:      prompt,
		viewport:    viewport.New(0, 0),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		auth:        snap,
		now:         time.Now(),
	}
	return m.refresh()
}

// Init starts the bus listeners, the clock and the auth bootstrap.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitSync(m.sh.syncCh),
		tick(),
		textinput.Blink,
	}
	if m.deps.Auth != nil {
		auth, ctx := m.deps.Auth, m.sh.ctx
		cmds = append(cmds, waitAuth(m.sh.authCh), func() tea.Msg {
			if err := auth.Bootstrap(ctx); err != nil {
				log.Debug("ui: auth bootstrap: %v", err)
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func waitSync(ch <-chan tasksync.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return syncEventMsg{ev: ev}
	}
}

func waitAuth(ch <-chan authstate.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return authChangedMsg{snap: snap}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update routes messages to the appropriate handler.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m = m.resize()
		return m.refresh(), nil

	case syncEventMsg:
		wasLoading := m.loading
		m = m.refresh()
		cmds := []tea.Cmd{waitSync(m.sh.syncCh)}
		if m.loading && !wasLoading {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case authChangedMsg:
		m.auth = msg.snap
		return m, waitAuth(m.sh.authCh)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.now = time.Now()
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case escalateDoneMsg:
		if msg.err != nil {
			m = m.setError("Search failed: %v", msg.err)
		}
		return m.refresh(), nil

	case loginDoneMsg:
		m.authBusy = false
		m.sh.loginCancel = nil
		if msg.err != nil {
			if m.sh.ctx.Err() == nil {
				m = m.setError("Google connect failed: %v", msg.err)
			}
			return m, nil
		}
		m = m.setNotice("Connected to Google")
		return m, nil

	case logoutDoneMsg:
		m.authBusy = false
		if msg.err != nil {
			m = m.setError("Disconnect reported an error: %v", msg.err)
			return m, nil
		}
		m = m.setNotice("Disconnected from Google")
		return m, nil

	case settingDoneMsg:
		if msg.err != nil {
			m = m.setError("Could not update settings: %v", msg.err)
		}
		return m, nil

	case ReloadMsg:
		return m.refresh(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m AppModel) layout() layout {
	return computeLayout(m.width, m.height, m.showSidebar)
}

// resize propagates the canvas size to the layout engines.
func (m AppModel) resize() AppModel {
	l := m.layout()
	w, h := l.canvasPixels()
	m.canvas.SetSize(w, h)
	m.input.Resize(w, h)
	return m
}

// refresh re-reads the store and synchronizer after a change.
func (m AppModel) refresh() AppModel {
	loading := m.deps.Sync.Loading()
	if loading && !m.loading {
		m.loadingSince = time.Now()
		m.now = m.loadingSince
	}
	m.loading = loading

	sess, _ := m.deps.Store.Current()
	m.input.SetConversationEmpty(sess.Empty())

	col := chatColumn(m.layout())
	m.viewport.Width = col.W
	m.viewport.Height = m.chatHeight()

	escID := ""
	if m.deps.Sync.CanEscalate() {
		if sid, mid, ok := m.deps.Sync.Target(); ok && sid == sess.ID {
			escID = mid
		}
	}
	v := chatView{
		width:       max(col.W, 1),
		theme:       theme.Current(),
		md:          m.sh.md,
		escalateID:  escID,
		escalateKey: m.keyFor(config.ActionEscalate),
	}
	follow := m.viewport.AtBottom() || sess.ID != m.chatSession
	m.viewport.SetContent(v.render(sess.Messages))
	if follow {
		m.viewport.GotoBottom()
	}
	m.chatSession = sess.ID
	return m
}

// chatHeight is the number of chat rows above the loading line and input.
func (m AppModel) chatHeight() int {
	r, ok := m.inputCells()
	if !ok || !m.input.Docked() {
		return max(m.layout().canvas.H, 1)
	}
	return max(r.Y-1, 1)
}

// inputCells returns the input box in canvas-relative cells.
func (m AppModel) inputCells() (cellRect, bool) {
	r, ok := m.input.Rect()
	if !ok {
		return cellRect{}, false
	}
	return toCells(r), true
}

// chatColumn is the centred chat column in canvas-relative cells.
func chatColumn(l layout) cellRect {
	w := min(l.canvas.W-4, 96)
	if w < 20 {
		w = l.canvas.W
	}
	return cellRect{X: (l.canvas.W - w) / 2, Y: 0, W: w, H: l.canvas.H}
}

func (m AppModel) keyFor(action config.KeyAction) string {
	if keys := m.keys.Keys(action); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

func (m AppModel) setNotice(format string, args ...any) AppModel {
	m.notice = fmt.Sprintf(format, args...)
	m.noticeErr = false
	return m
}

func (m AppModel) setError(format string, args ...any) AppModel {
	m.notice = fmt.Sprintf(format, args...)
	m.noticeErr = true
	log.Warn("ui: %s", m.notice)
	return m
}
