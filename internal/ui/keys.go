// ABOUTME: Key dispatch for the dashboard through the keybindings manager
// ABOUTME: Overlays take keys first; unbound keys go to the prompt

package ui

import (
	"context"
	"errors"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/config"
	"github.com/mauromedda/agentdesk/internal/tasksync"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
)

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg.String())
	if action == config.ActionQuit {
		m.sh.close()
		return m, tea.Quit
	}

	if m.showHelp {
		if action == config.ActionHelp || action == config.ActionCancel {
			m.showHelp = false
		}
		return m, nil
	}
	if m.palette != nil {
		return m.paletteKey(msg, action)
	}

	switch action {
	case config.ActionSend:
		return m.submit()

	case config.ActionWidgetPalette:
		p := newPalette()
		m.palette = &p
		return m, nil

	case config.ActionToggleLock:
		if m.canvas.ToggleLocked() {
			m = m.setNotice("Widgets locked")
		} else {
			m = m.setNotice("Widgets unlocked")
		}
		return m, nil

	case config.ActionToggleWidgets:
		m.canvas.ToggleVisible()
		return m, nil

	case config.ActionEscalate:
		return m.escalate()

	case config.ActionNewChat:
		m.deps.Store.NewSession()
		return m.refresh(), nil

	case config.ActionDeleteChat:
		return m.deleteChat(), nil

	case config.ActionPrevChat:
		return m.stepChat(-1), nil

	case config.ActionNextChat:
		return m.stepChat(1), nil

	case config.ActionToggleSidebar:
		m.showSidebar = !m.showSidebar
		m = m.resize()
		return m.refresh(), nil

	case config.ActionToggleTheme:
		t := theme.Toggle()
		m = m.setNotice("Theme: %s", t.Name)
		return m.refresh(), nil

	case config.ActionGoogle:
		return m.toggleGoogle()

	case config.ActionCalendarSync:
		return m.toggleCalendarSync()

	case config.ActionScrollUp:
		return m.scroll(-max(m.viewport.Height-1, 1)), nil

	case config.ActionScrollDown:
		return m.scroll(max(m.viewport.Height-1, 1)), nil

	case config.ActionHelp:
		m.showHelp = true
		return m, nil

	case config.ActionCancel:
		if m.sh.loginCancel != nil {
			m.sh.loginCancel()
		}
		m.notice = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m AppModel) paletteKey(msg tea.KeyMsg, action config.KeyAction) (tea.Model, tea.Cmd) {
	switch action {
	case config.ActionCancel, config.ActionWidgetPalette:
		m.palette, m.paletteDrag = nil, ""
		return m, nil

	case config.ActionSend:
		if k, ok := m.palette.selectedKind(); ok {
			m.canvas.Add(k.Type)
			m.palette = nil
		}
		return m, nil

	case config.ActionPaletteDrop:
		k, ok := m.palette.selectedKind()
		if !ok {
			return m, nil
		}
		if !m.hasPointer {
			m.canvas.Add(k.Type)
			m.palette = nil
			return m, nil
		}
		px, py := m.layout().pointer(m.pointerX, m.pointerY)
		if _, err := m.canvas.Drop(k.Type, px, py); err != nil {
			m = m.setError("Drop failed: %v", err)
			return m, nil
		}
		m.palette = nil
		return m, nil
	}

	p, cmd := m.palette.update(msg)
	m.palette = &p
	return m, cmd
}

func (m AppModel) submit() (tea.Model, tea.Cmd) {
	err := m.deps.Sync.Send(m.prompt.Value())
	switch {
	case errors.Is(err, tasksync.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, tasksync.ErrBusy):
		m = m.setNotice("Still working on the last message")
		return m, nil
	case err != nil:
		m = m.setError("Send failed: %v", err)
		return m, nil
	}
	m.prompt.Reset()
	m.notice = ""
	wasLoading := m.loading
	m = m.refresh()
	if m.loading && !wasLoading {
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m AppModel) escalate() (tea.Model, tea.Cmd) {
	if !m.deps.Sync.CanEscalate() {
		return m, nil
	}
	sync, ctx := m.deps.Sync, m.sh.ctx
	return m, func() tea.Msg {
		return escalateDoneMsg{err: sync.Escalate(ctx)}
	}
}

func (m AppModel) deleteChat() AppModel {
	id := m.deps.Store.CurrentID()
	if id == "" {
		return m
	}
	if err := m.deps.Store.Delete(id); err != nil {
		return m.setError("Delete failed: %v", err)
	}
	if sessions := m.deps.Store.Sessions(); len(sessions) > 0 {
		_ = m.deps.Store.Select(sessions[0].ID)
	}
	return m.refresh()
}

// stepChat selects the session dir positions away from the current one.
func (m AppModel) stepChat(dir int) AppModel {
	sessions := m.deps.Store.Sessions()
	if len(sessions) == 0 {
		return m
	}
	cur := slices.IndexFunc(sessions, func(s chat.Session) bool {
		return s.ID == m.deps.Store.CurrentID()
	})
	next := cur + dir
	if cur < 0 {
		next = 0
	}
	if next < 0 || next >= len(sessions) {
		return m
	}
	_ = m.deps.Store.Select(sessions[next].ID)
	return m.refresh()
}

func (m AppModel) scroll(lines int) AppModel {
	m.viewport.SetYOffset(m.viewport.YOffset + lines)
	return m
}

func (m AppModel) toggleGoogle() (tea.Model, tea.Cmd) {
	auth := m.deps.Auth
	if auth == nil || m.authBusy {
		return m, nil
	}
	m.authBusy = true

	if m.auth.Connected {
		ctx := m.sh.ctx
		return m, func() tea.Msg {
			return logoutDoneMsg{err: auth.Logout(ctx)}
		}
	}

	ctx, cancel := context.WithCancel(m.sh.ctx)
	m.sh.loginCancel = cancel
	authorizer := m.deps.Authorizer
	m = m.setNotice("Complete the Google sign-in in your browser (%s to cancel)", m.keyFor(config.ActionCancel))
	return m, func() tea.Msg {
		defer cancel()
		return loginDoneMsg{err: auth.Login(ctx, authorizer)}
	}
}

func (m AppModel) toggleCalendarSync() (tea.Model, tea.Cmd) {
	auth := m.deps.Auth
	if auth == nil {
		return m, nil
	}
	enabled := !m.auth.Settings.CalendarSyncEnabled
	ctx := m.sh.ctx
	return m, func() tea.Msg {
		return settingDoneMsg{err: auth.SetCalendarSync(ctx, enabled)}
	}
}
