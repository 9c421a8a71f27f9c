// ABOUTME: Screen composition: header with status badge, canvas layers, sidebar and footer
// ABOUTME: Layers are painted bottom-up with width.Overlay and clipped to the canvas

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/agentdesk/internal/config"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
	"github.com/mauromedda/agentdesk/pkg/tui/width"
)

const welcomeText = "What can I help you with?"

// View renders the full screen.
func (m AppModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	l := m.layout()
	th := theme.Current()
	st := th.Styles()

	screen := make([]string, m.height)
	screen[0] = m.header(th, st)

	body := m.canvasLines(l, th, st)
	var side []string
	if l.sidebar > 0 {
		sess, _ := m.deps.Store.Current()
		v := sidebarView{
			sessions:  m.deps.Store.Sessions(),
			currentID: sess.ID,
			keys:      m.keyFor,
		}
		if m.deps.Auth != nil {
			v.auth = &m.auth
		}
		side = v.render(st, l.canvas.H)
	}
	for i := range l.canvas.H {
		line := width.PadRight(body[i], l.canvas.W)
		if l.sidebar > 0 {
			var s string
			if i < len(side) {
				s = side[i]
			}
			line = width.PadRight(s, l.sidebar) + line
		}
		screen[l.canvas.Y+i] = line
	}
	if m.height > 1 {
		screen[m.height-1] = m.footer(st)
	}

	if m.palette != nil {
		r := m.palette.rect(m.width, m.height)
		paint(screen, m.palette.view(st, r.W, m.keyFor(config.ActionPaletteDrop)), r.X, r.Y)
	}
	if m.showHelp {
		box := m.helpView(st)
		bw := 0
		for _, b := range box {
			bw = max(bw, width.VisibleWidth(b))
		}
		paint(screen, box, max((m.width-bw)/2, 0), max((m.height-len(box))/2, 0))
	}
	for i, s := range screen {
		screen[i] = width.PadRight(s, m.width)
	}
	return strings.Join(screen, "\n")
}

func (m AppModel) canvasLines(l layout, th *theme.Theme, st theme.Styles) []string {
	lines := make([]string, l.canvas.H)
	sess, _ := m.deps.Store.Current()
	empty := sess.Empty()

	if m.canvas.Visible() {
		ws := widgetNormal
		switch {
		case !empty:
			ws = widgetDimmed
		case m.canvas.Locked():
			ws = widgetLocked
		}
		for _, w := range m.canvas.Widgets() {
			r := toCells(m.canvas.PixelRect(w))
			paint(lines, renderWidget(w, r, th, ws, m.now), r.X, r.Y)
		}
	}

	ir, hasInput := m.inputCells()
	if empty {
		if hasInput {
			welcome := st.Accent.Render(welcomeText)
			x := ir.X + (ir.W-width.VisibleWidth(welcomeText))/2
			paint(lines, []string{welcome}, max(x, 0), ir.Y-2)
		}
	} else {
		col := chatColumn(l)
		chat := strings.Split(m.viewport.View(), "\n")
		for i := range chat {
			chat[i] = width.PadRight(chat[i], col.W)
		}
		paint(lines, chat, col.X, col.Y)
	}

	if hasInput {
		if m.loading {
			text := m.spinner.View() + st.Muted.Render(" Working… "+formatSeconds(m.now.Sub(m.loadingSince)))
			paint(lines, []string{text}, ir.X+1, ir.Y-1)
		}
		paint(lines, m.inputView(st, ir), ir.X, ir.Y)
	}
	return lines
}

func (m AppModel) inputView(st theme.Styles, r cellRect) []string {
	if r.W < 6 {
		return nil
	}
	handle := "⋮"
	if m.input.Docked() {
		handle = "›"
	}
	ti := m.prompt
	ti.Width = max(r.W-7, 1)
	content := st.Handle.Render(handle) + " " + width.TruncateToWidth(ti.View(), r.W-4)
	box := st.Input.Width(r.W - 2).Render(width.PadRight(content, r.W-2))
	return strings.Split(box, "\n")
}

func (m AppModel) header(th *theme.Theme, st theme.Styles) string {
	left := st.Accent.Render("agentdesk")
	if sess, ok := m.deps.Store.Current(); ok {
		left += st.Muted.Render(" · ") + st.Text.Render(sess.Title)
	}

	var badge string
	status := m.deps.Sync.Status()
	if label := statusLabel(status); label != "" {
		badge = lipgloss.NewStyle().Foreground(th.StatusColor(status)).Bold(true).Render("● " + label)
	}

	var flags []string
	if m.canvas.Locked() {
		flags = append(flags, "locked")
	}
	if !m.canvas.Visible() {
		flags = append(flags, "widgets hidden")
	}
	right := st.Muted.Render(strings.Join(flags, " · "))
	if !m.deps.Sync.Reachable() {
		if len(flags) > 0 {
			right += st.Muted.Render(" · ")
		}
		right += st.Error.Render("backend unreachable")
		flags = append(flags, "unreachable")
	}
	if m.deps.Auth != nil {
		acct := st.Muted.Render("○ offline")
		if m.auth.Connected {
			name := "Google"
			if m.auth.Profile != nil && m.auth.Profile.Name != "" {
				name = m.auth.Profile.Name
			}
			acct = st.Accent.Render("● ") + st.Text.Render(name)
		}
		if len(flags) > 0 {
			right += st.Muted.Render("  ")
		}
		right += acct
	}
	return spread(m.width, left, badge, right)
}

// spread lays out left, centre and right segments on one line. The centre
// segment shifts right when the left one would overlap it.
func spread(total int, left, center, right string) string {
	lw, cw, rw := width.VisibleWidth(left), width.VisibleWidth(center), width.VisibleWidth(right)
	line := left
	if cw > 0 {
		pos := max((total-cw)/2, lw+1)
		line = width.PadRight(line, pos) + center
		lw = pos + cw
	}
	if rw > 0 && lw+1+rw <= total {
		line = width.PadRight(line, total-rw) + right
	}
	return width.TruncateToWidth(line, total)
}

func (m AppModel) footer(st theme.Styles) string {
	if m.notice != "" {
		if m.noticeErr {
			return width.TruncateToWidth(st.Error.Render(m.notice), m.width)
		}
		return width.TruncateToWidth(st.Text.Render(m.notice), m.width)
	}
	hints := []struct {
		action config.KeyAction
		label  string
	}{
		{config.ActionSend, "send"},
		{config.ActionWidgetPalette, "widgets"},
		{config.ActionToggleLock, "lock"},
		{config.ActionToggleWidgets, "hide"},
		{config.ActionGoogle, "google"},
		{config.ActionHelp, "help"},
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		if k := m.keyFor(h.action); k != "" {
			parts = append(parts, k+" "+h.label)
		}
	}
	return width.TruncateToWidth(st.Muted.Render(strings.Join(parts, " · ")), m.width)
}

func (m AppModel) helpView(st theme.Styles) []string {
	lines := []string{st.Accent.Render("Keyboard shortcuts"), ""}
	lines = append(lines, strings.Split(m.keys.FormatAll(), "\n")...)
	if conflicts := m.keys.Conflicts(); len(conflicts) > 0 {
		lines = append(lines, "")
		for _, c := range conflicts {
			names := make([]string, len(c.Actions))
			for i, a := range c.Actions {
				names[i] = string(a)
			}
			lines = append(lines, st.Error.Render(fmt.Sprintf("! %s is bound to %s", c.Key, strings.Join(names, ", "))))
		}
	}
	lines = append(lines, "", st.Muted.Render("drag a widget to move it, its edge to resize, × to remove"))
	box := st.Input.Padding(0, 1).Render(strings.Join(lines, "\n"))
	return strings.Split(box, "\n")
}
