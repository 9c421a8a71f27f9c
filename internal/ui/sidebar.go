// ABOUTME: Sidebar listing chat sessions and the connected Google account
// ABOUTME: Session rows are clickable; the avatar renders in half-block cells

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/agentdesk/internal/authstate"
	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/config"
	"github.com/mauromedda/agentdesk/pkg/tui/image"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
	"github.com/mauromedda/agentdesk/pkg/tui/width"
)

const (
	avatarCols = 8
	// rows above the first session: heading and a blank line
	sidebarHeadRows = 2
)

// sidebarInner is the content width inside the border and padding.
const sidebarInner = sidebarWidth - 3

// sessionAt returns the index of the session row at screen cell (x, y).
func sessionAt(l layout, sessions int, x, y int) (int, bool) {
	if l.sidebar == 0 || x >= l.sidebar-1 {
		return 0, false
	}
	i := y - l.canvas.Y - sidebarHeadRows
	if i < 0 || i >= sessions {
		return 0, false
	}
	return i, true
}

type sidebarView struct {
	sessions  []chat.Session
	currentID string
	auth      *authstate.Snapshot
	keys      func(config.KeyAction) string
}

func (v sidebarView) render(st theme.Styles, height int) []string {
	fit := func(s string) string { return width.TruncateToWidth(s, sidebarInner) }

	lines := []string{st.Accent.Render(fmt.Sprintf("Chats (%d)", len(v.sessions))), ""}
	for _, s := range v.sessions {
		if s.ID == v.currentID {
			lines = append(lines, st.Active.Render(fit("▌ "+s.Title)))
		} else {
			lines = append(lines, st.Text.Render(fit("  "+s.Title)))
		}
	}
	if len(v.sessions) == 0 {
		lines = append(lines, st.Muted.Render(fit("No chats yet")))
	}

	account := v.account(st, fit)
	free := height - len(lines) - len(account)
	if free > 0 {
		lines = append(lines, make([]string, free)...)
		lines = append(lines, account...)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	box := st.Sidebar.Width(sidebarWidth - 1).Height(height).Render(strings.Join(lines, "\n"))
	return strings.Split(box, "\n")
}

func (v sidebarView) account(st theme.Styles, fit func(string) string) []string {
	if v.auth == nil {
		return nil
	}
	snap := v.auth
	var lines []string
	if !snap.Connected {
		lines = append(lines,
			st.Muted.Render("○ Google not connected"),
			st.Muted.Render(fit(v.keys(config.ActionGoogle)+" to connect")),
		)
		return lines
	}

	var name, email string
	if snap.Profile != nil {
		name, email = snap.Profile.Name, snap.Profile.Email
	}
	if snap.Avatar != nil {
		avatar := image.RenderAvatar(snap.Avatar, avatarCols)
		info := []string{st.Text.Render(fit(name)), st.Muted.Render(fit(email))}
		infoW := sidebarInner - avatarCols - 1
		for i := range info {
			info[i] = width.TruncateToWidth(info[i], infoW)
		}
		lines = append(lines, strings.Split(lipgloss.JoinHorizontal(lipgloss.Top,
			strings.Join(avatar, "\n"), " ", strings.Join(info, "\n")), "\n")...)
	} else {
		lines = append(lines, st.Accent.Render("● ")+st.Text.Render(fit(name)), st.Muted.Render(fit(email)))
	}

	sync := "off"
	if snap.Settings.CalendarSyncEnabled {
		sync = "on"
	}
	lines = append(lines, st.Muted.Render(fit(fmt.Sprintf("Calendar sync %s (%s)", sync, v.keys(config.ActionCalendarSync)))))
	return lines
}
