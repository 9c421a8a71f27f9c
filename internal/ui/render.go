// ABOUTME: Conversation rendering: user bubbles, markdown model replies and source chips
// ABOUTME: Also formats the status badge, latency and loading timer text

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mauromedda/agentdesk/internal/agentclient"
	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
	"github.com/mauromedda/agentdesk/pkg/tui/width"
)

const escalateLabel = "Search web with Gemini"

// statusLabel returns the badge text for a task status. The badge is hidden
// before the first task and once a task completes.
func statusLabel(status string) string {
	if status == "" || status == agentclient.StatusCompleted {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(status, "_", " "))
}

// formatSeconds renders a duration as seconds with one decimal.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// sourceChips labels sources as "[n] host".
func sourceChips(sources []chat.Source) []string {
	chips := make([]string, len(sources))
	for i, s := range sources {
		chips[i] = fmt.Sprintf("[%d] %s", i+1, s.Label())
	}
	return chips
}

// flowChips packs chips into lines at most maxWidth columns wide, two
// spaces apart. A chip wider than a line gets a line of its own.
func flowChips(chips []string, maxWidth int) []string {
	var (
		lines []string
		cur   string
	)
	for _, c := range chips {
		switch {
		case cur == "":
			cur = c
		case width.VisibleWidth(cur)+2+width.VisibleWidth(c) <= maxWidth:
			cur += "  " + c
		default:
			lines = append(lines, cur)
			cur = c
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func sourcesHeader(sources []chat.Source) string {
	n := chat.DistinctSites(sources)
	if n == 1 {
		return "SOURCES · 1 site"
	}
	return fmt.Sprintf("SOURCES · %d sites", n)
}

// chatView renders a conversation into a column of the given width.
type chatView struct {
	width       int
	theme       *theme.Theme
	md          *MarkdownRenderer
	escalateID  string // message offering escalation, "" for none
	escalateKey string
}

func (v chatView) render(msgs []chat.Message) string {
	st := v.theme.Styles()
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case chat.RoleUser:
			blocks = append(blocks, v.user(msg, st))
		default:
			blocks = append(blocks, v.model(msg, st))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (v chatView) user(msg chat.Message, st theme.Styles) string {
	w := min(width.VisibleWidth(msg.Content)+2, v.width*3/4)
	bubble := st.UserBubble.Width(max(w, 4)).Render(msg.Content)
	return lipgloss.PlaceHorizontal(v.width, lipgloss.Right, bubble)
}

func (v chatView) model(msg chat.Message, st theme.Styles) string {
	meta := st.Accent.Render("agent")
	if msg.Latency > 0 {
		meta += st.Muted.Render(" · " + formatSeconds(msg.Latency))
	}
	lines := []string{meta}
	if body := v.md.Render(msg.Content, max(v.width-2, 10), v.theme.Glamour); body != "" {
		lines = append(lines, body)
	}

	if len(msg.Sources) > 0 {
		lines = append(lines, "", st.Muted.Render(sourcesHeader(msg.Sources)))
		for _, l := range flowChips(sourceChips(msg.Sources), v.width) {
			lines = append(lines, st.Chip.Render(l))
		}
	}

	if msg.ID != "" && msg.ID == v.escalateID {
		hint := st.Accent.Render("⌕ " + escalateLabel)
		if v.escalateKey != "" {
			hint += st.Muted.Render(" (" + v.escalateKey + ")")
		}
		lines = append(lines, "", hint)
	}
	return strings.Join(lines, "\n")
}
