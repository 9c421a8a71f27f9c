// ABOUTME: Semantic color themes for the dashboard: Palette, Theme and lipgloss styles
// ABOUTME: Colors are lipgloss color specs so the renderer degrades to the terminal profile

package theme

import "github.com/charmbracelet/lipgloss"

// Palette maps semantic roles to lipgloss color specs ("#rrggbb" or ANSI index).
type Palette struct {
	Text   string `json:"text"`
	Muted  string `json:"muted"`
	Accent string `json:"accent"`
	Border string `json:"border"`
	Error  string `json:"error"`

	UserBubble  string `json:"user_bubble"`
	ModelBubble string `json:"model_bubble"`

	Widget      string `json:"widget"`
	WidgetTitle string `json:"widget_title"`
	Locked      string `json:"locked"`

	StatusPlanned   string `json:"status_planned"`
	StatusWaiting   string `json:"status_waiting"`
	StatusExecuting string `json:"status_executing"`
	StatusCompleted string `json:"status_completed"`
}

// Theme holds a named palette and the glamour style used for markdown.
type Theme struct {
	Name    string  `json:"name"`
	Glamour string  `json:"glamour"`
	Palette Palette `json:"palette"`
}

// Styles holds lipgloss styles built from a palette.
type Styles struct {
	Text   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Error  lipgloss.Style
	Border lipgloss.Style

	UserBubble  lipgloss.Style
	ModelBubble lipgloss.Style
	Chip        lipgloss.Style

	Widget       lipgloss.Style
	WidgetLocked lipgloss.Style
	WidgetTitle  lipgloss.Style

	Input   lipgloss.Style
	Handle  lipgloss.Style
	Sidebar lipgloss.Style
	Active  lipgloss.Style
}

// Styles builds the lipgloss styles for t.
func (t *Theme) Styles() Styles {
	p := t.Palette
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Styles{
		Text:   lipgloss.NewStyle().Foreground(c(p.Text)),
		Muted:  lipgloss.NewStyle().Foreground(c(p.Muted)),
		Accent: lipgloss.NewStyle().Foreground(c(p.Accent)).Bold(true),
		Error:  lipgloss.NewStyle().Foreground(c(p.Error)),
		Border: lipgloss.NewStyle().Foreground(c(p.Border)),

		UserBubble:  lipgloss.NewStyle().Foreground(c(p.Text)).Background(c(p.UserBubble)).Padding(0, 1),
		ModelBubble: lipgloss.NewStyle().Foreground(c(p.Text)).Background(c(p.ModelBubble)).Padding(0, 1),
		Chip:        lipgloss.NewStyle().Foreground(c(p.Accent)).Underline(true),

		Widget:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(p.Widget)),
		WidgetLocked: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(c(p.Locked)),
		WidgetTitle:  lipgloss.NewStyle().Foreground(c(p.WidgetTitle)).Bold(true),

		Input:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(p.Accent)),
		Handle:  lipgloss.NewStyle().Foreground(c(p.Muted)),
		Sidebar: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(c(p.Border)).Padding(0, 1),
		Active:  lipgloss.NewStyle().Foreground(c(p.Accent)).Bold(true),
	}
}

// StatusColor returns the badge color for a task status. Unknown statuses
// use the muted color.
func (t *Theme) StatusColor(status string) lipgloss.Color {
	p := t.Palette
	switch status {
	case "planned":
		return lipgloss.Color(p.StatusPlanned)
	case "waiting_for_internet":
		return lipgloss.Color(p.StatusWaiting)
	case "executing":
		return lipgloss.Color(p.StatusExecuting)
	case "completed":
		return lipgloss.Color(p.StatusCompleted)
	default:
		return lipgloss.Color(p.Muted)
	}
}
