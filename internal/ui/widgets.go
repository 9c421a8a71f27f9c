// ABOUTME: Widget frames painted onto the canvas layer
// ABOUTME: Title row with a close mark, placeholder bodies and a live clock

package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/agentdesk/internal/canvas"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
	"github.com/mauromedda/agentdesk/pkg/tui/width"
)

const closeMark = "×"

// widgetStyle selects how a widget frame is drawn.
type widgetStyle int

const (
	widgetNormal widgetStyle = iota
	widgetLocked
	widgetDimmed
)

// widgetTitle returns the palette label for a widget type.
func widgetTitle(typ string) (title, subtitle string) {
	if k, ok := canvas.Lookup(typ); ok {
		return k.Label, k.Subtitle
	}
	return typ, ""
}

// widgetBody returns the content lines for a widget, before clipping.
func widgetBody(w canvas.Widget, now time.Time) []string {
	title, subtitle := widgetTitle(w.Type)
	if w.Type == "clock" {
		return []string{title, "", now.Format("15:04:05"), now.Format("Mon Jan 2")}
	}
	return []string{title, subtitle}
}

// renderWidget draws w as a framed box of r's size. Boxes smaller than a
// frame render nothing.
func renderWidget(w canvas.Widget, r cellRect, th *theme.Theme, ws widgetStyle, now time.Time) []string {
	if r.W < 3 || r.H < 3 {
		return nil
	}
	st := th.Styles()
	frame, title, text := st.Widget, st.WidgetTitle, st.Text
	switch ws {
	case widgetLocked:
		frame = st.WidgetLocked
	case widgetDimmed:
		frame = st.Widget.BorderForeground(lipgloss.Color(th.Palette.Border))
		title, text = st.Muted, st.Muted
	}

	inner := r.W - 2
	body := widgetBody(w, now)
	lines := make([]string, r.H-2)
	for i := range lines {
		var s string
		if i < len(body) {
			s = body[i]
		}
		switch {
		case i == 0 && ws == widgetNormal && inner >= 3:
			s = title.Render(width.TruncateToWidth(s, inner-2))
			s = width.PadRight(s, inner-1) + text.Render(closeMark)
		case i == 0:
			s = title.Render(width.TruncateToWidth(s, inner))
		default:
			s = text.Render(width.TruncateToWidth(s, inner))
		}
		lines[i] = width.PadRight(s, inner)
	}
	return strings.Split(frame.Render(strings.Join(lines, "\n")), "\n")
}

// closeCell returns the screen cell of a widget's close mark.
func closeCell(r cellRect) (x, y int) {
	return r.X + r.W - 2, r.Y + 1
}

// paint composites box onto lines with its top-left cell at (x, y).
// Rows outside lines are dropped.
func paint(lines []string, box []string, x, y int) {
	for i, bl := range box {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		lines[row] = width.Overlay(lines[row], bl, x)
	}
}
