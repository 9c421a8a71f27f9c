// ABOUTME: Widget palette overlay with fuzzy filtering over the catalog labels
// ABOUTME: Items can be added at random, dropped at the pointer or dragged onto the canvas

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/agentdesk/internal/canvas"
	"github.com/mauromedda/agentdesk/pkg/tui/fuzzy"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
	"github.com/mauromedda/agentdesk/pkg/tui/width"
)

const (
	paletteWidth = 44
	// rows above the first item inside the frame: title, filter, blank
	paletteHeadRows = 3
)

// kindSource adapts catalog entries to the fuzzy matcher.
type kindSource []canvas.Kind

func (k kindSource) String(i int) string { return k[i].Label }
func (k kindSource) Len() int            { return len(k) }

// paletteModel is the widget palette overlay.
type paletteModel struct {
	filter   textinput.Model
	kinds    []canvas.Kind
	matches  []canvas.Kind
	selected int
}

func newPalette() paletteModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "filter widgets"
	ti.Focus()
	p := paletteModel{filter: ti, kinds: canvas.Catalog()}
	return p.refilter()
}

func (p paletteModel) refilter() paletteModel {
	matches := fuzzy.FilterFrom(p.filter.Value(), kindSource(p.kinds))
	p.matches = make([]canvas.Kind, len(matches))
	for i, m := range matches {
		p.matches[i] = p.kinds[m.Index]
	}
	if p.selected >= len(p.matches) {
		p.selected = max(len(p.matches)-1, 0)
	}
	return p
}

// selectedKind returns the highlighted entry.
func (p paletteModel) selectedKind() (canvas.Kind, bool) {
	if p.selected < 0 || p.selected >= len(p.matches) {
		return canvas.Kind{}, false
	}
	return p.matches[p.selected], true
}

// update handles navigation and filter editing. Add, drop and close are
// handled by the app because they touch the canvas.
func (p paletteModel) update(msg tea.KeyMsg) (paletteModel, tea.Cmd) {
	switch msg.String() {
	case "up", "ctrl+p":
		if p.selected > 0 {
			p.selected--
		}
		return p, nil
	case "down", "ctrl+n":
		if p.selected < len(p.matches)-1 {
			p.selected++
		}
		return p, nil
	}
	var cmd tea.Cmd
	before := p.filter.Value()
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.selected = 0
		p = p.refilter()
	}
	return p, cmd
}

// rows is the number of item rows, at least one for the empty message.
func (p paletteModel) rows() int { return max(len(p.matches), 1) }

// rect places the palette centred on a screen of the given size.
func (p paletteModel) rect(screenW, screenH int) cellRect {
	w := min(paletteWidth, screenW)
	h := 2 + paletteHeadRows + p.rows() + 2
	return cellRect{X: max((screenW-w)/2, 0), Y: max((screenH-h)/2, 0), W: w, H: h}
}

// itemAt returns the index of the item drawn at screen cell (x, y).
func (p paletteModel) itemAt(r cellRect, x, y int) (int, bool) {
	if x <= r.X || x >= r.X+r.W-1 {
		return 0, false
	}
	i := y - r.Y - 1 - paletteHeadRows
	if i < 0 || i >= len(p.matches) {
		return 0, false
	}
	return i, true
}

func (p paletteModel) view(st theme.Styles, w int, dropKey string) []string {
	inner := max(w-4, 1)
	fit := func(s string) string { return width.TruncateToWidth(s, inner) }

	p.filter.Width = max(inner-len(p.filter.Prompt)-1, 1)
	lines := []string{
		st.Accent.Render("Add widget"),
		fit(p.filter.View()),
		"",
	}
	if len(p.matches) == 0 {
		lines = append(lines, st.Muted.Render("No matching widgets"))
	}
	for i, k := range p.matches {
		label := width.PadRight(k.Label, 18) + " " + k.Subtitle
		if i == p.selected {
			lines = append(lines, st.Active.Render(fit("▸ "+label)))
		} else {
			lines = append(lines, st.Text.Render(fit("  "+label)))
		}
	}
	hint := "enter add · drag onto canvas"
	if dropKey != "" {
		hint = "enter add · " + dropKey + " drop at pointer · drag"
	}
	lines = append(lines, "", st.Muted.Render(fit(hint)))

	box := st.Input.Padding(0, 1).Width(w - 2).Render(strings.Join(lines, "\n"))
	return strings.Split(box, "\n")
}
