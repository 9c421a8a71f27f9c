// ABOUTME: Tests for the widget palette overlay
// ABOUTME: Fuzzy filtering, selection movement and item hit testing against the drawn rows

package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/agentdesk/internal/canvas"
	"github.com/mauromedda/agentdesk/pkg/tui/theme"
	"github.com/mauromedda/agentdesk/pkg/tui/width"
)

func typeInto(p paletteModel, s string) paletteModel {
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return p
}

func TestPalette_ListsCatalog(t *testing.T) {
	t.Parallel()

	p := newPalette()
	if len(p.matches) != len(canvas.Catalog()) {
		t.Fatalf("matches = %d; want full catalog %d", len(p.matches), len(canvas.Catalog()))
	}
	if k, ok := p.selectedKind(); !ok || k.Type != canvas.Catalog()[0].Type {
		t.Errorf("selected = %+v, %v", k, ok)
	}
}

func TestPalette_Filter(t *testing.T) {
	t.Parallel()

	p := typeInto(newPalette(), "stock")
	k, ok := p.selectedKind()
	if !ok || k.Type != "stock" {
		t.Fatalf("selected = %+v, %v; want stock", k, ok)
	}

	p = typeInto(newPalette(), "cal")
	for _, m := range p.matches {
		if !strings.HasPrefix(m.Type, "calendar") {
			t.Errorf("filter cal matched %q", m.Type)
		}
	}

	p = typeInto(newPalette(), "zzzz")
	if _, ok := p.selectedKind(); ok || p.rows() != 1 {
		t.Errorf("no-match palette: ok=%v rows=%d", ok, p.rows())
	}
}

func TestPalette_Navigation(t *testing.T) {
	t.Parallel()

	p := newPalette()
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyUp})
	if p.selected != 0 {
		t.Errorf("up at top moved to %d", p.selected)
	}
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyDown})
	if p.selected != 2 {
		t.Errorf("selected = %d; want 2", p.selected)
	}
	for range 20 {
		p, _ = p.update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if p.selected != len(p.matches)-1 {
		t.Errorf("selected = %d; want clamped to last", p.selected)
	}
}

func TestPalette_ItemAtMatchesView(t *testing.T) {
	t.Parallel()

	p := newPalette()
	r := p.rect(100, 40)
	lines := p.view(theme.Builtin("dark").Styles(), r.W, "ctrl+d")
	if len(lines) != r.H {
		t.Fatalf("view rows = %d; rect height %d", len(lines), r.H)
	}

	for i, k := range p.matches {
		row := r.Y + 1 + paletteHeadRows + i
		got, ok := p.itemAt(r, r.X+2, row)
		if !ok || got != i {
			t.Errorf("itemAt row %d = %d, %v; want %d", row, got, ok, i)
		}
		if drawn := width.StripANSI(lines[row-r.Y]); !strings.Contains(drawn, k.Label) {
			t.Errorf("row %d = %q; want label %q", row, drawn, k.Label)
		}
	}
	if _, ok := p.itemAt(r, r.X, r.Y+1+paletteHeadRows); ok {
		t.Error("border column hit an item")
	}
	if _, ok := p.itemAt(r, r.X+2, r.Y+1); ok {
		t.Error("title row hit an item")
	}
}
