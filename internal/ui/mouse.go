// ABOUTME: Mouse gestures: widget drag/resize/close, input drag/resize and palette drops
// ABOUTME: Screen cells are converted to canvas pixels before reaching the layout engines

package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/agentdesk/internal/canvas"
	"github.com/mauromedda/agentdesk/internal/log"
)

const wheelLines = 3

func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	l := m.layout()
	m.pointerX, m.pointerY, m.hasPointer = msg.X, msg.Y, true
	px, py := l.pointer(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.scroll(-wheelLines), nil
		case tea.MouseButtonWheelDown:
			return m.scroll(wheelLines), nil
		case tea.MouseButtonLeft:
			return m.press(l, msg.X, msg.Y, px, py), nil
		}

	case tea.MouseActionMotion:
		switch {
		case m.input.Active():
			m.input.Move(px, py)
		case m.canvas.Dragging():
			m.canvas.Move(px, py)
		}

	case tea.MouseActionRelease:
		return m.release(l, msg.X, msg.Y, px, py), nil
	}
	return m, nil
}

// widgetsInteractive reports whether widgets take the pointer. They sit
// behind the chat while a conversation is shown.
func (m AppModel) widgetsInteractive() bool {
	if !m.canvas.Visible() {
		return false
	}
	sess, _ := m.deps.Store.Current()
	return sess.Empty()
}

func (m AppModel) press(l layout, x, y int, px, py float64) AppModel {
	if m.showHelp {
		m.showHelp = false
		return m
	}
	if m.palette != nil {
		r := m.palette.rect(m.width, m.height)
		if i, ok := m.palette.itemAt(r, x, y); ok {
			m.palette.selected = i
			m.paletteDrag = m.palette.matches[i].Type
		}
		return m
	}

	sessions := m.deps.Store.Sessions()
	if i, ok := sessionAt(l, len(sessions), x, y); ok {
		_ = m.deps.Store.Select(sessions[i].ID)
		return m.refresh()
	}
	if !l.canvas.contains(x, y) {
		return m
	}
	cx, cy := x-l.canvas.X, y-l.canvas.Y

	if r, ok := m.inputCells(); ok && r.contains(cx, cy) {
		var err error
		switch {
		case cx == r.X+r.W-1:
			err = m.input.BeginResize(px)
		case cx <= r.X+1:
			err = m.input.BeginDrag(px, py)
		}
		if err != nil {
			log.Debug("ui: input gesture: %v", err)
		}
		return m
	}

	if !m.widgetsInteractive() {
		return m
	}
	w, edge, ok := m.canvas.HitTest(px, py)
	if !ok {
		return m
	}
	if !m.canvas.Locked() {
		if xx, yy := closeCell(toCells(m.canvas.PixelRect(w))); xx == cx && yy == cy {
			if err := m.canvas.Remove(w.ID); err != nil {
				log.Debug("ui: remove widget: %v", err)
			}
			return m
		}
	}

	var err error
	if edge == canvas.EdgeNone {
		err = m.canvas.BeginDrag(w.ID, px, py)
	} else {
		err = m.canvas.BeginResize(w.ID, edge, px, py)
	}
	if err != nil && !errors.Is(err, canvas.ErrLocked) {
		log.Debug("ui: widget gesture: %v", err)
	}
	return m
}

func (m AppModel) release(l layout, x, y int, px, py float64) AppModel {
	if m.paletteDrag != "" {
		typ := m.paletteDrag
		m.paletteDrag = ""
		if m.palette == nil {
			return m
		}
		if r := m.palette.rect(m.width, m.height); !r.contains(x, y) && l.canvas.contains(x, y) {
			if _, err := m.canvas.Drop(typ, px, py); err != nil {
				return m.setError("Drop failed: %v", err)
			}
			m.palette = nil
		}
		return m
	}
	m.input.End()
	m.canvas.End()
	return m
}
