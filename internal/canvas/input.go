// ABOUTME: Floating command input controller: docked while a conversation exists
// ABOUTME: Recenters on resize until moved by hand, then only clamps into the container

package canvas

import (
	"errors"
	"math"
)

// Input geometry in pixels.
const (
	DefaultInputWidth = 360.0
	MinInputWidth     = 300.0
	MaxInputWidth     = 1200.0
	InputHeight       = 48.0
	DockedMaxWidth    = 672.0
	DockedBottom      = 32.0

	centerLift = 50.0
	edgeMargin = 50.0
)

var (
	ErrDocked    = errors.New("canvas: input is docked")
	ErrNotPlaced = errors.New("canvas: input has no position yet")
)

type inputGesture int

const (
	inputIdle inputGesture = iota
	inputDrag
	inputResize
)

// InputController positions the command input.
type InputController struct {
	x, y   float64
	placed bool
	width  float64
	moved  bool
	empty  bool

	cw, ch float64

	gesture      inputGesture
	lastX, lastY float64
	startX       float64
	startWidth   float64
}

// NewInputController returns a floating, unplaced input of default width.
func NewInputController() *InputController {
	return &InputController{width: DefaultInputWidth, empty: true}
}

// SetConversationEmpty switches between floating (empty) and docked mode.
// Any change resets the moved flag so an emptied conversation recenters.
func (ic *InputController) SetConversationEmpty(empty bool) {
	if ic.empty == empty {
		return
	}
	ic.empty = empty
	ic.moved = false
	ic.gesture = inputIdle
	ic.layout()
}

// Resize records a new container size and repositions the input.
func (ic *InputController) Resize(w, h float64) {
	ic.cw, ic.ch = w, h
	ic.layout()
}

func (ic *InputController) layout() {
	if !ic.empty {
		return
	}
	if !ic.moved {
		ic.x = (ic.cw - ic.width) / 2
		ic.y = ic.ch/2 - centerLift
		ic.placed = true
		return
	}
	if ic.placed {
		ic.x = clamp(ic.x, 0, ic.cw-edgeMargin)
		ic.y = clamp(ic.y, 0, ic.ch-edgeMargin)
	}
}

// Docked reports whether the input is pinned to the bottom.
func (ic *InputController) Docked() bool { return !ic.empty }

// Moved reports whether the user has dragged the floating input.
func (ic *InputController) Moved() bool { return ic.moved }

// Width returns the floating width.
func (ic *InputController) Width() float64 { return ic.width }

// Rect returns the input rectangle and whether it has a position.
func (ic *InputController) Rect() (Rect, bool) {
	if !ic.empty {
		w := math.Min(DockedMaxWidth, ic.cw)
		return Rect{
			X: (ic.cw - w) / 2,
			Y: ic.ch - DockedBottom - InputHeight,
			W: w,
			H: InputHeight,
		}, true
	}
	if !ic.placed {
		return Rect{}, false
	}
	return Rect{X: ic.x, Y: ic.y, W: ic.width, H: InputHeight}, true
}

func (ic *InputController) canBegin() error {
	switch {
	case !ic.empty:
		return ErrDocked
	case !ic.placed:
		return ErrNotPlaced
	case ic.gesture != inputIdle:
		return ErrGestureActive
	}
	return nil
}

// BeginDrag starts moving the input by its handle. It marks the input moved.
func (ic *InputController) BeginDrag(px, py float64) error {
	if err := ic.canBegin(); err != nil {
		return err
	}
	ic.gesture = inputDrag
	ic.moved = true
	ic.lastX, ic.lastY = px, py
	return nil
}

// BeginResize starts changing the width from the right edge.
func (ic *InputController) BeginResize(px float64) error {
	if err := ic.canBegin(); err != nil {
		return err
	}
	ic.gesture = inputResize
	ic.startX = px
	ic.startWidth = ic.width
	return nil
}

// Active reports whether a drag or resize is in progress.
func (ic *InputController) Active() bool { return ic.gesture != inputIdle }

// Move applies the pointer to the active gesture.
func (ic *InputController) Move(px, py float64) {
	switch ic.gesture {
	case inputDrag:
		ic.x += px - ic.lastX
		ic.y += py - ic.lastY
		ic.lastX, ic.lastY = px, py
	case inputResize:
		ic.width = clamp(ic.startWidth+px-ic.startX, MinInputWidth, MaxInputWidth)
		ic.layout()
	}
}

// End finishes the active gesture.
func (ic *InputController) End() {
	ic.gesture = inputIdle
}
