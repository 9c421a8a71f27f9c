// ABOUTME: Floating widget canvas in percentage space with lock and visibility flags
// ABOUTME: Converts pointer pixels to percentages for placement, drop, hit testing and gestures

package canvas

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Placement bounds for new widgets, in percent.
const (
	randomOrigin = 10.0
	randomSpan   = 60.0
	maxOrigin    = 80.0
	dropOffset   = 10.0
	minSize      = 5.0
)

var (
	ErrLocked        = errors.New("canvas: widgets are locked")
	ErrHidden        = errors.New("canvas: widget layer is hidden")
	ErrGestureActive = errors.New("canvas: another gesture is in progress")
	ErrNoWidget      = errors.New("canvas: no such widget")
	ErrNoSize        = errors.New("canvas: canvas has no size")
)

// Widget is a positioned panel. All spatial fields are percentages (0-100)
// of the canvas size.
type Widget struct {
	ID   string
	Type string
	X, Y float64
	W, H float64
}

// Rect is a rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// Canvas holds widgets in insertion order. It is driven from a single
// event loop and is not safe for concurrent use.
type Canvas struct {
	rng     *rand.Rand
	widgets []Widget
	width   float64
	height  float64
	locked  bool
	visible bool

	handleX, handleY float64
	gesture          *gesture
}

// New creates an empty, visible, unlocked canvas. A nil rng uses a
// randomly seeded source.
func New(rng *rand.Rand) *Canvas {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Canvas{rng: rng, visible: true, handleX: 10, handleY: 10}
}

// SetSize records the canvas pixel size. Widget percentages are unchanged.
func (c *Canvas) SetSize(w, h float64) {
	c.width, c.height = w, h
}

// Size returns the canvas pixel size.
func (c *Canvas) Size() (w, h float64) { return c.width, c.height }

// SetHandleSize sets the width of the resize zone along the right edge and
// the height of the zone along the bottom edge, in pixels.
func (c *Canvas) SetHandleSize(x, y float64) {
	c.handleX, c.handleY = x, y
}

// Add places a widget of typ at a random spot in the central area and
// shows the widget layer if it was hidden.
func (c *Canvas) Add(typ string) Widget {
	x := clamp(randomOrigin+c.rng.Float64()*randomSpan, 0, maxOrigin)
	y := clamp(randomOrigin+c.rng.Float64()*randomSpan, 0, maxOrigin)
	return c.insert(typ, x, y)
}

// Drop places a widget of typ under the pointer at canvas pixel (px, py),
// offset so the pointer lands inside the widget. Points outside the canvas
// are clamped.
func (c *Canvas) Drop(typ string, px, py float64) (Widget, error) {
	if c.width <= 0 || c.height <= 0 {
		return Widget{}, ErrNoSize
	}
	x := clamp(px/c.width*100-dropOffset, 0, maxOrigin)
	y := clamp(py/c.height*100-dropOffset, 0, maxOrigin)
	return c.insert(typ, x, y), nil
}

func (c *Canvas) insert(typ string, x, y float64) Widget {
	w, h := DefaultSize(typ)
	wd := Widget{ID: uuid.NewString(), Type: typ, X: x, Y: y, W: w, H: h}
	c.widgets = append(c.widgets, wd)
	c.visible = true
	return wd
}

// Remove deletes a widget. Removing the widget under an active gesture
// cancels the gesture.
func (c *Canvas) Remove(id string) error {
	for i, w := range c.widgets {
		if w.ID == id {
			c.widgets = append(c.widgets[:i], c.widgets[i+1:]...)
			if c.gesture != nil && c.gesture.id == id {
				c.gesture = nil
			}
			return nil
		}
	}
	return ErrNoWidget
}

// Widgets returns a copy of the widgets in insertion (paint) order.
func (c *Canvas) Widgets() []Widget {
	return append([]Widget(nil), c.widgets...)
}

// Get returns the widget with the given id.
func (c *Canvas) Get(id string) (Widget, bool) {
	if i := c.index(id); i >= 0 {
		return c.widgets[i], true
	}
	return Widget{}, false
}

func (c *Canvas) index(id string) int {
	for i, w := range c.widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// Locked reports whether drag and resize are suppressed.
func (c *Canvas) Locked() bool { return c.locked }

// SetLocked sets the lock flag. Locking cancels any active gesture.
func (c *Canvas) SetLocked(locked bool) {
	c.locked = locked
	if locked {
		c.gesture = nil
	}
}

// ToggleLocked flips the lock flag and returns the new value.
func (c *Canvas) ToggleLocked() bool {
	c.SetLocked(!c.locked)
	return c.locked
}

// Visible reports whether the widget layer is shown.
func (c *Canvas) Visible() bool { return c.visible }

// SetVisible shows or hides the widget layer without discarding widgets.
func (c *Canvas) SetVisible(visible bool) {
	c.visible = visible
	if !visible {
		c.gesture = nil
	}
}

// ToggleVisible flips the visibility flag and returns the new value.
func (c *Canvas) ToggleVisible() bool {
	c.SetVisible(!c.visible)
	return c.visible
}

// PixelRect converts a widget's percentages to canvas pixels.
func (c *Canvas) PixelRect(w Widget) Rect {
	return Rect{
		X: w.X / 100 * c.width,
		Y: w.Y / 100 * c.height,
		W: w.W / 100 * c.width,
		H: w.H / 100 * c.height,
	}
}

// HitTest returns the top-most widget under (px, py) and the resize edge
// the point falls on, EdgeNone for the widget body.
func (c *Canvas) HitTest(px, py float64) (Widget, Edge, bool) {
	if !c.visible {
		return Widget{}, EdgeNone, false
	}
	for i := len(c.widgets) - 1; i >= 0; i-- {
		w := c.widgets[i]
		r := c.PixelRect(w)
		if !r.Contains(px, py) {
			continue
		}
		right := px >= r.X+r.W-c.handleX
		bottom := py >= r.Y+r.H-c.handleY
		switch {
		case right && bottom:
			return w, EdgeCorner, true
		case right:
			return w, EdgeRight, true
		case bottom:
			return w, EdgeBottom, true
		default:
			return w, EdgeNone, true
		}
	}
	return Widget{}, EdgeNone, false
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
