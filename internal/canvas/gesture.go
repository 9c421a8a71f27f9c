// ABOUTME: Pointer-driven drag and resize gestures for canvas widgets
// ABOUTME: One gesture at a time; drag moves x,y only and resize changes w,h only

package canvas

// Edge identifies a resize handle.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeRight
	EdgeBottom
	EdgeCorner
)

func (e Edge) String() string {
	switch e {
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeCorner:
		return "corner"
	default:
		return "none"
	}
}

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
)

type gesture struct {
	kind   gestureKind
	id     string
	edge   Edge
	px, py float64 // pointer at gesture start
	start  Widget  // widget at gesture start
}

func (c *Canvas) begin(kind gestureKind, id string, edge Edge, px, py float64) error {
	switch {
	case c.locked:
		return ErrLocked
	case !c.visible:
		return ErrHidden
	case c.gesture != nil:
		return ErrGestureActive
	case c.width <= 0 || c.height <= 0:
		return ErrNoSize
	}
	i := c.index(id)
	if i < 0 {
		return ErrNoWidget
	}
	c.gesture = &gesture{kind: kind, id: id, edge: edge, px: px, py: py, start: c.widgets[i]}
	return nil
}

// BeginDrag starts moving widget id from pointer (px, py).
func (c *Canvas) BeginDrag(id string, px, py float64) error {
	return c.begin(gestureDrag, id, EdgeNone, px, py)
}

// BeginResize starts resizing widget id by the given edge.
func (c *Canvas) BeginResize(id string, edge Edge, px, py float64) error {
	if edge == EdgeNone {
		edge = EdgeCorner
	}
	return c.begin(gestureResize, id, edge, px, py)
}

// Dragging reports whether a gesture is in progress.
func (c *Canvas) Dragging() bool { return c.gesture != nil }

// Move applies the pointer position to the active gesture. It is a no-op
// without one or while the canvas has no size.
func (c *Canvas) Move(px, py float64) {
	g := c.gesture
	if g == nil || c.width <= 0 || c.height <= 0 {
		return
	}
	i := c.index(g.id)
	if i < 0 {
		c.gesture = nil
		return
	}
	dx := (px - g.px) / c.width * 100
	dy := (py - g.py) / c.height * 100
	w := &c.widgets[i]

	switch g.kind {
	case gestureDrag:
		w.X = clamp(g.start.X+dx, 0, 100-w.W)
		w.Y = clamp(g.start.Y+dy, 0, 100-w.H)
	case gestureResize:
		if g.edge == EdgeRight || g.edge == EdgeCorner {
			w.W = clamp(g.start.W+dx, minSize, 100-w.X)
		}
		if g.edge == EdgeBottom || g.edge == EdgeCorner {
			w.H = clamp(g.start.H+dy, minSize, 100-w.Y)
		}
	}
}

// End finishes the active gesture wherever the pointer was released.
func (c *Canvas) End() {
	c.gesture = nil
}
