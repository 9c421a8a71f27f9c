// ABOUTME: Mapping between terminal cells and the canvas's virtual pixels
// ABOUTME: Each cell is CellWidth x CellHeight pixels; pointer positions use the cell centre

package ui

import (
	"math"

	"github.com/mauromedda/agentdesk/internal/canvas"
)

// Virtual pixel size of one terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

// cellRect is a rectangle in terminal cells.
type cellRect struct {
	X, Y, W, H int
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// cellToPixel returns the pixel at the centre of cell (x, y).
func cellToPixel(x, y int) (px, py float64) {
	return float64(x*CellWidth + CellWidth/2), float64(y*CellHeight + CellHeight/2)
}

// toCells converts a pixel rectangle to the cells whose centres lie inside
// it, so drawn borders agree with canvas hit testing.
func toCells(r canvas.Rect) cellRect {
	x0 := int(math.Round(r.X / CellWidth))
	y0 := int(math.Round(r.Y / CellHeight))
	x1 := int(math.Round((r.X + r.W) / CellWidth))
	y1 := int(math.Round((r.Y + r.H) / CellHeight))
	return cellRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// layout is the screen split computed from the terminal size.
type layout struct {
	width, height int
	sidebar       int      // sidebar width in cells, 0 when hidden
	canvas        cellRect // widget and chat area in screen cells
}

const (
	sidebarWidth    = 28
	sidebarMinTotal = 60
	headerRows      = 1
	footerRows      = 1
)

func computeLayout(width, height int, showSidebar bool) layout {
	l := layout{width: width, height: height}
	if showSidebar && width >= sidebarMinTotal {
		l.sidebar = sidebarWidth
	}
	l.canvas = cellRect{
		X: l.sidebar,
		Y: headerRows,
		W: max(width-l.sidebar, 0),
		H: max(height-headerRows-footerRows, 0),
	}
	return l
}

// canvasPixels returns the canvas size in pixels.
func (l layout) canvasPixels() (w, h float64) {
	return float64(l.canvas.W * CellWidth), float64(l.canvas.H * CellHeight)
}

// pointer converts a screen cell to canvas pixels. Points outside the
// canvas give coordinates outside [0, size).
func (l layout) pointer(x, y int) (px, py float64) {
	return cellToPixel(x-l.canvas.X, y-l.canvas.Y)
}
