// ABOUTME: Column slicing and layer compositing for styled terminal lines
// ABOUTME: Overlay paints a floating panel row over a background row at a cell offset

package width

import "strings"

// SliceByColumn returns the graphemes of s that lie entirely within columns
// [start, end). Escape sequences are kept so styling carries over.
func SliceByColumn(s string, start, end int) string {
	if start >= end || s == "" {
		return ""
	}
	var b strings.Builder
	col := 0
	segment(s, func(tok string, w int) bool {
		switch {
		case w < 0:
			b.WriteString(tok)
		case col >= start && col+w <= end:
			b.WriteString(tok)
		}
		if w > 0 {
			col += w
		}
		return true
	})
	return b.String()
}

// PadRight pads s with spaces to exactly n visible columns, truncating when
// it is wider.
func PadRight(s string, n int) string {
	w := VisibleWidth(s)
	switch {
	case w == n:
		return s
	case w > n:
		s = SliceByColumn(s, 0, n)
		w = VisibleWidth(s)
	}
	return s + strings.Repeat(" ", n-w)
}

// Overlay paints top over base starting at column col. Cells of base
// covered by top are replaced; base is padded when it is shorter than col.
// A wide grapheme cut by either edge of top becomes a space.
func Overlay(base, top string, col int) string {
	if col < 0 {
		top = SliceByColumn(top, -col, VisibleWidth(top))
		col = 0
	}
	tw := VisibleWidth(top)
	if tw == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(PadRight(SliceByColumn(base, 0, col), col))
	b.WriteString(Reset)
	b.WriteString(top)
	b.WriteString(Reset)

	bw := VisibleWidth(base)
	if end := col + tw; end < bw {
		right := SliceByColumn(base, end, bw)
		b.WriteString(strings.Repeat(" ", bw-end-VisibleWidth(right)))
		b.WriteString(right)
	}
	return b.String()
}

// TruncateToWidth truncates s to at most maxWidth visible columns, ending
// with an ellipsis when anything was cut.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return SliceByColumn(s, 0, maxWidth-1) + Reset + "…"
}
