// ABOUTME: Tests for round avatar rendering
// ABOUTME: Checks cell geometry, the circular mask and the half-transparent cell glyphs

package image

import (
	goimage "image"
	"image/color"
	"strings"
	"testing"

	"github.com/mauromedda/agentdesk/pkg/tui/width"
)

func solid(w, h int, c color.RGBA) *goimage.RGBA {
	img := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderAvatar(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	tests := []struct {
		name      string
		w, h      int
		cols      int
		wantLines int
	}{
		{name: "square", w: 96, h: 96, cols: 8, wantLines: 4},
		{name: "wide crops", w: 200, h: 50, cols: 6, wantLines: 3},
		{name: "tall crops", w: 40, h: 300, cols: 4, wantLines: 2},
		{name: "odd cols", w: 10, h: 10, cols: 3, wantLines: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := RenderAvatar(solid(tt.w, tt.h, red), tt.cols)
			if len(lines) != tt.wantLines {
				t.Fatalf("got %d lines, want %d", len(lines), tt.wantLines)
			}
			for i, line := range lines {
				if got := width.VisibleWidth(line); got != tt.cols {
					t.Errorf("line %d is %d cells wide, want %d", i, got, tt.cols)
				}
				if !strings.HasSuffix(line, "\x1b[0m") {
					t.Errorf("line %d missing reset", i)
				}
			}
		})
	}
}

func TestRenderAvatar_CircleMask(t *testing.T) {
	lines := RenderAvatar(solid(64, 64, color.RGBA{G: 255, A: 255}), 8)
	if len(lines) != 4 {
		t.Fatalf("got %d lines", len(lines))
	}
	// Corners fall outside the circle, the centre inside it.
	first := width.StripANSI(lines[0])
	if !strings.HasPrefix(first, " ") || !strings.HasSuffix(first, " ") {
		t.Errorf("top row corners not transparent: %q", first)
	}
	if !strings.Contains(lines[1], "\x1b[48;2;0;255;0m\x1b[38;2;0;255;0m▄") {
		t.Errorf("centre row not fully opaque: %q", lines[1])
	}
}

func TestHalfBlocks_Glyphs(t *testing.T) {
	img := goimage.NewRGBA(goimage.Rect(0, 0, 4, 2))
	blue := color.RGBA{B: 200, A: 255}
	img.SetRGBA(0, 0, blue)
	img.SetRGBA(0, 1, blue)
	img.SetRGBA(1, 0, blue)
	img.SetRGBA(2, 1, blue)

	lines := halfBlocks(img)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	want := "\x1b[48;2;0;0;200m\x1b[38;2;0;0;200m▄" +
		"\x1b[49m\x1b[38;2;0;0;200m▀" +
		"\x1b[49m\x1b[38;2;0;0;200m▄" +
		"\x1b[0m " +
		"\x1b[0m"
	if lines[0] != want {
		t.Errorf("line = %q\nwant   %q", lines[0], want)
	}
}

func TestRenderAvatar_Empty(t *testing.T) {
	if lines := RenderAvatar(nil, 8); lines != nil {
		t.Errorf("nil image rendered %d lines", len(lines))
	}
	if lines := RenderAvatar(goimage.NewRGBA(goimage.Rect(0, 0, 0, 5)), 8); lines != nil {
		t.Errorf("zero-width image rendered %d lines", len(lines))
	}
	if lines := RenderAvatar(goimage.NewRGBA(goimage.Rect(0, 0, 5, 5)), 0); lines != nil {
		t.Errorf("zero cols rendered %d lines", len(lines))
	}
}
