// ABOUTME: Round profile-picture rendering with true-color half-block characters
// ABOUTME: Center-crops to a square, masks a circle and keeps the terminal background outside it

package image

import (
	"fmt"
	goimage "image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Pixels below this alpha show the terminal background.
const opaqueAlpha = 0x80

// RenderAvatar center-crops img to a square and renders it cols cells wide
// and cols/2 rows tall, clipped to a circle.
func RenderAvatar(img goimage.Image, cols int) []string {
	if img == nil || cols <= 0 {
		return nil
	}
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	if side == 0 {
		return nil
	}
	crop := goimage.Rect(0, 0, side, side).Add(goimage.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	h := cols
	if h%2 != 0 {
		h++
	}
	dst := goimage.NewRGBA(goimage.Rect(0, 0, cols, h))
	draw.CatmullRom.Scale(dst, goimage.Rect(0, 0, cols, cols), img, crop, draw.Over, nil)
	maskCircle(dst, cols)
	return halfBlocks(dst)
}

// maskCircle clears every pixel outside the circle inscribed in the
// top-left side x side square.
func maskCircle(img *goimage.RGBA, side int) {
	r := float64(side) / 2
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy > r*r {
				img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
}

// halfBlocks packs two pixel rows into each line. An opaque pair uses ▄
// with the top pixel as background; a half-transparent pair draws only
// the opaque half over the default background.
func halfBlocks(img *goimage.RGBA) []string {
	b := img.Bounds()
	var lines []string
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			var bot color.RGBA
			if y+1 < b.Max.Y {
				bot = img.RGBAAt(x, y+1)
			}
			topOn, botOn := top.A >= opaqueAlpha, bot.A >= opaqueAlpha
			switch {
			case topOn && botOn:
				fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			case topOn:
				fmt.Fprintf(&sb, "\x1b[49m\x1b[38;2;%d;%d;%dm▀", top.R, top.G, top.B)
			case botOn:
				fmt.Fprintf(&sb, "\x1b[49m\x1b[38;2;%d;%d;%dm▄", bot.R, bot.G, bot.B)
			default:
				sb.WriteString("\x1b[0m ")
			}
		}
		sb.WriteString("\x1b[0m")
		lines = append(lines, sb.String())
	}
	return lines
}
