// ABOUTME: Splits styled terminal lines into escape sequences and grapheme clusters
// ABOUTME: Escapes are zero-width; wide runes, CJK and emoji presentation count two cells

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Reset is the SGR sequence that clears all attributes.
const Reset = "\x1b[0m"

const emojiPresentation = '\uFE0F'

// segment calls fn for every token of s in order: escape sequences with
// w < 0 and grapheme clusters with their cell width. Returning false stops.
func segment(s string, fn func(tok string, w int) bool) {
	state := -1
	for len(s) > 0 {
		if s[0] == '\x1b' {
			n := escapeLen(s)
			if !fn(s[:n], -1) {
				return
			}
			s = s[n:]
			state = -1
			continue
		}
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if !fn(cluster, clusterWidth(cluster)) {
			return
		}
	}
}

// escapeLen returns the byte length of the escape sequence at the start of
// s. CSI ends at a final byte, OSC at BEL or ST, DCS/PM/APC at ST. An
// unterminated sequence runs to the end of s.
func escapeLen(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7E {
				return i + 1
			}
		}
	case ']':
		for i := 2; i < len(s); i++ {
			if s[i] == '\a' {
				return i + 1
			}
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
	case 'P', '^', '_':
		if i := strings.Index(s[2:], "\x1b\\"); i >= 0 {
			return i + 4
		}
	default:
		return 2
	}
	return len(s)
}

func clusterWidth(c string) int {
	r, size := utf8.DecodeRuneInString(c)
	w := runewidth.RuneWidth(r)
	if w == 1 && strings.ContainsRune(c[size:], emojiPresentation) {
		return 2
	}
	return w
}

// VisibleWidth returns the number of terminal cells s occupies.
func VisibleWidth(s string) int {
	if plainASCII(s) {
		return len(s)
	}
	total := 0
	segment(s, func(_ string, w int) bool {
		if w > 0 {
			total += w
		}
		return true
	})
	return total
}

func plainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

// StripANSI removes all escape sequences from s.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	segment(s, func(tok string, w int) bool {
		if w >= 0 {
			b.WriteString(tok)
		}
		return true
	})
	return b.String()
}
