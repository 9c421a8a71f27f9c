// ABOUTME: Decides the terminal background before bubbletea's init() can send OSC 10/11 queries
// ABOUTME: Must be imported (with _) before any package that imports bubbletea

package termfix

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// This package must not import bubbletea, directly or transitively, so its
// init runs first and the query in lipgloss.HasDarkBackground is skipped.
func init() {
	lipgloss.SetHasDarkBackground(darkBackground(os.Getenv("COLORFGBG")))
}

// darkBackground reads the "fg;bg" hint some terminals export. Background
// colours 7 and 15 are light; anything else, or no hint, counts as dark.
func darkBackground(colorfgbg string) bool {
	if colorfgbg == "" {
		return true
	}
	parts := strings.Split(colorfgbg, ";")
	switch parts[len(parts)-1] {
	case "7", "15":
		return false
	}
	return true
}
