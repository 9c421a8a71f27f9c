// ABOUTME: Lock-free global theme pointer using atomic.Pointer
// ABOUTME: Current() returns the active theme; Set() and Toggle() swap it atomically

package theme

import "sync/atomic"

var current atomic.Pointer[Theme]

func init() {
	current.Store(builtins["dark"])
}

// Current returns the active theme. Never returns nil.
func Current() *Theme {
	return current.Load()
}

// Set atomically replaces the active theme. nil is ignored.
func Set(t *Theme) {
	if t != nil {
		current.Store(t)
	}
}

// Toggle switches between the dark and light built-ins and returns the
// new theme. A custom theme toggles to light when its markdown style is
// dark and to dark otherwise.
func Toggle() *Theme {
	next := builtins["dark"]
	if Current().Glamour == "dark" {
		next = builtins["light"]
	}
	current.Store(next)
	return next
}
