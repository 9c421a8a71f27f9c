// ABOUTME: External dependencies injected into the dashboard model
// ABOUTME: Store and synchronizer are required; the rest degrade gracefully when nil

package ui

import (
	"github.com/mauromedda/agentdesk/internal/authstate"
	"github.com/mauromedda/agentdesk/internal/canvas"
	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/keybindings"
	"github.com/mauromedda/agentdesk/internal/tasksync"
)

// Deps holds everything the dashboard needs from the rest of the program.
type Deps struct {
	Store *chat.Store
	Sync  *tasksync.Synchronizer

	// Auth and Authorizer drive the Google connect flow. A nil Auth hides
	// the account section.
	Auth       *authstate.State
	Authorizer authstate.Authorizer

	// Keys resolves key presses to actions. nil uses the defaults.
	Keys *keybindings.Manager

	// Canvas and Input are created when nil.
	Canvas *canvas.Canvas
	Input  *canvas.InputController

	Version string
}
