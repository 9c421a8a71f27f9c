// ABOUTME: Custom tea.Msg types for the dashboard
// ABOUTME: Bus wake-ups, background operation results and the clock tick

package ui

import (
	"time"

	"github.com/mauromedda/agentdesk/internal/authstate"
	"github.com/mauromedda/agentdesk/internal/tasksync"
)

// syncEventMsg wraps a synchronizer event.
type syncEventMsg struct{ ev tasksync.Event }

// authChangedMsg carries a new auth snapshot.
type authChangedMsg struct{ snap authstate.Snapshot }

// escalateDoneMsg reports the end of an escalation.
type escalateDoneMsg struct{ err error }

// loginDoneMsg reports the end of the connect flow.
type loginDoneMsg struct{ err error }

// logoutDoneMsg reports the end of a disconnect.
type logoutDoneMsg struct{ err error }

// settingDoneMsg reports a settings update.
type settingDoneMsg struct{ err error }

// tickMsg drives the clock widget and the loading timer.
type tickMsg time.Time

// ReloadMsg asks the model to re-read theme and keybindings after a config
// change. It is sent from the config watcher through Program.Send.
type ReloadMsg struct{}
