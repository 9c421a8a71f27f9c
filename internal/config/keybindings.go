// ABOUTME: Keybinding actions, defaults and the JSON keybindings file format
// ABOUTME: Supports ~/.agentdesk/keybindings.json and project-local overrides

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// KeyAction represents an action that can be bound to keys.
type KeyAction string

const (
	ActionSend          KeyAction = "send"
	ActionWidgetPalette KeyAction = "widgetPalette"
	ActionPaletteDrop   KeyAction = "paletteDrop"
	ActionToggleLock    KeyAction = "toggleLock"
	ActionToggleWidgets KeyAction = "toggleWidgets"
	ActionEscalate      KeyAction = "escalate"
	ActionNewChat       KeyAction = "newChat"
	ActionDeleteChat    KeyAction = "deleteChat"
	ActionPrevChat      KeyAction = "prevChat"
	ActionNextChat      KeyAction = "nextChat"
	ActionToggleSidebar KeyAction = "toggleSidebar"
	ActionToggleTheme   KeyAction = "toggleTheme"
	ActionGoogle        KeyAction = "google"
	ActionCalendarSync  KeyAction = "calendarSync"
	ActionScrollUp      KeyAction = "scrollUp"
	ActionScrollDown    KeyAction = "scrollDown"
	ActionHelp          KeyAction = "help"
	ActionCancel        KeyAction = "cancel"
	ActionQuit          KeyAction = "quit"
)

// Keybindings maps actions to key strings such as "ctrl+w" or "alt+up".
type Keybindings struct {
	Bindings map[KeyAction][]string
}

// NewKeybindings creates a Keybindings with the default bindings.
func NewKeybindings() *Keybindings {
	kb := &Keybindings{Bindings: make(map[KeyAction][]string)}
	kb.setDefaultBindings()
	return kb
}

func (kb *Keybindings) setDefaultBindings() {
	kb.Bindings[ActionSend] = []string{"enter"}
	kb.Bindings[ActionWidgetPalette] = []string{"ctrl+w"}
	kb.Bindings[ActionPaletteDrop] = []string{"ctrl+d"}
	kb.Bindings[ActionToggleLock] = []string{"ctrl+l"}
	kb.Bindings[ActionToggleWidgets] = []string{"ctrl+h"}
	kb.Bindings[ActionEscalate] = []string{"ctrl+e"}
	kb.Bindings[ActionNewChat] = []string{"ctrl+n"}
	kb.Bindings[ActionDeleteChat] = []string{"ctrl+x"}
	kb.Bindings[ActionPrevChat] = []string{"alt+up"}
	kb.Bindings[ActionNextChat] = []string{"alt+down"}
	kb.Bindings[ActionToggleSidebar] = []string{"ctrl+s"}
	kb.Bindings[ActionToggleTheme] = []string{"ctrl+t"}
	kb.Bindings[ActionGoogle] = []string{"ctrl+g"}
	kb.Bindings[ActionCalendarSync] = []string{"ctrl+k"}
	kb.Bindings[ActionScrollUp] = []string{"pgup"}
	kb.Bindings[ActionScrollDown] = []string{"pgdown"}
	kb.Bindings[ActionHelp] = []string{"f1"}
	kb.Bindings[ActionCancel] = []string{"esc"}
	kb.Bindings[ActionQuit] = []string{"ctrl+c"}
}

// LoadKeybindings reads a keybindings file over the defaults. Unknown
// action names are ignored.
func LoadKeybindings(path string) (*Keybindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing keybindings %s: %w", path, err)
	}

	kb := NewKeybindings()
	for name, keys := range raw {
		action := KeyAction(name)
		if _, ok := kb.Bindings[action]; ok {
			kb.Bindings[action] = keys
		}
	}
	return kb, nil
}

// GetBindings returns the keys bound to an action.
func (kb *Keybindings) GetBindings(action KeyAction) []string {
	if kb == nil {
		return nil
	}
	return kb.Bindings[action]
}

// GlobalKeybindingsFile returns the path to the global keybindings file.
func GlobalKeybindingsFile() string {
	return filepath.Join(GlobalDir(), "keybindings.json")
}

// LocalKeybindingsFile returns the path to the project keybindings file.
func LocalKeybindingsFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "keybindings.json")
}
