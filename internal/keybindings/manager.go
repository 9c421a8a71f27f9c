// ABOUTME: Keybindings manager with O(1) key-to-action lookup
// ABOUTME: Merges global and local configs, detects conflicts, supports hot-reload

package keybindings

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/mauromedda/agentdesk/internal/config"
)

// ConflictInfo describes a binding conflict where multiple actions share a key.
type ConflictInfo struct {
	Key     string
	Actions []config.KeyAction
}

// Manager maps key strings, as produced by tea.KeyMsg.String(), to actions.
// Reload may run on the config watcher goroutine, so lookups are guarded.
type Manager struct {
	mu       sync.RWMutex
	bindings *config.Keybindings
	lookup   map[string]config.KeyAction
}

// New creates a Manager from global and local keybinding files.
// Local bindings override global ones. Missing files are ignored.
func New(globalPath, localPath string) *Manager {
	m := &Manager{}
	m.Reload(globalPath, localPath)
	return m
}

// NewFromBindings creates a Manager from an existing Keybindings instance.
func NewFromBindings(kb *config.Keybindings) *Manager {
	m := &Manager{}
	m.set(kb)
	return m
}

// Action returns the action bound to key, or "" if unbound.
func (m *Manager) Action(key string) config.KeyAction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookup[key]
}

// Keys returns the keys bound to action.
func (m *Manager) Keys(action config.KeyAction) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bindings.GetBindings(action)
}

// Conflicts detects keys bound to multiple actions, sorted by key.
func (m *Manager) Conflicts() []ConflictInfo {
	m.mu.RLock()
	keyActions := make(map[string][]config.KeyAction)
	for action, keys := range m.bindings.Bindings {
		for _, k := range keys {
			keyActions[k] = append(keyActions[k], action)
		}
	}
	m.mu.RUnlock()

	var conflicts []ConflictInfo
	for k, actions := range keyActions {
		if len(actions) > 1 {
			slices.Sort(actions)
			conflicts = append(conflicts, ConflictInfo{Key: k, Actions: actions})
		}
	}
	slices.SortFunc(conflicts, func(a, b ConflictInfo) int { return strings.Compare(a.Key, b.Key) })
	return conflicts
}

// Reload re-reads keybinding files and rebuilds the lookup table.
func (m *Manager) Reload(globalPath, localPath string) {
	kb := config.NewKeybindings()
	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		if loaded, err := config.LoadKeybindings(path); err == nil {
			mergeBindings(kb, loaded)
		}
	}
	m.set(kb)
}

// help lists actions in the order shown to the user.
var help = []struct {
	action config.KeyAction
	desc   string
}{
	{config.ActionSend, "send message"},
	{config.ActionWidgetPalette, "widget palette"},
	{config.ActionPaletteDrop, "drop widget at pointer"},
	{config.ActionToggleLock, "lock/unlock widgets"},
	{config.ActionToggleWidgets, "show/hide widgets"},
	{config.ActionEscalate, "search the web for this task"},
	{config.ActionNewChat, "new chat"},
	{config.ActionDeleteChat, "delete chat"},
	{config.ActionPrevChat, "previous chat"},
	{config.ActionNextChat, "next chat"},
	{config.ActionToggleSidebar, "toggle sidebar"},
	{config.ActionToggleTheme, "toggle theme"},
	{config.ActionGoogle, "connect/disconnect Google"},
	{config.ActionCalendarSync, "toggle calendar sync"},
	{config.ActionScrollUp, "scroll up"},
	{config.ActionScrollDown, "scroll down"},
	{config.ActionQuit, "quit"},
}

// FormatAll returns a two-column table of bindings for the help overlay.
func (m *Manager) FormatAll() string {
	var b strings.Builder
	for _, h := range help {
		keys := m.Keys(h.action)
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%-14s %s\n", strings.Join(keys, ", "), h.desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Manager) set(kb *config.Keybindings) {
	lookup := make(map[string]config.KeyAction, len(kb.Bindings)*2)
	for action, keys := range kb.Bindings {
		for _, k := range keys {
			lookup[k] = action
		}
	}
	m.mu.Lock()
	m.bindings = kb
	m.lookup = lookup
	m.mu.Unlock()
}

// mergeBindings overrides base bindings with overrides where present.
func mergeBindings(base, overrides *config.Keybindings) {
	maps.Copy(base.Bindings, overrides.Bindings)
}
