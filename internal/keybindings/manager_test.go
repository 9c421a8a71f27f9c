// ABOUTME: Tests for keybindings manager
// ABOUTME: Validates key lookup, conflict detection, merge, reload, and format

package keybindings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mauromedda/agentdesk/internal/config"
)

func writeBindings(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestManager_DefaultBindings(t *testing.T) {
	t.Parallel()
	m := NewFromBindings(config.NewKeybindings())

	tests := []struct {
		key    string
		action config.KeyAction
	}{
		{"enter", config.ActionSend},
		{"ctrl+w", config.ActionWidgetPalette},
		{"ctrl+e", config.ActionEscalate},
		{"alt+up", config.ActionPrevChat},
		{"ctrl+c", config.ActionQuit},
		{"z", ""},
	}
	for _, tt := range tests {
		if got := m.Action(tt.key); got != tt.action {
			t.Errorf("Action(%q) = %q; want %q", tt.key, got, tt.action)
		}
	}
}

func TestManager_NoDefaultConflicts(t *testing.T) {
	t.Parallel()
	if c := NewFromBindings(config.NewKeybindings()).Conflicts(); len(c) != 0 {
		t.Errorf("default conflicts: %+v", c)
	}
}

func TestManager_Conflicts(t *testing.T) {
	t.Parallel()
	kb := config.NewKeybindings()
	kb.Bindings[config.ActionEscalate] = []string{"ctrl+n"}

	conflicts := NewFromBindings(kb).Conflicts()
	if len(conflicts) != 1 || conflicts[0].Key != "ctrl+n" || len(conflicts[0].Actions) != 2 {
		t.Errorf("conflicts = %+v", conflicts)
	}
}

func TestManager_MergeAndReload(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	global := filepath.Join(dir, "global.json")
	local := filepath.Join(dir, "local.json")
	writeBindings(t, global, `{"escalate": ["f5"], "newChat": ["f6"]}`)
	writeBindings(t, local, `{"escalate": ["f7"]}`)

	m := New(global, local)
	if got := m.Action("f7"); got != config.ActionEscalate {
		t.Errorf("local override: Action(f7) = %q", got)
	}
	if got := m.Action("f5"); got != "" {
		t.Errorf("overridden global key still bound to %q", got)
	}
	if got := m.Action("f6"); got != config.ActionNewChat {
		t.Errorf("global binding: Action(f6) = %q", got)
	}

	writeBindings(t, local, `{"escalate": ["f8"]}`)
	m.Reload(global, local)
	if got := m.Action("f8"); got != config.ActionEscalate {
		t.Errorf("after reload: Action(f8) = %q", got)
	}
}

func TestManager_MissingFilesUseDefaults(t *testing.T) {
	t.Parallel()
	m := New(filepath.Join(t.TempDir(), "nope.json"), "")
	if got := m.Action("ctrl+w"); got != config.ActionWidgetPalette {
		t.Errorf("Action(ctrl+w) = %q", got)
	}
}

func TestManager_FormatAll(t *testing.T) {
	t.Parallel()
	out := NewFromBindings(config.NewKeybindings()).FormatAll()
	for _, want := range []string{"ctrl+w", "widget palette", "ctrl+e", "search the web"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatAll missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "esc ") {
		t.Error("cancel should not be listed")
	}
}
