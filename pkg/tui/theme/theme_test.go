// ABOUTME: Tests for built-in themes, the global pointer and theme file loading
// ABOUTME: Verifies palettes are complete and toggling flips between dark and light

package theme

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func TestBuiltinThemes_Complete(t *testing.T) {
	t.Parallel()
	for _, name := range BuiltinNames() {
		th := Builtin(name)
		if th == nil {
			t.Fatalf("Builtin(%q) = nil", name)
		}
		v := reflect.ValueOf(th.Palette)
		for i := range v.NumField() {
			if v.Field(i).String() == "" {
				t.Errorf("%s: palette field %s is empty", name, v.Type().Field(i).Name)
			}
		}
		if th.Glamour == "" {
			t.Errorf("%s: no glamour style", name)
		}
	}
}

func TestStatusColor(t *testing.T) {
	t.Parallel()
	th := Builtin("dark")
	tests := map[string]string{
		"planned":              th.Palette.StatusPlanned,
		"waiting_for_internet": th.Palette.StatusWaiting,
		"executing":            th.Palette.StatusExecuting,
		"completed":            th.Palette.StatusCompleted,
		"mystery":              th.Palette.Muted,
	}
	for status, want := range tests {
		if got := string(th.StatusColor(status)); got != want {
			t.Errorf("StatusColor(%q) = %q, want %q", status, got, want)
		}
	}
}

// Global theme tests mutate shared state and must not run in parallel.
func TestToggle(t *testing.T) {
	old := Current()
	defer Set(old)

	Set(Builtin("dark"))
	if got := Toggle(); got.Name != "light" {
		t.Errorf("Toggle from dark = %q, want light", got.Name)
	}
	if got := Toggle(); got.Name != "dark" {
		t.Errorf("Toggle from light = %q, want dark", got.Name)
	}
	Set(nil)
	if Current() == nil {
		t.Error("Set(nil) cleared the theme")
	}
}

func TestCurrent_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Current().Styles()
		}()
	}
	wg.Wait()
}

func TestResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ocean.json")
	data := `{"name":"ocean","glamour":"light","palette":{"accent":"#00ffff"}}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	th, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(file): %v", err)
	}
	if th.Name != "ocean" || th.Glamour != "light" || th.Palette.Accent != "#00ffff" {
		t.Errorf("theme = %+v", th)
	}
	if th.Palette.Text != Builtin("dark").Palette.Text {
		t.Error("unset field did not inherit from dark")
	}
	if Builtin("dark").Palette.Accent == "#00ffff" {
		t.Error("loading a file mutated the built-in theme")
	}

	if th, err := Resolve("light"); err != nil || th.Name != "light" {
		t.Errorf("Resolve(light) = %v, %v", th, err)
	}
	if _, err := Resolve("neon"); err == nil {
		t.Error("Resolve(neon) should fail")
	}
	if _, err := Resolve(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Resolve(missing file) should fail")
	}
}
