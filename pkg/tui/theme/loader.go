// ABOUTME: Theme resolution by built-in name or JSON theme file
// ABOUTME: Unset palette fields in a file inherit from the dark theme

package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a JSON theme file. Missing palette fields fall back to
// the dark theme and a missing markdown style to "dark".
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	base := *builtins["dark"]
	th := &base
	if err := json.Unmarshal(data, th); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}
	if th.Name == "" {
		th.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if th.Glamour == "" {
		th.Glamour = "dark"
	}
	return th, nil
}

// Resolve returns the built-in theme called name, or loads name as a file
// path when it ends in .json.
func Resolve(name string) (*Theme, error) {
	if th := Builtin(name); th != nil {
		return th, nil
	}
	if strings.HasSuffix(name, ".json") {
		return LoadFile(name)
	}
	return nil, fmt.Errorf("unknown theme %q (built-ins: %s)", name, strings.Join(BuiltinNames(), ", "))
}
