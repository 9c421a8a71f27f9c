// ABOUTME: Standard filesystem paths for agentdesk configuration and data
// ABOUTME: Resolves ~/.agentdesk/ for global and .agentdesk/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".agentdesk"
	projectDirName = ".agentdesk"
)

// GlobalDir returns the user-global config directory (~/.agentdesk/).
func GlobalDir() string {
	if dir := os.Getenv("AGENTDESK_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.agentdesk/ in cwd).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.json")
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "config.json")
}

// ThemesDirs returns the directories searched for named JSON themes,
// project-local first.
func ThemesDirs(projectRoot string) []string {
	return []string{
		filepath.Join(ProjectDir(projectRoot), "themes"),
		filepath.Join(GlobalDir(), "themes"),
	}
}

// ThemeFile returns the first existing <name>.json in ThemesDirs, or "".
func ThemeFile(projectRoot, name string) string {
	if name == "" || filepath.Base(name) != name {
		return ""
	}
	for _, dir := range ThemesDirs(projectRoot) {
		p := filepath.Join(dir, name+".json")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// AuthCacheFile returns the path to the cached connection flag and profile.
func AuthCacheFile() string {
	return filepath.Join(GlobalDir(), "auth_cache.json")
}

// LogFile returns the path of the TUI log file.
func LogFile() string {
	return filepath.Join(GlobalDir(), "agentdesk.log")
}

// EnsureDir creates a directory and all parents if they don't exist.
// Uses 0o700 since the directory holds cached account data.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
