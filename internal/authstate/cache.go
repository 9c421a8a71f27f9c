// ABOUTME: On-disk cache of the Google connection flag and profile
// ABOUTME: Lets the UI show the last known account instantly before the backend answers

package authstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mauromedda/agentdesk/internal/agentclient"
)

type cacheFile struct {
	Connected bool                 `json:"connected"`
	Profile   *agentclient.Profile `json:"profile,omitempty"`
}

// loadCache reads the cache. A missing or corrupt file reads as disconnected.
func loadCache(path string) cacheFile {
	var c cacheFile
	if path == "" {
		return c
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return cacheFile{}
	}
	if !c.Connected {
		c.Profile = nil
	}
	return c
}

// saveCache writes the cache atomically via a temp file and rename.
func saveCache(path string, c cacheFile) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling auth cache: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp auth cache: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp auth cache: %w", err)
	}
	return nil
}
