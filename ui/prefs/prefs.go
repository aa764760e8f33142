// Package prefs provides JSON-based editor preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const prefsFile = "preferences.json"

// Prefs stores the editor settings that persist between sessions. Edits
// themselves never persist; only tool parameters and paths do.
type Prefs struct {
	mu   sync.Mutex
	path string

	LastDirectory string `json:"last_directory,omitempty"`
	LastExportDir string `json:"last_export_dir,omitempty"`
	Tolerance     int    `json:"tolerance,omitempty"`
	Scale         int    `json:"scale,omitempty"`
}

// Load reads preferences from ~/.config/photo-editor/preferences.json.
// Returns defaults if the file doesn't exist.
func Load() *Prefs {
	p := &Prefs{
		Tolerance: 30,
		Scale:     100,
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	dir := filepath.Join(configDir, "photo-editor")
	p.path = filepath.Join(dir, prefsFile)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, p)

	if p.Tolerance < 5 || p.Tolerance > 80 {
		p.Tolerance = 30
	}
	if p.Scale < 30 || p.Scale > 200 {
		p.Scale = 100
	}
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.Lock()
	data, err := json.MarshalIndent(p, "", "  ")
	p.mu.Unlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}
