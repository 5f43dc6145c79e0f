// Package history persists command-line history between sessions.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// MaxEntries bounds the number of entries kept per history file.
const MaxEntries = 200

// Manager handles loading and saving history to TOML files
type Manager struct {
	dir string
}

type historyFile struct {
	Entries []string `toml:"entries"`
}

// DefaultDir returns ~/.local/share/sidediff/history.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "sidediff", "history"), nil
}

// NewManager creates a manager storing files in dir, creating it if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Load returns the entries stored under name, oldest first. A missing or
// corrupt file yields an empty history.
func (m *Manager) Load(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	var f historyFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return []string{}, nil
	}
	return f.Entries, nil
}

// Save writes entries under name, keeping only the newest MaxEntries.
func (m *Manager) Save(name string, entries []string) error {
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	data, err := toml.Marshal(historyFile{Entries: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.dir, name), data, 0644)
}

// Append adds entry to the end of entries, dropping an earlier duplicate
// and blank input.
func Append(entries []string, entry string) []string {
	if entry == "" {
		return entries
	}
	out := entries[:0:0]
	for _, e := range entries {
		if e != entry {
			out = append(out, e)
		}
	}
	return append(out, entry)
}
