package ui

import (
	"github.com/pstuifzand/sidediff/internal/history"
)

// History is the navigable input history of the command line
type History struct {
	entries    []string
	index      int // -1 when not navigating
	maxEntries int
	pending    string // input typed before navigation started

	manager  *history.Manager
	filename string
}

// NewHistory creates an in-memory history
func NewHistory(maxEntries int) *History {
	return &History{index: -1, maxEntries: maxEntries}
}

// NewPersistentHistory creates a history loaded from and saved to filename
// through manager. A load error leaves the history empty but usable.
func NewPersistentHistory(maxEntries int, manager *history.Manager, filename string) (*History, error) {
	h := NewHistory(maxEntries)
	h.manager = manager
	h.filename = filename

	entries, err := manager.Load(filename)
	if err != nil {
		return h, err
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	h.entries = entries
	return h, nil
}

// Add records entry as the newest one and persists the history
func (h *History) Add(entry string) error {
	h.Reset()
	if entry == "" {
		return nil
	}
	h.entries = history.Append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
	if h.manager == nil {
		return nil
	}
	return h.manager.Save(h.filename, h.entries)
}

// Previous steps back in history. current is the input being edited and is
// restored when stepping forward past the newest entry.
func (h *History) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index < 0:
		h.pending = current
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	}
	return h.entries[h.index], true
}

// Next steps forward in history
func (h *History) Next() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		pending := h.pending
		h.Reset()
		return pending, true
	}
	return h.entries[h.index], true
}

// Reset stops navigating
func (h *History) Reset() {
	h.index = -1
	h.pending = ""
}

// Entries returns a copy of the entries, oldest first
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
