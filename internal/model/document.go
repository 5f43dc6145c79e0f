// Package model contains the text documents compared by the diff view
package model

import (
	"strings"
	"sync"

	"github.com/pstuifzand/sidediff/internal/observable"
)

// Document is an in-memory text document split into lines. Every edit bumps
// the content version and fires the content-changed signal.
type Document struct {
	mu      sync.RWMutex
	name    string
	lines   []string
	version int
	changed *observable.Signal
}

// Snapshot is an immutable copy of a document's content at one version.
type Snapshot struct {
	Name    string
	Version int
	lines   []string
}

// NewDocument creates a document with the given display name and text.
func NewDocument(name, text string) *Document {
	return &Document{
		name:    name,
		lines:   SplitLines(text),
		version: 1,
		changed: observable.NewSignal(),
	}
}

// SplitLines splits text into lines. A trailing newline yields a final empty
// line and carriage returns before newlines are dropped, so "a\r\nb\n" has
// the three lines "a", "b" and "".
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Name returns the display name (usually the file path).
func (d *Document) Name() string {
	return d.name
}

// Version returns the content version. It increases with every edit.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// LineCount returns the number of lines; never less than 1.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// Line returns the content of the 1-based line, or "" when out of range.
func (d *Document) Line(lineNumber int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if lineNumber < 1 || lineNumber > len(d.lines) {
		return ""
	}
	return d.lines[lineNumber-1]
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.lines...)
}

// Text joins the lines with "\n".
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.lines, "\n")
}

// SetText replaces the whole content.
func (d *Document) SetText(text string) {
	d.mu.Lock()
	d.lines = SplitLines(text)
	d.version++
	d.mu.Unlock()
	d.changed.Trigger(nil)
}

// ReplaceLines replaces the lines in [start, endExclusive) with newLines.
// The range is clamped to the document.
func (d *Document) ReplaceLines(start, endExclusive int, newLines []string) {
	d.mu.Lock()
	start = clamp(start, 1, len(d.lines)+1)
	endExclusive = clamp(endExclusive, start, len(d.lines)+1)

	updated := make([]string, 0, len(d.lines)-(endExclusive-start)+len(newLines))
	updated = append(updated, d.lines[:start-1]...)
	updated = append(updated, newLines...)
	updated = append(updated, d.lines[endExclusive-1:]...)
	if len(updated) == 0 {
		updated = []string{""}
	}
	d.lines = updated
	d.version++
	d.mu.Unlock()
	d.changed.Trigger(nil)
}

// OnDidChangeContent registers fn to run after every edit.
func (d *Document) OnDidChangeContent(fn func()) (unsubscribe func()) {
	return d.changed.Subscribe(fn)
}

// ContentChanged exposes the change signal for dependency tracking.
func (d *Document) ContentChanged() observable.Observable {
	return d.changed
}

// Snapshot copies the current content.
func (d *Document) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &Snapshot{
		Name:    d.name,
		Version: d.version,
		lines:   append([]string(nil), d.lines...),
	}
}

// Lines returns the snapshot's lines. The slice must not be modified.
func (s *Snapshot) Lines() []string {
	return s.lines
}

// LineCount returns the number of lines in the snapshot.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
