// Package sash positions the divider between the two panes.
package sash

import (
	"math"

	"github.com/pstuifzand/sidediff/internal/observable"
)

const (
	// DefaultRatio puts the divider in the middle.
	DefaultRatio = 0.5
	// MinPaneWidth is the narrowest a pane may become, in columns.
	MinPaneWidth = 10
)

// Sash is the divider. Its position is kept as a ratio of the total width
// so it survives terminal resizes.
type Sash struct {
	defaultRatio float64
	ratio        float64
	enabled      bool

	width    int
	position int

	changed *observable.Signal
}

// New creates a sash. A disabled sash always sits at the midpoint.
func New(defaultRatio float64, enabled bool) *Sash {
	if defaultRatio <= 0 || defaultRatio >= 1 {
		defaultRatio = DefaultRatio
	}
	return &Sash{
		defaultRatio: defaultRatio,
		enabled:      enabled,
		changed:      observable.NewSignal(),
	}
}

// Layout returns the column the divider sits at for a total width.
func (s *Sash) Layout(width int) int {
	s.width = width
	s.position = s.positionFor(s.currentRatio(), width)
	return s.position
}

func (s *Sash) currentRatio() float64 {
	if s.ratio > 0 {
		return s.ratio
	}
	return s.defaultRatio
}

func (s *Sash) positionFor(ratio float64, width int) int {
	midPoint := int(math.Floor(s.defaultRatio * float64(width)))
	if !s.enabled {
		return midPoint
	}

	// The epsilon keeps a ratio derived from a position mapping back to it.
	pos := int(math.Floor(ratio*float64(width) + 1e-9))
	if pos == 0 {
		pos = midPoint
	}

	if width <= MinPaneWidth*2 {
		return midPoint
	}
	return max(MinPaneWidth, min(pos, width-MinPaneWidth))
}

// Ratio returns the effective ratio
func (s *Sash) Ratio() float64 {
	return s.currentRatio()
}

// Enabled reports whether the divider can be moved
func (s *Sash) Enabled() bool {
	return s.enabled
}

// SetEnabled allows or forbids moving the divider
func (s *Sash) SetEnabled(enabled bool) {
	if s.enabled == enabled {
		return
	}
	s.enabled = enabled
	s.changed.Trigger(nil)
}

// SetRatio moves the divider to ratio of the width. The resulting position
// is clamped to keep both panes at least MinPaneWidth wide, and the ratio is
// recomputed from it.
func (s *Sash) SetRatio(ratio float64) {
	if !s.enabled {
		return
	}
	if s.width <= 0 {
		s.ratio = ratio
		s.changed.Trigger(nil)
		return
	}
	pos := s.positionFor(ratio, s.width)
	s.position = pos
	s.ratio = float64(pos) / float64(s.width)
	s.changed.Trigger(nil)
}

// MoveBy moves the divider by delta columns
func (s *Sash) MoveBy(delta int) {
	if s.width <= 0 {
		return
	}
	s.SetRatio(float64(s.position+delta) / float64(s.width))
}

// Reset restores the default ratio
func (s *Sash) Reset() {
	s.ratio = s.defaultRatio
	s.changed.Trigger(nil)
}

// Changed fires when the ratio or enabled state changes
func (s *Sash) Changed() observable.Observable {
	return s.changed
}
