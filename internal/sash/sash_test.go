package sash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		enabled bool
		width   int
		want    int
	}{
		{"default midpoint", 0.5, true, 100, 50},
		{"custom ratio", 0.3, true, 100, 30},
		{"clamped left", 0.05, true, 100, MinPaneWidth},
		{"clamped right", 0.95, true, 100, 90},
		{"too narrow uses default ratio", 0.3, true, 20, 6},
		{"disabled uses default ratio", 0.3, false, 100, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.ratio, tt.enabled)
			assert.Equal(t, tt.want, s.Layout(tt.width))
		})
	}
}

func TestSetRatio(t *testing.T) {
	s := New(DefaultRatio, true)
	s.Layout(200)
	changes := 0
	s.Changed().Subscribe(func() { changes++ })

	s.SetRatio(0.25)
	assert.Equal(t, 50, s.Layout(200))
	assert.InDelta(t, 0.25, s.Ratio(), 1e-9)

	s.SetRatio(0.99)
	assert.Equal(t, 190, s.Layout(200))
	assert.InDelta(t, 0.95, s.Ratio(), 1e-9)

	s.MoveBy(-40)
	assert.Equal(t, 150, s.Layout(200))

	s.Reset()
	assert.Equal(t, 100, s.Layout(200))
	assert.Equal(t, 4, changes)
}

func TestSetRatioDisabled(t *testing.T) {
	s := New(DefaultRatio, false)
	s.Layout(100)
	s.SetRatio(0.2)
	assert.Equal(t, 50, s.Layout(100))

	s.SetEnabled(true)
	s.SetRatio(0.2)
	assert.Equal(t, 20, s.Layout(100))
}

func TestRatioSurvivesResize(t *testing.T) {
	s := New(DefaultRatio, true)
	s.Layout(100)
	s.SetRatio(0.4)
	assert.Equal(t, 80, s.Layout(200))
}
