package ui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sidediff/internal/diff"
	"github.com/pstuifzand/sidediff/internal/diffmodel"
	"github.com/pstuifzand/sidediff/internal/editor"
	"github.com/pstuifzand/sidediff/internal/model"
	"github.com/pstuifzand/sidediff/internal/theme"
)

func newSimScreen(t *testing.T, width, height int) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim, theme.TokyoNight())
	require.NoError(t, err)
	sim.SetSize(width, height)
	t.Cleanup(func() { screen.Close() })
	return screen, sim
}

func newTestEditor(t *testing.T, original, modified string) *editor.Editor {
	t.Helper()
	loop := make(chan func(), 64)
	opts := editor.DefaultOptions()
	opts.WordWrap = false
	opts.HideUnchangedRegions = false

	e := editor.New(
		model.NewDocument("/tmp/a.txt", original),
		model.NewDocument("/tmp/b.txt", modified),
		diff.NewLinesProvider(diff.AlgorithmAdvanced), opts, zerolog.Nop(),
		diffmodel.WithDebounce(0),
		diffmodel.WithExecutor(func(fn func()) { loop <- fn }),
	)
	t.Cleanup(e.Dispose)

	deadline := time.After(2 * time.Second)
	for !e.IsDiffUpToDate() {
		select {
		case fn := <-loop:
			fn()
		case <-deadline:
			t.Fatal("timed out waiting for the diff")
		}
	}
	return e
}

func rowString(sim tcell.SimulationScreen, y, from, to int) string {
	var out []rune
	for x := from; x < to; x++ {
		r, _, _, _ := sim.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func background(sim tcell.SimulationScreen, x, y int) tcell.Color {
	_, _, style, _ := sim.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestSideBySideView_Render(t *testing.T) {
	screen, sim := newSimScreen(t, 40, 6)
	e := newTestEditor(t, "a\nb\nc", "a\nB\nc\nd")
	e.Layout(40, 5)

	NewSideBySideView(e).Render(screen, 0, 5)
	colors := screen.Theme.Colors

	assert.Equal(t, " a.txt", rowString(sim, 0, 0, 6))
	assert.Equal(t, " b.txt", rowString(sim, 0, 21, 27))

	// Gutter is one digit, a marker and a space; the divider sits at x=20.
	assert.Equal(t, "1  a", rowString(sim, 1, 0, 4))
	assert.Equal(t, "2- b", rowString(sim, 2, 0, 4))
	assert.Equal(t, "2+ B", rowString(sim, 2, 21, 25))
	assert.Equal(t, "│", rowString(sim, 2, 20, 21))

	assert.Equal(t, colors.InnerDeletedBg, background(sim, 3, 2))
	assert.Equal(t, colors.LineDeletedBg, background(sim, 5, 2))
	assert.Equal(t, colors.InnerAddedBg, background(sim, 24, 2))
	assert.Equal(t, colors.Background, background(sim, 3, 1))

	// The insertion of d is balanced by a filler row in the original pane.
	assert.Equal(t, "╱╱╱╱", rowString(sim, 4, 0, 4))
	assert.Equal(t, "4+ d", rowString(sim, 4, 21, 25))
}

func TestSideBySideView_RegionBar(t *testing.T) {
	screen, sim := newSimScreen(t, 60, 12)

	orig := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\n15"
	mod := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\nfifteen"
	e := newTestEditor(t, orig, mod)
	e.SetHideUnchangedRegions(true)
	e.Layout(60, 11)

	NewSideBySideView(e).Render(screen, 0, 11)

	// Lines 1-11 are hidden behind one bar, followed by the context.
	assert.Contains(t, rowString(sim, 1, 0, 30), "11 lines hidden")
	assert.Equal(t, screen.Theme.Colors.RegionBarBg, background(sim, 0, 1))
	assert.Equal(t, "12  12", rowString(sim, 2, 0, 6))
	assert.Equal(t, "15+ fifteen", rowString(sim, 5, 31, 42))
}

func TestUnifiedView(t *testing.T) {
	screen, sim := newSimScreen(t, 50, 20)
	e := newTestEditor(t, "a\nb\nc", "a\nB\nc\nd")

	uv := NewUnifiedView()
	uv.Show(e.Diff(), e.Original().Document().Lines(), e.Modified().Document().Lines(), "a.txt", "b.txt")
	require.True(t, uv.IsVisible())
	uv.Render(screen)

	assert.Equal(t, "--- a.txt", rowString(sim, 4, 3, 12))
	assert.Equal(t, "@@ -2 +2 @@", rowString(sim, 6, 3, 14))

	uv.HandleKeyEvent(runeKey('j'))
	assert.Equal(t, 0, uv.ScrollOffset(), "everything fits on one page")

	uv.HandleKeyEvent(runeKey('q'))
	assert.False(t, uv.IsVisible())
}
