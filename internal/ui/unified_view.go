package ui

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/sidediff/internal/diff"
)

// UnifiedView is an overlay listing the diff as unified hunks
type UnifiedView struct {
	visible      bool
	lines        []diff.DiffLine
	scrollOffset int
	pageHeight   int
	title        string
}

// NewUnifiedView creates a hidden unified view
func NewUnifiedView() *UnifiedView {
	return &UnifiedView{}
}

// Show displays result, reading line text from original and modified
func (uv *UnifiedView) Show(result *diff.Result, original, modified []string, originalName, modifiedName string) {
	uv.lines = diff.BuildDiffLines(result, original, modified, originalName, modifiedName)
	uv.title = fmt.Sprintf(" Diff: %s → %s ", filepath.Base(originalName), filepath.Base(modifiedName))
	uv.scrollOffset = 0
	uv.visible = true
}

// Hide closes the view
func (uv *UnifiedView) Hide() {
	uv.visible = false
}

// IsVisible returns whether the view is currently visible
func (uv *UnifiedView) IsVisible() bool {
	return uv.visible
}

// Lines returns the formatted lines on display
func (uv *UnifiedView) Lines() []diff.DiffLine {
	return uv.lines
}

// ScrollOffset returns the index of the first line shown
func (uv *UnifiedView) ScrollOffset() int {
	return uv.scrollOffset
}

// HandleKeyEvent processes keyboard input while the view is open
func (uv *UnifiedView) HandleKeyEvent(ev *tcell.EventKey) {
	if !uv.visible {
		return
	}

	page := max(uv.pageHeight/2, 1)
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		uv.Hide()
	case tcell.KeyUp:
		uv.scroll(-1)
	case tcell.KeyDown:
		uv.scroll(1)
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		uv.scroll(-page)
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		uv.scroll(page)
	case tcell.KeyHome:
		uv.scrollOffset = 0
	case tcell.KeyEnd:
		uv.scrollOffset = uv.maxScroll()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'u':
			uv.Hide()
		case 'j':
			uv.scroll(1)
		case 'k':
			uv.scroll(-1)
		}
	}
}

func (uv *UnifiedView) maxScroll() int {
	return max(len(uv.lines)-uv.pageHeight, 0)
}

func (uv *UnifiedView) scroll(delta int) {
	uv.scrollOffset = max(0, min(uv.scrollOffset+delta, uv.maxScroll()))
}

// Render draws the overlay in a box inset from the screen edges
func (uv *UnifiedView) Render(screen *Screen) {
	if !uv.visible {
		return
	}

	width, height := screen.Size()
	boxWidth := width - 4
	boxHeight := height - 4
	startX, startY := 2, 2
	if boxWidth < 20 || boxHeight < 5 {
		return
	}
	uv.pageHeight = boxHeight - 4

	bg := screen.HelpStyle()
	for y := startY; y < startY+boxHeight; y++ {
		screen.Fill(startX, y, boxWidth, ' ', bg)
	}
	drawBox(screen, startX, startY, boxWidth, boxHeight, screen.HelpBorderStyle())
	screen.DrawStringLimited(startX+1, startY, uv.title, boxWidth-2, screen.HelpTitleStyle())

	contentY := startY + 2
	end := min(uv.scrollOffset+uv.pageHeight, len(uv.lines))
	for i := uv.scrollOffset; i < end; i++ {
		line := uv.lines[i]
		screen.DrawStringLimited(startX+1, contentY+i-uv.scrollOffset, line.Content, boxWidth-2, uv.styleFor(screen, line.Type))
	}

	footer := " j/k: scroll | Ctrl+U/D: page | q/Esc: close "
	screen.DrawStringLimited(startX+1, startY+boxHeight-1, footer, boxWidth-2, screen.HelpBorderStyle())
}

func (uv *UnifiedView) styleFor(screen *Screen, t diff.DiffLineType) tcell.Style {
	switch t {
	case diff.DiffTypeHeader, diff.DiffTypeSummary:
		return screen.HelpTitleStyle()
	case diff.DiffTypeHunk:
		return screen.HelpBorderStyle()
	case diff.DiffTypeDeleted:
		return screen.LineDeletedStyle()
	case diff.DiffTypeAdded:
		return screen.LineAddedStyle()
	default:
		return screen.HelpStyle()
	}
}

// drawBox draws a simple box border
func drawBox(screen *Screen, x, y, width, height int, style tcell.Style) {
	screen.SetCell(x, y, '┌', style)
	screen.Fill(x+1, y, width-2, '─', style)
	screen.SetCell(x+width-1, y, '┐', style)

	screen.SetCell(x, y+height-1, '└', style)
	screen.Fill(x+1, y+height-1, width-2, '─', style)
	screen.SetCell(x+width-1, y+height-1, '┘', style)

	for i := 1; i < height-1; i++ {
		screen.SetCell(x, y+i, '│', style)
		screen.SetCell(x+width-1, y+i, '│', style)
	}
}
