package ui

import "fmt"

// HelpEntry is one line of the help overlay
type HelpEntry struct {
	Keys        string
	Description string
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible  bool
	title    string
	sections []helpSection
}

type helpSection struct {
	title   string
	entries []HelpEntry
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{title: " Help (? to close) "}
}

// SetTitle replaces the title drawn in the top border
func (h *HelpScreen) SetTitle(title string) {
	h.title = " " + title + " "
}

// AddSection appends a titled group of entries
func (h *HelpScreen) AddSection(title string, entries []HelpEntry) {
	h.sections = append(h.sections, helpSection{title: title, entries: entries})
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// Hide closes the help screen
func (h *HelpScreen) Hide() {
	h.visible = false
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Lines returns the formatted help text
func (h *HelpScreen) Lines() []string {
	keyWidth := 0
	for _, s := range h.sections {
		for _, e := range s.entries {
			keyWidth = max(keyWidth, len(e.Keys))
		}
	}

	var result []string
	for i, s := range h.sections {
		if i > 0 {
			result = append(result, "")
		}
		result = append(result, s.title+":")
		for _, e := range s.entries {
			result = append(result, fmt.Sprintf("  %-*s  %s", keyWidth, e.Keys, e.Description))
		}
	}
	return result
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	contentStyle := screen.HelpStyle()
	borderStyle := screen.HelpBorderStyle()
	width, height := screen.Size()

	for y := 0; y < height; y++ {
		screen.Fill(0, y, width, ' ', contentStyle)
	}

	startX, startY := 5, 2
	boxWidth := width - 10
	boxHeight := height - 4
	if boxWidth < 20 || boxHeight < 5 {
		return
	}

	drawBox(screen, startX, startY, boxWidth, boxHeight, borderStyle)
	screen.DrawStringLimited(startX+2, startY, h.title, boxWidth-4, screen.HelpTitleStyle())

	y := startY + 1
	for _, line := range h.Lines() {
		if y >= startY+boxHeight-1 {
			break
		}
		screen.DrawStringLimited(startX+2, y, line, boxWidth-4, contentStyle)
		y++
	}
}
