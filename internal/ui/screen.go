package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/sidediff/internal/theme"
	"github.com/pstuifzand/sidediff/internal/wrap"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	Theme       *theme.Theme
}

// NewScreen creates and initialises a terminal screen using t
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom wraps an existing tcell screen, initialising it. Tests pass
// a tcell.SimulationScreen here.
func NewScreenFrom(ts tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := ts.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.TokyoNight()
	}
	return &Screen{tcellScreen: ts, Theme: t}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear fills the screen with the background style
func (s *Screen) Clear() {
	s.tcellScreen.SetStyle(s.BackgroundStyle())
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	w, h := s.Size()
	if x >= 0 && x < w && y >= 0 && y < h {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws text at x, y and returns the column after it. Wide
// runes take two cells.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetCell(x, y, r, style)
		x += max(wrap.RuneWidth(r), 1)
	}
	return x
}

// DrawStringLimited draws text truncated to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	return s.DrawString(x, y, wrap.TruncateToWidth(text, maxWidth), style)
}

// Fill paints width cells starting at x with r
func (s *Screen) Fill(x, y, width int, r rune, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetCell(x+i, y, r, style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// PostEvent queues ev for PollEvent
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.tcellScreen.PostEvent(ev)
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync redraws the whole terminal, used after a resize
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	return s.tcellScreen.Size()
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	w, _ := s.Size()
	return w
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, h := s.Size()
	return h
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse()
}

// StyleBold returns a bold style
func StyleBold() tcell.Style {
	return tcell.StyleDefault.Bold(true)
}

// Theme-aware style methods

// BackgroundStyle returns the default background style for the application
func (s *Screen) BackgroundStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Text, s.Theme.Colors.Background)
}

// TextStyle returns the style for unchanged text
func (s *Screen) TextStyle() tcell.Style {
	return s.BackgroundStyle()
}

// LineNumberStyle returns the style for the gutter
func (s *Screen) LineNumberStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.LineNumber, s.Theme.Colors.Background)
}

// DividerStyle returns the style for the column between the panes
func (s *Screen) DividerStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Divider, s.Theme.Colors.Background)
}

// LineAddedStyle returns the style for inserted lines
func (s *Screen) LineAddedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Text, s.Theme.Colors.LineAddedBg)
}

// LineDeletedStyle returns the style for removed lines
func (s *Screen) LineDeletedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Text, s.Theme.Colors.LineDeletedBg)
}

// InnerAddedStyle returns the style for inserted characters
func (s *Screen) InnerAddedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Text, s.Theme.Colors.InnerAddedBg)
}

// InnerDeletedStyle returns the style for removed characters
func (s *Screen) InnerDeletedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Text, s.Theme.Colors.InnerDeletedBg)
}

// FillerStyle returns the style for alignment filler rows
func (s *Screen) FillerStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Filler, s.Theme.Colors.Background)
}

// RegionBarStyle returns the style for hidden-region bars
func (s *Screen) RegionBarStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.RegionBar, s.Theme.Colors.RegionBarBg)
}

// CommandPromptStyle returns the style for command prompt
func (s *Screen) CommandPromptStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.CommandPrompt, s.Theme.Colors.Background)
}

// CommandTextStyle returns the style for command text
func (s *Screen) CommandTextStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.CommandText, s.Theme.Colors.Background)
}

// CommandCursorStyle returns the style for command cursor
func (s *Screen) CommandCursorStyle() tcell.Style {
	return s.CommandTextStyle().Reverse(true)
}

// HelpStyle returns the style for help background
func (s *Screen) HelpStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HelpContent, s.Theme.Colors.HelpBackground)
}

// HelpBorderStyle returns the style for help borders
func (s *Screen) HelpBorderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HelpBorder, s.Theme.Colors.HelpBackground)
}

// HelpTitleStyle returns the style for help title
func (s *Screen) HelpTitleStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HelpTitle, s.Theme.Colors.HelpBackground).Bold(true)
}

// StatusModeStyle returns the style for the status line indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusMode, s.Theme.Colors.Background).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusMessage, s.Theme.Colors.Background)
}

// StatusStaleStyle returns the style shown while the diff is out of date
func (s *Screen) StatusStaleStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusStale, s.Theme.Colors.Background).Bold(true)
}

// HeaderStyle returns the style for header title
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HeaderTitle, s.Theme.Colors.Background).Bold(true)
}
