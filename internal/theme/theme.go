package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Pane colors
	Text       tcell.Color
	Background tcell.Color
	LineNumber tcell.Color
	Divider    tcell.Color

	// Diff colors
	LineAddedBg    tcell.Color
	LineDeletedBg  tcell.Color
	InnerAddedBg   tcell.Color
	InnerDeletedBg tcell.Color
	Filler         tcell.Color
	RegionBar      tcell.Color
	RegionBarBg    tcell.Color

	// Command line colors
	CommandPrompt tcell.Color
	CommandText   tcell.Color

	// Help overlay colors
	HelpBackground tcell.Color
	HelpBorder     tcell.Color
	HelpTitle      tcell.Color
	HelpContent    tcell.Color

	// Status line colors
	StatusMode    tcell.Color
	StatusMessage tcell.Color
	StatusStale   tcell.Color

	// Header colors
	HeaderTitle tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a theme using terminal defaults with basic diff colors
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Text:           tcell.ColorDefault,
			Background:     tcell.ColorDefault,
			LineNumber:     tcell.ColorGray,
			Divider:        tcell.ColorGray,
			LineAddedBg:    tcell.ColorDarkGreen,
			LineDeletedBg:  tcell.ColorDarkRed,
			InnerAddedBg:   tcell.ColorGreen,
			InnerDeletedBg: tcell.ColorRed,
			Filler:         tcell.ColorGray,
			RegionBar:      tcell.ColorDefault,
			RegionBarBg:    tcell.ColorDefault,
			CommandPrompt:  tcell.ColorDefault,
			CommandText:    tcell.ColorDefault,
			HelpBackground: tcell.ColorDefault,
			HelpBorder:     tcell.ColorDefault,
			HelpTitle:      tcell.ColorDefault,
			HelpContent:    tcell.ColorDefault,
			StatusMode:     tcell.ColorDefault,
			StatusMessage:  tcell.ColorDefault,
			StatusStale:    tcell.ColorYellow,
			HeaderTitle:    tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	bg := "#1a1b26"
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			Text:           HexToColor("#c0caf5"), // Light gray-blue
			Background:     HexToColor(bg),
			LineNumber:     HexToColor("#3b4261"),
			Divider:        HexToColor("#565f89"), // Comment gray
			LineAddedBg:    Blend(bg, "#9ece6a", 0.15),
			LineDeletedBg:  Blend(bg, "#f7768e", 0.15),
			InnerAddedBg:   Blend(bg, "#9ece6a", 0.35),
			InnerDeletedBg: Blend(bg, "#f7768e", 0.35),
			Filler:         HexToColor("#292e42"),
			RegionBar:      HexToColor("#7dcfff"), // Cyan
			RegionBarBg:    HexToColor("#24283b"),
			CommandPrompt:  HexToColor("#bb9af7"), // Magenta
			CommandText:    HexToColor("#c0caf5"),
			HelpBackground: HexToColor(bg),
			HelpBorder:     HexToColor("#7dcfff"),
			HelpTitle:      HexToColor("#bb9af7"),
			HelpContent:    HexToColor("#c0caf5"),
			StatusMode:     HexToColor("#bb9af7"),
			StatusMessage:  HexToColor("#9ece6a"), // Green
			StatusStale:    HexToColor("#e0af68"), // Yellow
			HeaderTitle:    HexToColor("#bb9af7"),
		},
	}
}
