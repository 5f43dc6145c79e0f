package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string `toml:"name"`
	Colors struct {
		Text           string `toml:"text"`
		Background     string `toml:"background"`
		LineNumber     string `toml:"line_number"`
		Divider        string `toml:"divider"`
		LineAddedBg    string `toml:"line_added_bg"`
		LineDeletedBg  string `toml:"line_deleted_bg"`
		InnerAddedBg   string `toml:"inner_added_bg"`
		InnerDeletedBg string `toml:"inner_deleted_bg"`
		Filler         string `toml:"filler"`
		RegionBar      string `toml:"region_bar"`
		RegionBarBg    string `toml:"region_bar_bg"`
		CommandPrompt  string `toml:"command_prompt"`
		CommandText    string `toml:"command_text"`
		HelpBackground string `toml:"help_background"`
		HelpBorder     string `toml:"help_border"`
		HelpTitle      string `toml:"help_title"`
		HelpContent    string `toml:"help_content"`
		StatusMode     string `toml:"status_mode"`
		StatusMessage  string `toml:"status_message"`
		StatusStale    string `toml:"status_stale"`
		HeaderTitle    string `toml:"header_title"`
	} `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "sidediff", "themes"),
		filepath.Join(home, ".local", "share", "sidediff", "themes"),
	}
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo
// Night for missing colors. Inner-change colors not given explicitly are
// derived from the configured background and line colors.
func configToTheme(config ThemeConfig) *Theme {
	t := TokyoNight()
	c := &config.Colors

	overrides := []struct {
		value  string
		target *tcell.Color
	}{
		{c.Text, &t.Colors.Text},
		{c.Background, &t.Colors.Background},
		{c.LineNumber, &t.Colors.LineNumber},
		{c.Divider, &t.Colors.Divider},
		{c.LineAddedBg, &t.Colors.LineAddedBg},
		{c.LineDeletedBg, &t.Colors.LineDeletedBg},
		{c.InnerAddedBg, &t.Colors.InnerAddedBg},
		{c.InnerDeletedBg, &t.Colors.InnerDeletedBg},
		{c.Filler, &t.Colors.Filler},
		{c.RegionBar, &t.Colors.RegionBar},
		{c.RegionBarBg, &t.Colors.RegionBarBg},
		{c.CommandPrompt, &t.Colors.CommandPrompt},
		{c.CommandText, &t.Colors.CommandText},
		{c.HelpBackground, &t.Colors.HelpBackground},
		{c.HelpBorder, &t.Colors.HelpBorder},
		{c.HelpTitle, &t.Colors.HelpTitle},
		{c.HelpContent, &t.Colors.HelpContent},
		{c.StatusMode, &t.Colors.StatusMode},
		{c.StatusMessage, &t.Colors.StatusMessage},
		{c.StatusStale, &t.Colors.StatusStale},
		{c.HeaderTitle, &t.Colors.HeaderTitle},
	}
	for _, o := range overrides {
		if o.value != "" {
			*o.target = ParseColorString(o.value)
		}
	}

	if c.Background != "" {
		if c.InnerAddedBg == "" && c.LineAddedBg != "" {
			t.Colors.InnerAddedBg = Blend(c.Background, c.LineAddedBg, 0.6)
		}
		if c.InnerDeletedBg == "" && c.LineDeletedBg != "" {
			t.Colors.InnerDeletedBg = Blend(c.Background, c.LineDeletedBg, 0.6)
		}
	}

	if config.Name != "" {
		t.Name = config.Name
	}

	return t
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}

	return theme
}
