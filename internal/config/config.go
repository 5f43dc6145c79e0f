package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned by Validate for out-of-range settings
var ErrInvalid = errors.New("invalid configuration")

const appName = "sidediff"

// Config holds application configuration
type Config struct {
	Theme    string            `toml:"theme"`
	Diff     DiffConfig        `toml:"diff"`
	Log      LogConfig         `toml:"log"`
	Settings map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// DiffConfig holds the diff view settings
type DiffConfig struct {
	IgnoreTrimWhitespace bool    `toml:"ignore_trim_whitespace"`
	MaxComputationTimeMs int     `toml:"max_computation_time_ms"`
	DebounceMs           int     `toml:"debounce_ms"`
	Algorithm            string  `toml:"algorithm"`
	WordWrap             bool    `toml:"word_wrap"`
	SplitRatio           float64 `toml:"split_ratio"`
	EnableSplitResizing  bool    `toml:"enable_split_resizing"`
	HideUnchangedRegions bool    `toml:"hide_unchanged_regions"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// MaxComputationTime returns the diff time limit; zero means no limit
func (d DiffConfig) MaxComputationTime() time.Duration {
	return time.Duration(d.MaxComputationTimeMs) * time.Millisecond
}

// Debounce returns the quiet period before a diff is recomputed
func (d DiffConfig) Debounce() time.Duration {
	return time.Duration(d.DebounceMs) * time.Millisecond
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file. Keys missing from the file
// keep their defaults.
func LoadFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Theme == "" {
		config.Theme = "tokyo-night"
	}
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	config.sessionSettings = make(map[string]string)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", filePath, err)
	}
	return config, nil
}

// Validate rejects settings outside their allowed range
func (c *Config) Validate() error {
	d := c.Diff
	switch {
	case d.SplitRatio <= 0 || d.SplitRatio >= 1:
		return fmt.Errorf("%w: diff.split_ratio must be between 0 and 1, got %v", ErrInvalid, d.SplitRatio)
	case d.MaxComputationTimeMs < 0:
		return fmt.Errorf("%w: diff.max_computation_time_ms must not be negative", ErrInvalid)
	case d.DebounceMs < 0:
		return fmt.Errorf("%w: diff.debounce_ms must not be negative", ErrInvalid)
	case d.Algorithm != "advanced" && d.Algorithm != "legacy":
		return fmt.Errorf("%w: unknown diff.algorithm %q", ErrInvalid, d.Algorithm)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalid, c.Log.Format)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalid)
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Theme: "tokyo-night",
		Diff: DiffConfig{
			IgnoreTrimWhitespace: true,
			MaxComputationTimeMs: 5000,
			DebounceMs:           1000,
			Algorithm:            "advanced",
			WordWrap:             true,
			SplitRatio:           0.5,
			EnableSplitResizing:  true,
			HideUnchangedRegions: true,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return defaultConfig()
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", appName), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to the TOML file
// Note: This only persists the file-backed fields, not session settings
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration to filePath
func (c *Config) SaveToFile(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
