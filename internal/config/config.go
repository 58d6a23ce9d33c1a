// Package config loads the application configuration from a TOML file.
//
// The file lives at ~/.config/xlview/config.toml by default; the
// XLVIEW_CONFIG environment variable overrides the location. A missing file
// is not an error: defaults apply.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration.
type Config struct {
	Theme       ThemeConfig       `toml:"theme"`
	UI          UIConfig          `toml:"ui"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	// Warnings contains any warnings generated during config loading.
	Warnings []string `toml:"-"`
}

// ThemeConfig selects the starting theme.
type ThemeConfig struct {
	// Default is the theme name used on startup (case-insensitive).
	Default string `toml:"default"`
}

// UIConfig holds display tunables.
type UIConfig struct {
	// MaxRows limits the non-interactive display (0 = all rows).
	MaxRows int `toml:"max_rows"`
	// ColumnWidth is the maximum rendered column width in characters.
	ColumnWidth int `toml:"column_width"`
	// WindowThreshold is the body row count above which a sheet loads
	// through the windowed strategy (0 = built-in default).
	WindowThreshold int `toml:"window_threshold"`
}

// KeybindingsConfig selects a keybinding profile plus per-action overrides.
type KeybindingsConfig struct {
	// Profile names the base profile: "default" or "vim".
	Profile string `toml:"profile"`
	// Custom maps action names to chord strings, overriding the profile.
	Custom map[string]string `toml:"custom"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Theme: ThemeConfig{Default: "Default"},
		UI: UIConfig{
			MaxRows:     50,
			ColumnWidth: 30,
		},
		Keybindings: KeybindingsConfig{
			Profile: "default",
			Custom:  make(map[string]string),
		},
	}
}

// Load loads configuration from path, or from the default location when
// path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from the specified file path. A missing
// file yields the default configuration.
func LoadFromPath(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg, err := LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader loads configuration from an io.Reader. Unknown keys are
// collected as warnings rather than rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := New()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	for _, key := range md.Undecoded() {
		cfg.addWarning("unknown config option: %s", key)
	}
	return cfg, nil
}

func (c *Config) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Config] " + msg)
}

// HasWarnings returns true if there are any warnings.
func (c *Config) HasWarnings() bool {
	return len(c.Warnings) > 0
}
