package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns the configuration file path using kubectl-style
// behavior. It first checks the XLVIEW_CONFIG environment variable, then
// falls back to the default location (~/.config/xlview/config.toml).
func GetConfigPath() (string, error) {
	// Check for environment variable override
	if configPath := os.Getenv("XLVIEW_CONFIG"); configPath != "" {
		return configPath, nil
	}

	// Prefer the XDG-style location under the home directory.
	if homeDir, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(homeDir, ".config", "xlview", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	// Fall back to the OS-specific config directory.
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "xlview", "config.toml"), nil
}
