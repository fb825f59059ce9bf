// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that overrides the config path.
const EnvConfigPath = "SIMONSAYS_CONFIG"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the TOML config path, honouring SIMONSAYS_CONFIG.
func DefaultConfigPath() string {
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), "simonsays", "config.toml")
}
