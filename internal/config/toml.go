// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game   GameConfig   `toml:"game"`
	Sensor SensorConfig `toml:"sensor"`
}

// GameConfig maps round and prompt settings.
type GameConfig struct {
	RoundSeconds *int     `toml:"round-seconds"`
	Sequence     *int     `toml:"sequence"`
	Seed         *int64   `toml:"seed"`
	FocusWeak    *bool    `toml:"focus-weak"`
	WeakTop      *int     `toml:"weak-top"`
	WeakFactor   *float64 `toml:"weak-factor"`
}

// SensorConfig maps motion source and classifier settings.
type SensorConfig struct {
	Tilt       *float64 `toml:"tilt"`
	Shake      *float64 `toml:"shake"`
	IntervalMs *int     `toml:"interval-ms"`
	Source     *string  `toml:"source"`
	ReplayFile *string  `toml:"replay-file"`
	Loop       *bool    `toml:"loop"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
