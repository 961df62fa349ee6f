// Package config provides configuration loading from TOML, the environment
// and XDG paths.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test        TestConfig        `toml:"test"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
}

// TestConfig maps typing-test settings.
type TestConfig struct {
	Duration *int    `toml:"duration"`
	User     *string `toml:"user"`
	WordList *string `toml:"wordlist"`
}

// LeaderboardConfig maps leaderboard defaults.
type LeaderboardConfig struct {
	Timeframe *string `toml:"timeframe"`
	Limit     *int    `toml:"limit"`
}

// ServerConfig maps the HTTP leaderboard server settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// StorageConfig maps database settings.
type StorageConfig struct {
	DBPath *string `toml:"db"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file at path and applies environment overrides.
func Load(path string) (FileConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	envCfg, err := LoadEnv()
	if err != nil {
		return FileConfig{}, err
	}
	envCfg.Apply(&cfg)
	return cfg, nil
}
