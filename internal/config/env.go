package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig holds overrides read from the environment. Zero values mean unset.
type EnvConfig struct {
	User      string `env:"SPEEDTYPE_USER"`
	Duration  int    `env:"SPEEDTYPE_DURATION"`
	WordList  string `env:"SPEEDTYPE_WORDLIST"`
	DBPath    string `env:"SPEEDTYPE_DB"`
	Addr      string `env:"SPEEDTYPE_ADDR"`
	Timeframe string `env:"SPEEDTYPE_TIMEFRAME"`
	Limit     int    `env:"SPEEDTYPE_LIMIT"`
}

// LoadEnv loads a .env file from the working directory when present and
// parses SPEEDTYPE_* variables.
func LoadEnv() (EnvConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return EnvConfig{}, fmt.Errorf("failed to load .env: %w", err)
	}
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Apply overrides file values with the set environment values.
func (e EnvConfig) Apply(cfg *FileConfig) {
	setString(&cfg.Test.User, e.User)
	setInt(&cfg.Test.Duration, e.Duration)
	setString(&cfg.Test.WordList, e.WordList)
	setString(&cfg.Storage.DBPath, e.DBPath)
	setString(&cfg.Server.Addr, e.Addr)
	setString(&cfg.Leaderboard.Timeframe, e.Timeframe)
	setInt(&cfg.Leaderboard.Limit, e.Limit)
}

func setString(target **string, v string) {
	if v == "" {
		return
	}
	*target = &v
}

func setInt(target **int, v int) {
	if v == 0 {
		return
	}
	*target = &v
}
