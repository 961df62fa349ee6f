package config

import (
	"os"
	"path/filepath"
)

const appName = "speedtype"

// xdgHome resolves an XDG base directory. Relative values are ignored in
// favour of $HOME/<fallback>.
func xdgHome(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" && filepath.IsAbs(v) {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// XDGConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func XDGConfigHome() string { return xdgHome("XDG_CONFIG_HOME", ".config") }

// XDGDataHome returns $XDG_DATA_HOME or ~/.local/share.
func XDGDataHome() string { return xdgHome("XDG_DATA_HOME", ".local", "share") }

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
