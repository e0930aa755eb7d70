// Package config provides configuration storage for the steward CLI:
// the global configuration directory, the project root marker, and the
// team/workflow configuration records written by 'steward customize'.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the steward configuration directory.
//
// Resolution:
//   - $STEWARD_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/steward if set (respects XDG on any platform)
//   - %AppData%/steward on Windows
//   - ~/.config/steward on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("STEWARD_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "steward")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "steward")
		}
	}

	// macOS and Linux: ~/.config/steward
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "steward")
}
