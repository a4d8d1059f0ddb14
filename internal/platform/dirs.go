package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the per-user configuration directory for appName.
// It falls back to an OS-specific path under the home directory.
func ConfigDir(appName string) (string, error) {
	name := dirName(appName)
	if name == "" {
		return "", errors.New("config dir: app name is empty")
	}

	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, name), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return filepath.Join(fallbackConfigDir(homeDir), name), nil
}

// DataDir returns the directory timer snapshots are written to by default.
func DataDir(appName string) (string, error) {
	configDir, err := ConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "data"), nil
}

func dirName(appName string) string {
	name := strings.TrimSpace(appName)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
