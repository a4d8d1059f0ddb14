//go:build !darwin && !windows

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func enableAutostart(name, execPath string) error {
	path, err := desktopEntryPath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(buildDesktopEntry(name, execPath)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func disableAutostart(name string) error {
	path, err := desktopEntryPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

func autostartEnabled(name string) (bool, error) {
	path, err := desktopEntryPath(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// desktopEntryPath follows the XDG autostart layout.
func desktopEntryPath(name string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		homeDir, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("get config dir: %w", homeErr)
		}
		configDir = fallbackConfigDir(homeDir)
	}
	return filepath.Join(configDir, "autostart", name+".desktop"), nil
}

func buildDesktopEntry(name, execPath string) string {
	execLine := execPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Countdown timers in the system tray
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, name, execLine)
}
