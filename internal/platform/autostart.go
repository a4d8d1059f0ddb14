package platform

import (
	"errors"
	"fmt"
)

// SetAutostart registers execPath to launch at login, or removes the entry.
func SetAutostart(appName, execPath string, enabled bool) error {
	if enabled {
		return EnableAutostart(appName, execPath)
	}
	return DisableAutostart(appName)
}

// EnableAutostart registers execPath to launch when the user logs in.
func EnableAutostart(appName, execPath string) error {
	name := dirName(appName)
	if name == "" {
		return errors.New("enable autostart: app name is empty")
	}
	if execPath == "" {
		return errors.New("enable autostart: exec path is empty")
	}
	if err := enableAutostart(name, execPath); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

// DisableAutostart removes the login entry. A missing entry is not an error.
func DisableAutostart(appName string) error {
	name := dirName(appName)
	if name == "" {
		return errors.New("disable autostart: app name is empty")
	}
	if err := disableAutostart(name); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

// AutostartEnabled reports whether a login entry exists for appName.
func AutostartEnabled(appName string) (bool, error) {
	name := dirName(appName)
	if name == "" {
		return false, errors.New("autostart: app name is empty")
	}
	return autostartEnabled(name)
}
