//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func enableAutostart(name, execPath string) error {
	quoted := fmt.Sprintf(`"%s"`, strings.Trim(execPath, `"`))
	output, err := exec.Command("reg", "add", registryRunKey, "/v", name, "/t", "REG_SZ", "/d", quoted, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func disableAutostart(name string) error {
	enabled, err := autostartEnabled(name)
	if err != nil || !enabled {
		return err
	}
	output, err := exec.Command("reg", "delete", registryRunKey, "/v", name, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// autostartEnabled treats a failed query as a missing value.
func autostartEnabled(name string) (bool, error) {
	err := exec.Command("reg", "query", registryRunKey, "/v", name).Run()
	return err == nil, nil
}
