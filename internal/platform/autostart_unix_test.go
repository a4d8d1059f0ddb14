//go:build !darwin && !windows

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutostartDesktopEntry(t *testing.T) {
	configHome := filepath.Join(t.TempDir(), "xdg")
	t.Setenv("XDG_CONFIG_HOME", configHome)

	enabled, err := AutostartEnabled("Timer Deck")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, SetAutostart("Timer Deck", "/opt/timer deck/timerdeck", true))
	enabled, err = AutostartEnabled("Timer Deck")
	require.NoError(t, err)
	assert.True(t, enabled)

	entry, err := os.ReadFile(filepath.Join(configHome, "autostart", "timer-deck.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(entry), `Exec="/opt/timer deck/timerdeck"`)
	assert.Contains(t, string(entry), "Name=timer-deck")

	require.NoError(t, SetAutostart("Timer Deck", "", false))
	require.NoError(t, DisableAutostart("Timer Deck"), "removing twice is fine")
	enabled, err = AutostartEnabled("Timer Deck")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestAutostartRejectsEmptyInput(t *testing.T) {
	assert.Error(t, EnableAutostart(" ", "/bin/timerdeck"))
	assert.Error(t, EnableAutostart("timerdeck", ""))
	assert.Error(t, DisableAutostart(""))
}
