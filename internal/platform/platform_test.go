package platform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleInstanceGuard(t *testing.T) {
	const appName = "timerdeck guard test"

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	assert.Equal(t, instanceAddress(appName), guard.Address())

	_, err = AcquireSingleInstance(appName)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release(), "release is idempotent")

	again, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("timerdeck")
	assert.Equal(t, port, portFromName("timerdeck"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestConfigAndDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("APPDATA", filepath.Join(home, "xdg"))

	configDir, err := ConfigDir("Timer Deck")
	require.NoError(t, err)
	assert.Equal(t, "timer-deck", filepath.Base(configDir))

	dataDir, err := DataDir("Timer Deck")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "data"), dataDir)

	_, err = ConfigDir("  ")
	assert.Error(t, err)
}
