package preferences

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeKeeperConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.TickInterval = 250 * time.Millisecond
	settings.ResumeRunning = false

	config := settings.TimeKeeperConfig()
	assert.Equal(t, 250*time.Millisecond, config.TickInterval)
	assert.Equal(t, 5*time.Second, config.SaveTimeout)
	assert.False(t, config.ResumeRunning)

	settings.TickInterval = 0
	assert.Equal(t, time.Second, settings.TimeKeeperConfig().TickInterval)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TIMERDECK_BACKEND", BackendPostgres)
	t.Setenv("TIMERDECK_CODEC", "cbor")
	t.Setenv("TIMERDECK_DATABASE_URL", "postgres://localhost/timers")
	t.Setenv("TIMERDECK_TICK_INTERVAL", "500ms")
	t.Setenv("TIMERDECK_RESUME_RUNNING", "false")
	t.Setenv("TIMERDECK_LOG_LEVEL", "debug")
	t.Setenv("TIMERDECK_SOUND", "0")

	settings := ApplyEnv(DefaultSettings())
	assert.Equal(t, BackendPostgres, settings.Backend)
	assert.Equal(t, "cbor", settings.Codec)
	assert.Equal(t, "postgres://localhost/timers", settings.DatabaseURL)
	assert.Equal(t, 500*time.Millisecond, settings.TickInterval)
	assert.False(t, settings.ResumeRunning)
	assert.False(t, settings.Sound)
	assert.Equal(t, slog.LevelDebug, settings.SlogLevel())
}

func TestApplyEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TIMERDECK_TICK_INTERVAL", "soon")
	t.Setenv("TIMERDECK_RESUME_RUNNING", "maybe")

	settings := ApplyEnv(DefaultSettings())
	assert.Equal(t, time.Second, settings.TickInterval)
	assert.True(t, settings.ResumeRunning)
	assert.Equal(t, BackendFile, settings.Backend)
}

func TestSlogLevel(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		" debug ": slog.LevelDebug,
		"verbose": slog.LevelInfo,
	} {
		assert.Equal(t, want, Settings{LogLevel: level}.SlogLevel(), level)
	}
}
