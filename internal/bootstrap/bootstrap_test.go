package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timerdeck/internal/core/model"
	"timerdeck/internal/platform"
	"timerdeck/internal/ui/preferences"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartWithFileBackendRestoresTimers(t *testing.T) {
	ctx := context.Background()
	settings := preferences.DefaultSettings()
	settings.DataDir = t.TempDir()
	settings.TickInterval = time.Hour

	runtime, err := Start(ctx, settings, quietLogger(), nil)
	require.NoError(t, err)

	_, err = platform.AcquireSingleInstance(AppName)
	assert.ErrorIs(t, err, platform.ErrAlreadyRunning, "file runs hold the instance lock")

	timer, err := runtime.Keeper.AddTimer("Tea", 300, "Kitchen", true)
	require.NoError(t, err)
	require.NoError(t, runtime.Close(ctx))

	again, err := Start(ctx, settings, quietLogger(), nil)
	require.NoError(t, err)
	defer again.Close(ctx)

	restored, err := again.Keeper.GetTimer(timer.ID)
	require.NoError(t, err)
	assert.Equal(t, timer, restored)
}

func TestStartWithMemoryBackend(t *testing.T) {
	ctx := context.Background()
	settings := preferences.DefaultSettings()
	settings.Backend = preferences.BackendMemory

	runtime, err := Start(ctx, settings, quietLogger(), nil)
	require.NoError(t, err)
	defer runtime.Close(ctx)

	assert.Empty(t, runtime.Keeper.ListAll())
	_, err = runtime.Keeper.AddTimer("Tea", 300, "Kitchen", false)
	require.NoError(t, err)
}

func TestStartFallsBackWhenStoredDataIsUnreadable(t *testing.T) {
	ctx := context.Background()
	settings := preferences.DefaultSettings()
	settings.Backend = preferences.BackendPostgres
	settings.DatabaseURL = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	runtime, err := Start(ctx, settings, logger, nil)
	require.NoError(t, err)
	defer runtime.Close(ctx)

	_, err = runtime.Keeper.AddTimer("Tea", 300, "Kitchen", false)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "running without persistence")
}

func TestStartRejectsUnknownBackend(t *testing.T) {
	settings := preferences.DefaultSettings()
	settings.Backend = "floppy"
	settings.DataDir = t.TempDir()

	_, err := Start(context.Background(), settings, quietLogger(), nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrStorageUnavailable)
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	settings := preferences.DefaultSettings()
	settings.LogLevel = "warn"
	logger := NewLogger(&buf, settings)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
