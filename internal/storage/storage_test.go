package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timerdeck/internal/core/model"
	"timerdeck/internal/core/timekeeper"
	"timerdeck/internal/ui/preferences"
)

func sampleTimers() []model.Timer {
	return []model.Timer{
		{ID: "6f1c", Name: "Tea", Category: "Kitchen", Duration: 300, RemainingTime: 120, Status: model.StatusRunning, HalfwayAlert: true},
		{ID: "9a2b", Name: "Eggs", Category: "Kitchen", Duration: 420, RemainingTime: 420, Status: model.StatusPaused},
		{ID: "c3d4", Name: "Stretch", Category: "Desk", Duration: 60, RemainingTime: 0, Status: model.StatusCompleted, HalfwayAlert: true},
	}
}

func sampleHistory() []model.CompletedTimerRecord {
	return []model.CompletedTimerRecord{
		{Name: "Stretch", CompletionTime: time.Date(2026, 10, 17, 14, 5, 9, 123456789, time.UTC)},
		{Name: "Tea", CompletionTime: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)},
	}
}

func TestNewCodec(t *testing.T) {
	codec, err := NewCodec("")
	require.NoError(t, err)
	assert.Equal(t, CodecYAML, codec.Name())

	codec, err = NewCodec(" CBOR ")
	require.NoError(t, err)
	assert.Equal(t, CodecCBOR, codec.Name())
	assert.Equal(t, "cbor", codec.Extension())

	_, err = NewCodec("xml")
	assert.Error(t, err)
}

func TestCBORCodecIsDeterministic(t *testing.T) {
	codec, err := NewCodec(CodecCBOR)
	require.NoError(t, err)

	first, err := codec.Marshal(sampleTimers())
	require.NoError(t, err)
	second, err := codec.Marshal(sampleTimers())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileGatewayRoundTrip(t *testing.T) {
	for _, codecName := range []string{CodecYAML, CodecCBOR} {
		t.Run(codecName, func(t *testing.T) {
			ctx := context.Background()
			codec, err := NewCodec(codecName)
			require.NoError(t, err)
			gateway, err := NewFileGateway(t.TempDir(), codec)
			require.NoError(t, err)

			require.NoError(t, gateway.SaveTimers(ctx, sampleTimers()))
			require.NoError(t, gateway.SaveHistory(ctx, sampleHistory()))
			assert.FileExists(t, gateway.Path(timekeeper.KeyTimers))
			assert.Equal(t, "timers."+codec.Extension(), filepath.Base(gateway.Path(timekeeper.KeyTimers)))

			timers, err := gateway.LoadTimers(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleTimers(), timers)

			history, err := gateway.LoadHistory(ctx)
			require.NoError(t, err)
			require.Len(t, history, 2)
			for i, record := range sampleHistory() {
				assert.Equal(t, record.Name, history[i].Name)
				assert.True(t, record.CompletionTime.Equal(history[i].CompletionTime), "record %d", i)
			}

			require.NoError(t, gateway.SaveTimers(ctx, sampleTimers()[:1]))
			timers, err = gateway.LoadTimers(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleTimers()[:1], timers, "last write wins")
		})
	}
}

func TestFileGatewayMissingFilesLoadEmpty(t *testing.T) {
	gateway, err := NewFileGateway(t.TempDir(), nil)
	require.NoError(t, err)

	timers, err := gateway.LoadTimers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, timers)

	history, err := gateway.LoadHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestFileGatewayLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	gateway, err := NewFileGateway(dir, nil)
	require.NoError(t, err)
	require.NoError(t, gateway.SaveTimers(context.Background(), sampleTimers()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "timers.yaml", entries[0].Name())
}

func TestFileGatewayCorruptFile(t *testing.T) {
	gateway, err := NewFileGateway(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(gateway.Path(timekeeper.KeyTimers), []byte("{not: [valid"), 0o644))

	_, err = gateway.LoadTimers(context.Background())
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
}

func TestFileGatewayCanceledContext(t *testing.T) {
	gateway, err := NewFileGateway(t.TempDir(), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = gateway.SaveTimers(ctx, sampleTimers())
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryGatewayCopies(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryGateway()
	timers := sampleTimers()
	require.NoError(t, gateway.SaveTimers(ctx, timers))
	timers[0].Name = "changed"

	loaded, err := gateway.LoadTimers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tea", loaded[0].Name)
	loaded[1].Name = "changed"

	again, err := gateway.LoadTimers(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTimers(), again)
	assert.Equal(t, 1, gateway.Saves())
}

func TestKeeperSurvivesRestartWithFileGateway(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	config := model.DefaultTimeKeeperConfig()
	config.TickInterval = time.Hour

	gateway, err := NewFileGateway(dir, nil)
	require.NoError(t, err)
	keeper, err := timekeeper.Open(ctx, config, timekeeper.Config{Gateway: gateway})
	require.NoError(t, err)

	tea, err := keeper.AddTimer("Tea", 300, "Kitchen", true)
	require.NoError(t, err)
	_, err = keeper.AddTimer("Eggs", 420, "Kitchen", false)
	require.NoError(t, err)
	require.NoError(t, keeper.Start(tea.ID))
	require.NoError(t, keeper.Close(ctx))

	reopened, err := NewFileGateway(dir, nil)
	require.NoError(t, err)
	restored, err := timekeeper.Open(ctx, config, timekeeper.Config{Gateway: reopened})
	require.NoError(t, err)
	defer restored.Close(ctx)

	all := restored.ListAll()
	require.Len(t, all, 2)
	assert.Equal(t, tea.ID, all[0].ID)
	assert.Equal(t, model.StatusRunning, all[0].Status)
	assert.True(t, all[0].HalfwayAlert)
	assert.Equal(t, "Eggs", all[1].Name)
}

func TestSettingsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settingsFileName)

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)

	settings.Backend = preferences.BackendPostgres
	settings.Codec = CodecCBOR
	settings.DatabaseURL = "postgres://localhost/timers"
	settings.TickInterval = 250 * time.Millisecond
	settings.ResumeRunning = false
	settings.DesktopNotify = false
	settings.Sound = false
	settings.LaunchAtLogin = true
	settings.MetricsAddr = "127.0.0.1:9464"
	settings.LogLevel = "debug"
	require.NoError(t, SaveSettingsFile(path, settings))

	loaded, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsFileIgnoresUnknownValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("backend: floppy\ncodec: xml\ntick_interval_ms: -5\n"), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, preferences.BackendFile, settings.Backend)
	assert.Equal(t, CodecYAML, settings.Codec)
	assert.Equal(t, time.Second, settings.TickInterval)
}

func TestOpenGateway(t *testing.T) {
	ctx := context.Background()

	settings := preferences.DefaultSettings()
	settings.Backend = preferences.BackendMemory
	gateway, closeFn, err := OpenGateway(ctx, "timerdeck-test", settings)
	require.NoError(t, err)
	assert.IsType(t, &MemoryGateway{}, gateway)
	assert.NoError(t, closeFn())

	settings.Backend = preferences.BackendFile
	settings.DataDir = t.TempDir()
	settings.Codec = CodecCBOR
	gateway, _, err = OpenGateway(ctx, "timerdeck-test", settings)
	require.NoError(t, err)
	fileGateway, ok := gateway.(*FileGateway)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(settings.DataDir, "timers.cbor"), fileGateway.Path(timekeeper.KeyTimers))

	settings.Backend = "floppy"
	_, _, err = OpenGateway(ctx, "timerdeck-test", settings)
	assert.Error(t, err)
}

func TestPostgresGatewayRoundTrip(t *testing.T) {
	dsn := os.Getenv("TIMERDECK_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TIMERDECK_TEST_PG_DSN not set")
	}
	ctx := context.Background()

	db, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	table := fmt.Sprintf("timer_snapshots_test_%d", time.Now().UnixNano())
	for _, codecName := range []string{CodecYAML, CodecCBOR} {
		t.Run(codecName, func(t *testing.T) {
			codec, err := NewCodec(codecName)
			require.NoError(t, err)
			gateway := NewPostgresGateway(db, codec, WithSnapshotTable(table+"_"+codecName))
			require.NoError(t, gateway.Migrate(ctx))
			defer db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+"_"+codecName)

			timers, err := gateway.LoadTimers(ctx)
			require.NoError(t, err)
			assert.Empty(t, timers)

			require.NoError(t, gateway.SaveTimers(ctx, sampleTimers()))
			require.NoError(t, gateway.SaveTimers(ctx, sampleTimers()[1:]))
			require.NoError(t, gateway.SaveHistory(ctx, sampleHistory()))

			timers, err = gateway.LoadTimers(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleTimers()[1:], timers)

			history, err := gateway.LoadHistory(ctx)
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.True(t, sampleHistory()[0].CompletionTime.Equal(history[0].CompletionTime))
		})
	}
}
