// Package bootstrap wires settings, storage and the timer engine for the binaries.
package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"timerdeck/internal/core/model"
	"timerdeck/internal/core/timekeeper"
	"timerdeck/internal/observability/metrics"
	"timerdeck/internal/platform"
	"timerdeck/internal/storage"
	"timerdeck/internal/ui/preferences"
)

// AppName names the config directory and the single-instance lock.
const AppName = "timerdeck"

// LoadSettings reads settings.yaml and applies environment overrides.
// A broken settings file is reported but defaults are still returned.
func LoadSettings() (preferences.Settings, error) {
	settings, err := storage.LoadSettings(AppName)
	return preferences.ApplyEnv(settings), err
}

// NewLogger builds a text logger at the configured level.
func NewLogger(output io.Writer, settings preferences.Settings) *slog.Logger {
	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: settings.SlogLevel()}))
}

// Runtime owns everything Start opened.
type Runtime struct {
	Settings preferences.Settings
	Logger   *slog.Logger
	Keeper   *timekeeper.TimeKeeper

	guard        *platform.InstanceGuard
	closeGateway func() error
}

// Start opens the configured backend and restores the timer collection.
// File-backed runs take the single-instance lock first. When stored data
// cannot be loaded the keeper runs in memory only, so the stored snapshot is
// never overwritten with an empty collection.
func Start(ctx context.Context, settings preferences.Settings, logger *slog.Logger, notifier timekeeper.Notifier) (*Runtime, error) {
	metrics.Init(nil)

	runtime := &Runtime{
		Settings:     settings,
		Logger:       logger,
		closeGateway: func() error { return nil },
	}

	if settings.Backend == "" || settings.Backend == preferences.BackendFile {
		guard, err := platform.AcquireSingleInstance(AppName)
		if err != nil {
			return nil, err
		}
		runtime.guard = guard
	}

	options := timekeeper.Config{
		Notifier: notifier,
		Logger:   logger,
	}
	gateway, closeGateway, err := storage.OpenGateway(ctx, AppName, settings)
	if err != nil && !errors.Is(err, model.ErrStorageUnavailable) {
		_ = runtime.guard.Release()
		return nil, err
	}
	if err == nil {
		options.Gateway = gateway
		runtime.closeGateway = closeGateway
	}

	keeper, err := timekeeper.Open(ctx, settings.TimeKeeperConfig(), options)
	if errors.Is(err, model.ErrStorageUnavailable) {
		options.Gateway = nil
		keeper, err = timekeeper.New(settings.TimeKeeperConfig(), options), nil
	}
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, err
	}
	if options.Gateway == nil {
		logger.Warn("stored timers unavailable, running without persistence", slog.String("backend", settings.Backend))
	}
	runtime.Keeper = keeper

	logger.Info("timerdeck started",
		slog.String("backend", settings.Backend),
		slog.String("codec", settings.Codec),
		slog.Int("timers", len(keeper.ListAll())),
	)
	return runtime, nil
}

// Close stops every countdown, flushes pending snapshots and releases resources.
func (runtime *Runtime) Close(ctx context.Context) error {
	var errs []error
	if runtime.Keeper != nil {
		if err := runtime.Keeper.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := runtime.closeGateway(); err != nil {
		errs = append(errs, err)
	}
	if err := runtime.guard.Release(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
