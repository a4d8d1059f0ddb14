package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"timerdeck/internal/bootstrap"
	"timerdeck/internal/core/model"
	"timerdeck/internal/core/timekeeper"
	"timerdeck/internal/notify"
	"timerdeck/internal/observability/metrics"
	"timerdeck/internal/platform"
	"timerdeck/internal/storage"
	"timerdeck/internal/ui/preferences"
	"timerdeck/internal/ui/timerform"
	"timerdeck/internal/ui/tray"
	"timerdeck/resources"
)

func main() {
	settings, err := bootstrap.LoadSettings()
	logger := bootstrap.NewLogger(os.Stderr, settings)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", slog.Any("error", err))
	}

	fyneApp := app.NewWithID("io.timerdeck.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconIdle))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	notifiers := notify.Multi{notify.NewLogNotifier(logger)}
	if settings.DesktopNotify {
		notifiers = append(notifiers, notify.NewDesktopNotifier(fyneApp))
	}
	if settings.Sound {
		sound, err := notify.NewSoundNotifier(0)
		if err != nil {
			logger.Warn("alert sounds disabled", slog.Any("error", err))
		} else {
			notifiers = append(notifiers, sound)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runtime, err := bootstrap.Start(ctx, settings, logger, notifiers)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Info("another timerdeck is already running")
		return
	}
	if err != nil {
		logger.Error("start", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), runtime.Settings.TimeKeeperConfig().SaveTimeout)
		defer closeCancel()
		if err := runtime.Close(closeCtx); err != nil {
			logger.Error("shutdown", slog.Any("error", err))
		}
	}()
	keeper := runtime.Keeper

	if addr := settings.MetricsAddr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, nil, logger); err != nil {
				logger.Error("metrics server", slog.Any("error", err))
			}
		}()
	}

	trayWindow := fyneApp.NewWindow("timerdeck")
	trayWindow.SetContent(widget.NewLabel("timerdeck is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	addForm := timerform.New(fyneApp, func(name string, seconds int, category string, halfwayAlert bool) error {
		_, err := keeper.AddTimer(name, seconds, category, halfwayAlert)
		return err
	})

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if err := storage.SaveSettings(bootstrap.AppName, updated); err != nil {
			logger.Error("save settings", slog.Any("error", err))
			return
		}
		if updated.LaunchAtLogin != settings.LaunchAtLogin {
			if err := updateAutostart(updated.LaunchAtLogin); err != nil {
				logger.Warn("launch at login", slog.Any("error", err))
			}
		}
		settings = updated
		logger.Info("settings saved, storage and tick changes apply after restart")
	})

	report := func(action string) func(error) {
		return func(err error) {
			if err != nil {
				logger.Warn(action, slog.Any("error", err))
			}
		}
	}
	reportCount := func(action string) func(int, error) {
		return func(count int, err error) {
			if err != nil {
				logger.Warn(action, slog.Any("error", err))
				return
			}
			logger.Debug(action, slog.Int("changed", count))
		}
	}

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnAddTimer: func() {
			addForm.Show(keeper.Categories())
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnStartCategory: func(category string) {
			reportCount("start all")(keeper.StartAllInCategory(category))
		},
		OnPauseCategory: func(category string) {
			reportCount("pause all")(keeper.PauseAllInCategory(category))
		},
		OnResetCategory: func(category string) {
			reportCount("reset all")(keeper.ResetAllInCategory(category))
		},
		OnStartTimer: func(id string) {
			report("start timer")(keeper.Start(id))
		},
		OnPauseTimer: func(id string) {
			report("pause timer")(keeper.Pause(id))
		},
		OnResetTimer: func(id string) {
			report("reset timer")(keeper.Reset(id))
		},
		OnToggleHalfway: func(id string, enabled bool) {
			report("halfway alert")(keeper.SetHalfwayAlert(id, enabled))
		},
		OnDeleteTimer: func(id string) {
			report("delete timer")(keeper.DeleteTimer(id))
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	trayManager.SetTimers(keeper.ListAll())
	desktopApp.SetSystemTrayIcon(trayIcon(keeper.ListAll()))

	events := keeper.Subscribe(64)
	go func() {
		for event := range events {
			handleEvent(event, keeper, desktopApp, trayManager)
		}
	}()

	fyneApp.Run()
}

func handleEvent(event timekeeper.Event, keeper *timekeeper.TimeKeeper, desktopApp desktop.App, trayManager *tray.Manager) {
	timers := keeper.ListAll()
	fyne.Do(func() {
		if event.Type == timekeeper.EventStateChange || event.Type == timekeeper.EventCompleted || event.Type == timekeeper.EventRemoved {
			desktopApp.SetSystemTrayIcon(trayIcon(timers))
		}
		switch event.Type {
		case timekeeper.EventStorageWarning:
			trayManager.SetWarning(event.Message)
		case timekeeper.EventStorageRecovered:
			trayManager.SetWarning("")
		}
		trayManager.SetTimers(timers)
	})
}

func trayIcon(timers []model.Timer) fyne.Resource {
	for _, timer := range timers {
		if timer.Status == model.StatusRunning {
			return resources.MustIcon(resources.IconRunning)
		}
	}
	return resources.MustIcon(resources.IconIdle)
}

func updateAutostart(enabled bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	return platform.SetAutostart(bootstrap.AppName, execPath, enabled)
}
