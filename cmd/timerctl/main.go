package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"timerdeck/internal/bootstrap"
	"timerdeck/internal/core/timekeeper"
	"timerdeck/internal/notify"
	"timerdeck/internal/observability/metrics"
	"timerdeck/internal/shell"
	"timerdeck/internal/ui/preferences"
)

// promptWriter lets log output follow the readline prompt once it exists.
type promptWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (writer *promptWriter) Write(p []byte) (int, error) {
	writer.mu.Lock()
	defer writer.mu.Unlock()
	return writer.w.Write(p)
}

func (writer *promptWriter) set(w io.Writer) {
	writer.mu.Lock()
	writer.w = w
	writer.mu.Unlock()
}

func main() {
	var (
		memory      bool
		backend     string
		codec       string
		dataDir     string
		logLevel    string
		metricsAddr string
		quiet       bool
	)
	flag.BoolVar(&memory, "memory", false, "Keep timers in memory only")
	flag.StringVar(&backend, "backend", "", "Storage backend: file, postgres, memory")
	flag.StringVar(&codec, "codec", "", "Snapshot codec: yaml, cbor")
	flag.StringVar(&dataDir, "data", "", "Data directory for the file backend")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&metricsAddr, "metrics", "", "Serve Prometheus metrics on this address")
	flag.BoolVar(&quiet, "quiet", false, "Do not play alert sounds")
	flag.Parse()

	settings, err := bootstrap.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v (using defaults)\n", err)
	}
	settings = applyFlags(settings, memory, backend, codec, dataDir, logLevel, metricsAddr)
	if quiet {
		settings.Sound = false
	}

	output := &promptWriter{w: os.Stderr}
	logger := bootstrap.NewLogger(output, settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier timekeeper.Notifier
	if settings.Sound {
		sound, err := notify.NewSoundNotifier(0)
		if err != nil {
			logger.Debug("alert sounds disabled", slog.Any("error", err))
		} else {
			notifier = sound
		}
	}

	runtime, err := bootstrap.Start(ctx, settings, logger, notifier)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := runtime.Close(closeCtx); err != nil {
			logger.Error("shutdown", slog.Any("error", err))
		}
	}()

	if settings.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, settings.MetricsAddr, nil, logger); err != nil {
				logger.Error("metrics server", slog.Any("error", err))
			}
		}()
	}

	interactive, err := shell.NewInteractive(runtime.Keeper)
	if err != nil {
		logger.Error("shell", slog.Any("error", err))
		return
	}
	// Route log output through readline so it does not tear the prompt.
	output.set(interactive.Stdout())

	go interactive.Watch(runtime.Keeper.Subscribe(64))
	go interactive.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}
	cancel()
}

func applyFlags(settings preferences.Settings, memory bool, backend, codec, dataDir, logLevel, metricsAddr string) preferences.Settings {
	if backend != "" {
		settings.Backend = backend
	}
	if memory {
		settings.Backend = preferences.BackendMemory
	}
	if codec != "" {
		settings.Codec = codec
	}
	if dataDir != "" {
		settings.DataDir = dataDir
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}
	if metricsAddr != "" {
		settings.MetricsAddr = metricsAddr
	}
	return settings
}
