package preferences

import (
	"log/slog"
	"strings"
	"time"

	"timerdeck/internal/core/model"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Settings defines editable user preferences.
type Settings struct {
	DataDir     string
	Backend     string
	Codec       string
	DatabaseURL string

	TickInterval  time.Duration
	SaveTimeout   time.Duration
	ResumeRunning bool

	DesktopNotify bool
	Sound         bool
	LaunchAtLogin bool
	MetricsAddr   string
	LogLevel      string
}

// DefaultSettings returns default settings for timerdeck.
// An empty DataDir resolves to the platform data directory.
func DefaultSettings() Settings {
	return Settings{
		Backend:       BackendFile,
		Codec:         "yaml",
		TickInterval:  time.Second,
		SaveTimeout:   5 * time.Second,
		ResumeRunning: true,
		DesktopNotify: true,
		Sound:         true,
		LogLevel:      "info",
	}
}

// TimeKeeperConfig converts settings to TimeKeeperConfig.
func (settings Settings) TimeKeeperConfig() model.TimeKeeperConfig {
	config := model.DefaultTimeKeeperConfig()
	if settings.TickInterval > 0 {
		config.TickInterval = settings.TickInterval
	}
	if settings.SaveTimeout > 0 {
		config.SaveTimeout = settings.SaveTimeout
	}
	config.ResumeRunning = settings.ResumeRunning
	return config
}

// SlogLevel maps LogLevel to a slog level, defaulting to Info.
func (settings Settings) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(settings.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
