package preferences

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnv overrides settings with TIMERDECK_* environment variables.
func ApplyEnv(settings Settings) Settings {
	settings.DataDir = getenvDefault("TIMERDECK_DATA_DIR", settings.DataDir)
	settings.Backend = getenvDefault("TIMERDECK_BACKEND", settings.Backend)
	settings.Codec = getenvDefault("TIMERDECK_CODEC", settings.Codec)
	settings.DatabaseURL = getenvDefault("TIMERDECK_DATABASE_URL", settings.DatabaseURL)
	settings.MetricsAddr = getenvDefault("TIMERDECK_METRICS_ADDR", settings.MetricsAddr)
	settings.LogLevel = getenvDefault("TIMERDECK_LOG_LEVEL", settings.LogLevel)
	settings.TickInterval = getenvDuration("TIMERDECK_TICK_INTERVAL", settings.TickInterval)
	settings.ResumeRunning = getenvBool("TIMERDECK_RESUME_RUNNING", settings.ResumeRunning)
	settings.Sound = getenvBool("TIMERDECK_SOUND", settings.Sound)
	return settings
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
