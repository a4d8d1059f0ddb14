package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"timerdeck/internal/platform"
	"timerdeck/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DataDir            string `yaml:"data_dir,omitempty"`
	Backend            string `yaml:"backend"`
	Codec              string `yaml:"codec"`
	DatabaseURL        string `yaml:"database_url,omitempty"`
	TickIntervalMillis int    `yaml:"tick_interval_ms"`
	SaveTimeoutSeconds int    `yaml:"save_timeout_seconds"`
	ResumeRunning      *bool  `yaml:"resume_running,omitempty"`
	DesktopNotify      *bool  `yaml:"desktop_notify,omitempty"`
	Sound              *bool  `yaml:"sound,omitempty"`
	LaunchAtLogin      bool   `yaml:"launch_at_login"`
	MetricsAddr        string `yaml:"metrics_addr,omitempty"`
	LogLevel           string `yaml:"log_level"`
}

// LoadSettings reads user preferences from settings.yaml in the config dir.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads preferences from configPath over the defaults.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to settings.yaml in the config dir.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes preferences to configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	resume := settings.ResumeRunning
	notify := settings.DesktopNotify
	sound := settings.Sound
	fileData := yamlSettings{
		DataDir:            settings.DataDir,
		Backend:            settings.Backend,
		Codec:              settings.Codec,
		DatabaseURL:        settings.DatabaseURL,
		TickIntervalMillis: int(settings.TickInterval / time.Millisecond),
		SaveTimeoutSeconds: int(settings.SaveTimeout / time.Second),
		ResumeRunning:      &resume,
		DesktopNotify:      &notify,
		Sound:              &sound,
		LaunchAtLogin:      settings.LaunchAtLogin,
		MetricsAddr:        settings.MetricsAddr,
		LogLevel:           settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.DataDir != "" {
		settings.DataDir = fileData.DataDir
	}
	switch fileData.Backend {
	case preferences.BackendFile, preferences.BackendPostgres, preferences.BackendMemory:
		settings.Backend = fileData.Backend
	}
	if fileData.Codec == CodecYAML || fileData.Codec == CodecCBOR {
		settings.Codec = fileData.Codec
	}
	if fileData.DatabaseURL != "" {
		settings.DatabaseURL = fileData.DatabaseURL
	}
	if fileData.TickIntervalMillis > 0 {
		settings.TickInterval = time.Duration(fileData.TickIntervalMillis) * time.Millisecond
	}
	if fileData.SaveTimeoutSeconds > 0 {
		settings.SaveTimeout = time.Duration(fileData.SaveTimeoutSeconds) * time.Second
	}
	if fileData.ResumeRunning != nil {
		settings.ResumeRunning = *fileData.ResumeRunning
	}
	if fileData.DesktopNotify != nil {
		settings.DesktopNotify = *fileData.DesktopNotify
	}
	if fileData.Sound != nil {
		settings.Sound = *fileData.Sound
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}

	settings.MetricsAddr = fileData.MetricsAddr
}
