package model

import "time"

// TimeKeeperConfig contains runtime settings for the TimeKeeper engine.
type TimeKeeperConfig struct {
	// TickInterval is the countdown period of every running timer.
	TickInterval time.Duration

	// SaveTimeout bounds a single snapshot write.
	SaveTimeout time.Duration

	// ResumeRunning restarts countdowns for timers that were saved while running.
	ResumeRunning bool
}

// DefaultTimeKeeperConfig returns a one-second countdown configuration.
func DefaultTimeKeeperConfig() TimeKeeperConfig {
	return TimeKeeperConfig{
		TickInterval:  time.Second,
		SaveTimeout:   5 * time.Second,
		ResumeRunning: true,
	}
}
