package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a Timer.
type Status string

const (
	StatusPaused    Status = "Paused"
	StatusRunning   Status = "Running"
	StatusCompleted Status = "Completed"
)

// Valid reports whether status is one of the known states.
func (status Status) Valid() bool {
	switch status {
	case StatusPaused, StatusRunning, StatusCompleted:
		return true
	}
	return false
}

// Timer is a named countdown. Duration and RemainingTime are whole seconds.
type Timer struct {
	ID            string `yaml:"id" cbor:"1,keyasint"`
	Name          string `yaml:"name" cbor:"2,keyasint"`
	Category      string `yaml:"category" cbor:"3,keyasint"`
	Duration      int    `yaml:"duration" cbor:"4,keyasint"`
	RemainingTime int    `yaml:"remaining_time" cbor:"5,keyasint"`
	Status        Status `yaml:"status" cbor:"6,keyasint"`
	HalfwayAlert  bool   `yaml:"halfway_alert" cbor:"7,keyasint"`
}

// NewTimer validates input and returns a paused timer with full remaining time.
func NewTimer(id, name string, duration int, category string, halfwayAlert bool) (Timer, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" {
		return Timer{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if category == "" {
		return Timer{}, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if duration <= 0 {
		return Timer{}, fmt.Errorf("%w: duration must be positive, got %d", ErrValidation, duration)
	}
	return Timer{
		ID:            id,
		Name:          name,
		Category:      category,
		Duration:      duration,
		RemainingTime: duration,
		Status:        StatusPaused,
		HalfwayAlert:  halfwayAlert,
	}, nil
}

// Validate checks the entity invariants of a timer loaded from storage.
func (timer Timer) Validate() error {
	switch {
	case timer.ID == "":
		return fmt.Errorf("%w: id is required", ErrValidation)
	case strings.TrimSpace(timer.Name) == "":
		return fmt.Errorf("%w: timer %s: name is required", ErrValidation, timer.ID)
	case strings.TrimSpace(timer.Category) == "":
		return fmt.Errorf("%w: timer %s: category is required", ErrValidation, timer.ID)
	case timer.Duration <= 0:
		return fmt.Errorf("%w: timer %s: duration must be positive", ErrValidation, timer.ID)
	case timer.RemainingTime < 0 || timer.RemainingTime > timer.Duration:
		return fmt.Errorf("%w: timer %s: remaining time %d outside [0, %d]", ErrValidation, timer.ID, timer.RemainingTime, timer.Duration)
	case !timer.Status.Valid():
		return fmt.Errorf("%w: timer %s: unknown status %q", ErrValidation, timer.ID, timer.Status)
	case (timer.Status == StatusCompleted) != (timer.RemainingTime == 0):
		return fmt.Errorf("%w: timer %s: status %s with remaining time %d", ErrValidation, timer.ID, timer.Status, timer.RemainingTime)
	}
	return nil
}

// HalfwayPoint is the remaining time at which the halfway alert fires.
func (timer Timer) HalfwayPoint() int {
	return timer.Duration / 2
}

// Progress returns the elapsed fraction in [0, 1].
func (timer Timer) Progress() float64 {
	if timer.Duration <= 0 {
		return 1
	}
	return float64(timer.Duration-timer.RemainingTime) / float64(timer.Duration)
}

// CompletedTimerRecord is an append-only history entry.
type CompletedTimerRecord struct {
	Name           string    `yaml:"name" cbor:"1,keyasint"`
	CompletionTime time.Time `yaml:"completion_time" cbor:"2,keyasint"`
}
