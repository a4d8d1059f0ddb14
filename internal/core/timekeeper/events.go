package timekeeper

import (
	"time"

	"timerdeck/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventProgress       EventType = "progress"
	EventHalfway        EventType = "halfway"
	EventCompleted      EventType = "completed"
	EventRemoved        EventType = "removed"
	EventStorageWarning EventType = "storage_warning"
	// EventStorageRecovered follows the first successful save after a warning.
	EventStorageRecovered EventType = "storage_recovered"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	TimerID   string
	Name      string
	Category  string
	Status    model.Status
	Remaining int
	Progress  float64
	Message   string
	At        time.Time
}

// Notifier receives halfway and completion alerts for presentation.
// Calls are made outside of TimeKeeper locks, in tick order per timer.
type Notifier interface {
	OnHalfwayAlert(timerID, name string)
	OnCompletion(timerID, name string, completionTime time.Time)
}

func timerEvent(eventType EventType, timer model.Timer, at time.Time) Event {
	return Event{
		Type:      eventType,
		TimerID:   timer.ID,
		Name:      timer.Name,
		Category:  timer.Category,
		Status:    timer.Status,
		Remaining: timer.RemainingTime,
		Progress:  timer.Progress(),
		At:        at,
	}
}
