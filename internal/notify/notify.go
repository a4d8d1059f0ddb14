// Package notify adapts timer alerts to log output, desktop notifications and sounds.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"

	"timerdeck/internal/core/timekeeper"
)

var (
	_ timekeeper.Notifier = (*LogNotifier)(nil)
	_ timekeeper.Notifier = (*DesktopNotifier)(nil)
	_ timekeeper.Notifier = Multi(nil)
)

// LogNotifier writes alerts to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier logging through logger, or slog.Default when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) OnHalfwayAlert(timerID, name string) {
	notifier.logger.Info("timer halfway", slog.String("timer_id", timerID), slog.String("name", name))
}

func (notifier *LogNotifier) OnCompletion(timerID, name string, completionTime time.Time) {
	notifier.logger.Info("timer finished",
		slog.String("timer_id", timerID),
		slog.String("name", name),
		slog.Time("completed_at", completionTime),
	)
}

// DesktopNotifier raises OS notifications through the fyne app.
type DesktopNotifier struct {
	app fyne.App
}

// NewDesktopNotifier returns a notifier bound to app.
func NewDesktopNotifier(app fyne.App) *DesktopNotifier {
	return &DesktopNotifier{app: app}
}

func (notifier *DesktopNotifier) OnHalfwayAlert(timerID, name string) {
	notifier.send(HalfwayNotification(name))
}

func (notifier *DesktopNotifier) OnCompletion(timerID, name string, completionTime time.Time) {
	notifier.send(CompletionNotification(name, completionTime))
}

func (notifier *DesktopNotifier) send(notification *fyne.Notification) {
	if notifier == nil || notifier.app == nil {
		return
	}
	notifier.app.SendNotification(notification)
}

// HalfwayNotification builds the notification shown at the halfway point.
func HalfwayNotification(name string) *fyne.Notification {
	return fyne.NewNotification("Halfway there", fmt.Sprintf("%s is halfway done.", name))
}

// CompletionNotification builds the notification shown when a timer finishes.
func CompletionNotification(name string, completionTime time.Time) *fyne.Notification {
	return fyne.NewNotification("Time's up", fmt.Sprintf("%s finished at %s.", name, completionTime.Format("15:04:05")))
}

// Multi fans alerts out to every non-nil notifier in order.
type Multi []timekeeper.Notifier

func (multi Multi) OnHalfwayAlert(timerID, name string) {
	for _, notifier := range multi {
		if notifier != nil {
			notifier.OnHalfwayAlert(timerID, name)
		}
	}
}

func (multi Multi) OnCompletion(timerID, name string, completionTime time.Time) {
	for _, notifier := range multi {
		if notifier != nil {
			notifier.OnCompletion(timerID, name, completionTime)
		}
	}
}
