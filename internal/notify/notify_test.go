package notify

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNotifier struct {
	mu          sync.Mutex
	halfway     []string
	completions []string
}

func (notifier *countingNotifier) OnHalfwayAlert(timerID, name string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.halfway = append(notifier.halfway, timerID)
}

func (notifier *countingNotifier) OnCompletion(timerID, name string, completionTime time.Time) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.completions = append(notifier.completions, timerID)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	notifier := NewLogNotifier(logger)

	notifier.OnHalfwayAlert("t-1", "Tea")
	notifier.OnCompletion("t-1", "Tea", time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))

	output := buf.String()
	assert.Contains(t, output, "msg=\"timer halfway\"")
	assert.Contains(t, output, "msg=\"timer finished\"")
	assert.Contains(t, output, "timer_id=t-1")
	assert.Contains(t, output, "name=Tea")
}

func TestMultiSkipsNilNotifiers(t *testing.T) {
	first := &countingNotifier{}
	second := &countingNotifier{}
	multi := Multi{first, nil, second}

	multi.OnHalfwayAlert("a", "Tea")
	multi.OnCompletion("a", "Tea", time.Now())
	multi.OnCompletion("b", "Eggs", time.Now())

	for _, notifier := range []*countingNotifier{first, second} {
		assert.Equal(t, []string{"a"}, notifier.halfway)
		assert.Equal(t, []string{"a", "b"}, notifier.completions)
	}
}

func TestDesktopNotifier(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	notifier := NewDesktopNotifier(app)
	finished := time.Date(2026, 10, 18, 9, 15, 30, 0, time.UTC)

	test.AssertNotificationSent(t, HalfwayNotification("Tea"), func() {
		notifier.OnHalfwayAlert("t-1", "Tea")
	})
	test.AssertNotificationSent(t, CompletionNotification("Tea", finished), func() {
		notifier.OnCompletion("t-1", "Tea", finished)
	})
}

func TestNotificationText(t *testing.T) {
	completion := CompletionNotification("Eggs", time.Date(2026, 10, 18, 7, 5, 0, 0, time.UTC))
	require.NotNil(t, completion)
	assert.Equal(t, "Time's up", completion.Title)
	assert.Equal(t, "Eggs finished at 07:05:00.", completion.Content)

	assert.Equal(t, "Eggs is halfway done.", HalfwayNotification("Eggs").Content)
}

func TestNilDesktopNotifierIsSafe(t *testing.T) {
	var notifier *DesktopNotifier
	assert.NotPanics(t, func() {
		notifier.OnHalfwayAlert("a", "Tea")
	})
}
