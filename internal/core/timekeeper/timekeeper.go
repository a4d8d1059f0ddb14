package timekeeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"timerdeck/internal/core/model"
	"timerdeck/internal/observability/metrics"
)

// Config contains runtime collaborators for TimeKeeper.
type Config struct {
	Gateway  Gateway
	Notifier Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// TimeKeeper owns the timer collection and runs one countdown per running timer.
//
// User commands are serialized by cmdMu. Timer data and history are guarded by
// mu, which is the only lock a tick takes, so a command may wait for a
// countdown to exit while holding cmdMu.
type TimeKeeper struct {
	cmdMu sync.Mutex
	mu    sync.Mutex
	store *store

	config    model.TimeKeeperConfig
	scheduler *scheduler
	writer    *snapshotWriter
	notifier  Notifier

	storageFailing atomic.Bool
	logger    *slog.Logger
	now       func() time.Time

	subMu  sync.Mutex
	events []chan Event
	closed bool

	closeOnce sync.Once
}

// New creates an empty TimeKeeper.
func New(config model.TimeKeeperConfig, options Config) *TimeKeeper {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	keeper := &TimeKeeper{
		store:    newStore(),
		config:   config,
		notifier: options.Notifier,
		logger:   options.Logger,
		now:      options.Now,
	}
	keeper.scheduler = newScheduler(config.TickInterval, keeper.fire)
	if options.Gateway != nil {
		keeper.writer = newSnapshotWriter(options.Gateway, config.SaveTimeout, keeper.logger)
		keeper.writer.onError = keeper.handleStorageError
		keeper.writer.onSaved = keeper.handleStorageSaved
	}
	return keeper
}

// Open creates a TimeKeeper populated from the gateway.
// Timers saved while running resume counting down when config.ResumeRunning is set.
func Open(ctx context.Context, config model.TimeKeeperConfig, options Config) (*TimeKeeper, error) {
	keeper := New(config, options)
	if options.Gateway == nil {
		return keeper, nil
	}

	timers, err := options.Gateway.LoadTimers(ctx)
	if err != nil {
		_ = keeper.Close(ctx)
		return nil, storageError("load "+KeyTimers, err)
	}
	history, err := options.Gateway.LoadHistory(ctx)
	if err != nil {
		_ = keeper.Close(ctx)
		return nil, storageError("load "+KeyCompletedTimers, err)
	}

	keeper.restore(timers, history)
	return keeper, nil
}

func (keeper *TimeKeeper) restore(timers []model.Timer, history []model.CompletedTimerRecord) {
	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()

	var resume []string
	changed := false

	keeper.mu.Lock()
	for _, timer := range timers {
		if err := timer.Validate(); err != nil {
			keeper.logger.Warn("skipping stored timer", slog.Any("error", err))
			continue
		}
		if _, exists := keeper.store.lookup(timer.ID); exists {
			keeper.logger.Warn("skipping duplicate stored timer", slog.String("timer_id", timer.ID))
			continue
		}
		if timer.Status == model.StatusRunning {
			if keeper.config.ResumeRunning {
				resume = append(resume, timer.ID)
			} else {
				timer.Status = model.StatusPaused
				changed = true
			}
		}
		keeper.store.insert(timer)
	}
	for _, record := range history {
		keeper.store.appendHistory(record)
	}
	if changed {
		keeper.persistTimersLocked()
	}
	keeper.mu.Unlock()

	for _, id := range resume {
		keeper.scheduler.start(id)
	}
	keeper.logger.Info("timers restored",
		slog.Int("timers", len(timers)),
		slog.Int("history", len(history)),
		slog.Int("resumed", len(resume)),
	)
}

// Subscribe registers a new observer channel.
// Sends never block; a full channel drops the event.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.subMu.Lock()
	if keeper.closed {
		close(ch)
	} else {
		keeper.events = append(keeper.events, ch)
	}
	keeper.subMu.Unlock()
	return ch
}

// Close cancels every countdown, flushes pending snapshots and closes observers.
func (keeper *TimeKeeper) Close(ctx context.Context) error {
	var err error
	keeper.closeOnce.Do(func() {
		keeper.cmdMu.Lock()
		keeper.scheduler.stopAll()
		keeper.cmdMu.Unlock()

		err = keeper.writer.close(ctx)

		keeper.subMu.Lock()
		keeper.closed = true
		events := keeper.events
		keeper.events = nil
		keeper.subMu.Unlock()
		for _, ch := range events {
			close(ch)
		}
	})
	return err
}

// Flush waits until every snapshot queued so far has been handed to the gateway.
func (keeper *TimeKeeper) Flush(ctx context.Context) error {
	return keeper.writer.flush(ctx)
}

// AddTimer creates a paused timer with a fresh id.
func (keeper *TimeKeeper) AddTimer(name string, duration int, category string, halfwayAlert bool) (model.Timer, error) {
	timer, err := model.NewTimer(uuid.NewString(), name, duration, category, halfwayAlert)
	if err != nil {
		metrics.ObserveCommand("add", err)
		return model.Timer{}, err
	}

	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()

	keeper.mu.Lock()
	for {
		if _, exists := keeper.store.lookup(timer.ID); !exists {
			break
		}
		timer.ID = uuid.NewString()
	}
	keeper.store.insert(timer)
	keeper.persistTimersLocked()
	keeper.mu.Unlock()

	metrics.ObserveCommand("add", nil)
	keeper.logger.Debug("timer added",
		slog.String("timer_id", timer.ID),
		slog.String("name", timer.Name),
		slog.String("category", timer.Category),
		slog.Int("duration", timer.Duration),
	)
	keeper.emit(timerEvent(EventStateChange, timer, keeper.now()))
	return timer, nil
}

// GetTimer returns a copy of the timer with id.
func (keeper *TimeKeeper) GetTimer(id string) (model.Timer, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	timer, ok := keeper.store.lookup(id)
	if !ok {
		return model.Timer{}, notFound(id)
	}
	return *timer, nil
}

// ListAll returns every timer in insertion order.
func (keeper *TimeKeeper) ListAll() []model.Timer {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.store.list(nil)
}

// ListByCategory returns the timers of category in insertion order.
func (keeper *TimeKeeper) ListByCategory(category string) []model.Timer {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.store.list(func(timer model.Timer) bool {
		return timer.Category == category
	})
}

// Categories returns the distinct categories in first-seen order.
func (keeper *TimeKeeper) Categories() []string {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.store.categories()
}

// CompletedHistory returns completion records, oldest first.
func (keeper *TimeKeeper) CompletedHistory() []model.CompletedTimerRecord {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.store.historySnapshot()
}

// SetHalfwayAlert toggles the halfway alert of one timer.
// An unknown id is reported as both a validation and a not-found error.
func (keeper *TimeKeeper) SetHalfwayAlert(id string, enabled bool) error {
	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()

	keeper.mu.Lock()
	timer, ok := keeper.store.lookup(id)
	if !ok {
		keeper.mu.Unlock()
		err := fmt.Errorf("set halfway alert: %w: %w", model.ErrValidation, notFound(id))
		metrics.ObserveCommand("halfway", err)
		return err
	}
	timer.HalfwayAlert = enabled
	keeper.persistTimersLocked()
	keeper.mu.Unlock()

	metrics.ObserveCommand("halfway", nil)
	return nil
}

// DeleteTimer cancels the countdown of id and removes the timer.
func (keeper *TimeKeeper) DeleteTimer(id string) error {
	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()

	keeper.mu.Lock()
	timer, ok := keeper.store.lookup(id)
	if !ok {
		keeper.mu.Unlock()
		err := notFound(id)
		metrics.ObserveCommand("delete", err)
		return err
	}
	removed := *timer
	keeper.mu.Unlock()

	keeper.scheduler.stop(id)

	keeper.mu.Lock()
	keeper.store.remove(id)
	keeper.persistTimersLocked()
	keeper.mu.Unlock()

	metrics.ObserveCommand("delete", nil)
	keeper.logger.Debug("timer deleted", slog.String("timer_id", id))
	keeper.emit(timerEvent(EventRemoved, removed, keeper.now()))
	return nil
}

// Start begins counting down a paused timer. Running and completed timers are left as is.
func (keeper *TimeKeeper) Start(id string) error {
	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()
	_, err := keeper.startLocked(id)
	metrics.ObserveCommand("start", err)
	return err
}

// Pause freezes a running timer. Other timers are left as is.
func (keeper *TimeKeeper) Pause(id string) error {
	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()
	_, err := keeper.pauseLocked(id)
	metrics.ObserveCommand("pause", err)
	return err
}

// Reset cancels any countdown and restores the full duration from any status.
func (keeper *TimeKeeper) Reset(id string) error {
	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()
	_, err := keeper.resetLocked(id)
	metrics.ObserveCommand("reset", err)
	return err
}

// startLocked expects cmdMu to be held. It reports whether the timer changed.
func (keeper *TimeKeeper) startLocked(id string) (bool, error) {
	keeper.mu.Lock()
	timer, ok := keeper.store.lookup(id)
	if !ok {
		keeper.mu.Unlock()
		return false, notFound(id)
	}
	if timer.Status != model.StatusPaused {
		keeper.mu.Unlock()
		return false, nil
	}
	timer.Status = model.StatusRunning
	event := timerEvent(EventStateChange, *timer, keeper.now())
	keeper.persistTimersLocked()
	keeper.mu.Unlock()

	keeper.scheduler.start(id)
	keeper.logger.Debug("timer started", slog.String("timer_id", id), slog.Int("remaining", event.Remaining))
	keeper.emit(event)
	return true, nil
}

// pauseLocked expects cmdMu to be held. It reports whether the timer changed.
func (keeper *TimeKeeper) pauseLocked(id string) (bool, error) {
	keeper.mu.Lock()
	timer, ok := keeper.store.lookup(id)
	if !ok {
		keeper.mu.Unlock()
		return false, notFound(id)
	}
	if timer.Status != model.StatusRunning {
		keeper.mu.Unlock()
		return false, nil
	}
	// A tick blocked on mu observes Paused and exits without mutating.
	timer.Status = model.StatusPaused
	event := timerEvent(EventStateChange, *timer, keeper.now())
	keeper.persistTimersLocked()
	keeper.mu.Unlock()

	keeper.scheduler.stop(id)
	keeper.logger.Debug("timer paused", slog.String("timer_id", id), slog.Int("remaining", event.Remaining))
	keeper.emit(event)
	return true, nil
}

// resetLocked expects cmdMu to be held. A reset always changes the timer.
func (keeper *TimeKeeper) resetLocked(id string) (bool, error) {
	keeper.mu.Lock()
	_, ok := keeper.store.lookup(id)
	keeper.mu.Unlock()
	if !ok {
		return false, notFound(id)
	}

	keeper.scheduler.stop(id)

	keeper.mu.Lock()
	timer, _ := keeper.store.lookup(id)
	timer.RemainingTime = timer.Duration
	timer.Status = model.StatusPaused
	event := timerEvent(EventStateChange, *timer, keeper.now())
	keeper.persistTimersLocked()
	keeper.mu.Unlock()

	keeper.logger.Debug("timer reset", slog.String("timer_id", id))
	keeper.emit(event)
	return true, nil
}

// fire runs one countdown step for id. It returns false when the job must exit.
func (keeper *TimeKeeper) fire(id string, tickTime time.Time) bool {
	keeper.mu.Lock()
	timer, ok := keeper.store.lookup(id)
	if !ok || timer.Status != model.StatusRunning {
		keeper.mu.Unlock()
		return false
	}

	var pending []Event
	if timer.RemainingTime > 0 {
		timer.RemainingTime--
		metrics.IncTick()
		// RemainingTime strictly decreases within a run, so this matches once.
		// For a one-second timer the halfway point is 0, the completion tick;
		// only the completion is reported then.
		if timer.HalfwayAlert && timer.RemainingTime > 0 && timer.RemainingTime == timer.HalfwayPoint() {
			pending = append(pending, timerEvent(EventHalfway, *timer, tickTime))
		}
	}

	if timer.RemainingTime > 0 {
		pending = append(pending, timerEvent(EventProgress, *timer, tickTime))
		keeper.persistTimersLocked()
		keeper.mu.Unlock()
		keeper.dispatch(pending)
		return true
	}

	timer.Status = model.StatusCompleted
	record := model.CompletedTimerRecord{
		Name:           timer.Name,
		CompletionTime: keeper.now(),
	}
	keeper.store.appendHistory(record)
	completed := timerEvent(EventCompleted, *timer, record.CompletionTime)
	pending = append(pending, completed)
	keeper.persistTimersLocked()
	keeper.persistHistoryLocked()
	keeper.mu.Unlock()

	keeper.logger.Info("timer completed",
		slog.String("timer_id", completed.TimerID),
		slog.String("name", record.Name),
		slog.Time("completed_at", record.CompletionTime),
	)
	keeper.dispatch(pending)
	return false
}

// dispatch delivers tick events to the notifier and observers, outside mu.
func (keeper *TimeKeeper) dispatch(events []Event) {
	for _, event := range events {
		switch event.Type {
		case EventHalfway:
			metrics.IncHalfway()
			if keeper.notifier != nil {
				keeper.notifier.OnHalfwayAlert(event.TimerID, event.Name)
			}
		case EventCompleted:
			metrics.IncCompletion()
			if keeper.notifier != nil {
				keeper.notifier.OnCompletion(event.TimerID, event.Name, event.At)
			}
		}
		keeper.emit(event)
	}
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.subMu.Lock()
	defer keeper.subMu.Unlock()
	if keeper.closed {
		return
	}
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (keeper *TimeKeeper) persistTimersLocked() {
	if keeper.writer == nil {
		return
	}
	keeper.writer.queueTimers(keeper.store.timersSnapshot())
}

func (keeper *TimeKeeper) persistHistoryLocked() {
	if keeper.writer == nil {
		return
	}
	keeper.writer.queueHistory(keeper.store.historySnapshot())
}

func (keeper *TimeKeeper) handleStorageError(key string, err error) {
	metrics.ObserveSnapshotWrite(key, err)
	keeper.storageFailing.Store(true)
	keeper.emit(Event{
		Type:    EventStorageWarning,
		Message: err.Error(),
		At:      keeper.now(),
	})
}

func (keeper *TimeKeeper) handleStorageSaved(key string) {
	metrics.ObserveSnapshotWrite(key, nil)
	if keeper.storageFailing.CompareAndSwap(true, false) {
		keeper.emit(Event{
			Type: EventStorageRecovered,
			At:   keeper.now(),
		})
	}
}

func notFound(id string) error {
	return fmt.Errorf("timer %s: %w", id, model.ErrNotFound)
}
