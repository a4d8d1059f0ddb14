package timekeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"timerdeck/internal/core/model"
)

// Snapshot keys used by every Gateway implementation.
const (
	KeyTimers          = "timers"
	KeyCompletedTimers = "completedTimers"
)

// Gateway is durable storage for the timer collection and completion history.
type Gateway interface {
	LoadTimers(ctx context.Context) ([]model.Timer, error)
	LoadHistory(ctx context.Context) ([]model.CompletedTimerRecord, error)
	SaveTimers(ctx context.Context, timers []model.Timer) error
	SaveHistory(ctx context.Context, history []model.CompletedTimerRecord) error
}

func storageError(op string, err error) error {
	if errors.Is(err, model.ErrStorageUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorageUnavailable, err)
}

// snapshotWriter serializes gateway writes on a single goroutine.
// Pending snapshots are coalesced per key, so the last queued one wins.
type snapshotWriter struct {
	gateway Gateway
	timeout time.Duration
	logger  *slog.Logger
	onError func(key string, err error)
	onSaved func(key string)

	mu             sync.Mutex
	pendingTimers  []model.Timer
	hasTimers      bool
	pendingHistory []model.CompletedTimerRecord
	hasHistory     bool

	wake      chan struct{}
	flushReq  chan chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newSnapshotWriter(gateway Gateway, timeout time.Duration, logger *slog.Logger) *snapshotWriter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	writer := &snapshotWriter{
		gateway:  gateway,
		timeout:  timeout,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go writer.run()
	return writer
}

func (writer *snapshotWriter) queueTimers(timers []model.Timer) {
	if writer == nil {
		return
	}
	writer.mu.Lock()
	writer.pendingTimers = timers
	writer.hasTimers = true
	writer.mu.Unlock()
	writer.signal()
}

func (writer *snapshotWriter) queueHistory(history []model.CompletedTimerRecord) {
	if writer == nil {
		return
	}
	writer.mu.Lock()
	writer.pendingHistory = history
	writer.hasHistory = true
	writer.mu.Unlock()
	writer.signal()
}

func (writer *snapshotWriter) signal() {
	select {
	case writer.wake <- struct{}{}:
	default:
	}
}

// flush blocks until every snapshot queued before the call has been written.
func (writer *snapshotWriter) flush(ctx context.Context) error {
	if writer == nil {
		return nil
	}
	reply := make(chan struct{})
	select {
	case writer.flushReq <- reply:
	case <-writer.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (writer *snapshotWriter) close(ctx context.Context) error {
	if writer == nil {
		return nil
	}
	writer.closeOnce.Do(func() {
		close(writer.quit)
	})
	select {
	case <-writer.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (writer *snapshotWriter) run() {
	defer close(writer.done)
	for {
		select {
		case <-writer.wake:
			writer.writePending()
		case reply := <-writer.flushReq:
			writer.writePending()
			close(reply)
		case <-writer.quit:
			writer.writePending()
			return
		}
	}
}

func (writer *snapshotWriter) writePending() {
	writer.mu.Lock()
	timers, hasTimers := writer.pendingTimers, writer.hasTimers
	history, hasHistory := writer.pendingHistory, writer.hasHistory
	writer.pendingTimers, writer.hasTimers = nil, false
	writer.pendingHistory, writer.hasHistory = nil, false
	writer.mu.Unlock()

	if hasTimers {
		writer.save(KeyTimers, func(ctx context.Context) error {
			return writer.gateway.SaveTimers(ctx, timers)
		})
	}
	if hasHistory {
		writer.save(KeyCompletedTimers, func(ctx context.Context) error {
			return writer.gateway.SaveHistory(ctx, history)
		})
	}
}

func (writer *snapshotWriter) save(key string, write func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), writer.timeout)
	defer cancel()

	if err := write(ctx); err != nil {
		err = storageError("save "+key, err)
		writer.logger.Warn("snapshot write failed", slog.String("key", key), slog.Any("error", err))
		if writer.onError != nil {
			writer.onError(key, err)
		}
		return
	}
	if writer.onSaved != nil {
		writer.onSaved(key)
	}
}
