package storage

import (
	"context"
	"sync"

	"timerdeck/internal/core/model"
	"timerdeck/internal/core/timekeeper"
)

var _ timekeeper.Gateway = (*MemoryGateway)(nil)

// MemoryGateway holds snapshots in process memory.
type MemoryGateway struct {
	mu      sync.Mutex
	timers  []model.Timer
	history []model.CompletedTimerRecord
	saves   int
}

// NewMemoryGateway returns an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

func (gateway *MemoryGateway) LoadTimers(context.Context) ([]model.Timer, error) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	return append([]model.Timer(nil), gateway.timers...), nil
}

func (gateway *MemoryGateway) LoadHistory(context.Context) ([]model.CompletedTimerRecord, error) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	return append([]model.CompletedTimerRecord(nil), gateway.history...), nil
}

func (gateway *MemoryGateway) SaveTimers(ctx context.Context, timers []model.Timer) error {
	if err := ctx.Err(); err != nil {
		return unavailable("write", timekeeper.KeyTimers, err)
	}
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	gateway.timers = append([]model.Timer(nil), timers...)
	gateway.saves++
	return nil
}

func (gateway *MemoryGateway) SaveHistory(ctx context.Context, history []model.CompletedTimerRecord) error {
	if err := ctx.Err(); err != nil {
		return unavailable("write", timekeeper.KeyCompletedTimers, err)
	}
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	gateway.history = append([]model.CompletedTimerRecord(nil), history...)
	gateway.saves++
	return nil
}

// Saves reports how many snapshots have been written.
func (gateway *MemoryGateway) Saves() int {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	return gateway.saves
}
