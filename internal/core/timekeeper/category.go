package timekeeper

import (
	"fmt"
	"log/slog"

	"timerdeck/internal/core/model"
	"timerdeck/internal/observability/metrics"
)

// StartAllInCategory starts every paused timer of category and returns how many started.
// Running and completed timers keep their state, and halfway alert flags are never touched.
func (keeper *TimeKeeper) StartAllInCategory(category string) (int, error) {
	return keeper.applyToCategory("start_all", category, keeper.startLocked)
}

// PauseAllInCategory pauses every running timer of category and returns how many paused.
func (keeper *TimeKeeper) PauseAllInCategory(category string) (int, error) {
	return keeper.applyToCategory("pause_all", category, keeper.pauseLocked)
}

// ResetAllInCategory resets every timer of category regardless of status.
func (keeper *TimeKeeper) ResetAllInCategory(category string) (int, error) {
	return keeper.applyToCategory("reset_all", category, keeper.resetLocked)
}

// applyToCategory runs transition over the current members of category while
// holding cmdMu, so no other command interleaves with the batch.
func (keeper *TimeKeeper) applyToCategory(command, category string, transition func(id string) (bool, error)) (int, error) {
	keeper.cmdMu.Lock()
	defer keeper.cmdMu.Unlock()

	keeper.mu.Lock()
	ids := keeper.store.idsInCategory(category)
	keeper.mu.Unlock()

	if len(ids) == 0 {
		err := fmt.Errorf("category %q: %w", category, model.ErrNotFound)
		metrics.ObserveCommand(command, err)
		return 0, err
	}

	changed := 0
	for _, id := range ids {
		ok, err := transition(id)
		if err != nil {
			metrics.ObserveCommand(command, err)
			return changed, err
		}
		if ok {
			changed++
		}
	}

	metrics.ObserveCommand(command, nil)
	keeper.logger.Debug("category transition",
		slog.String("command", command),
		slog.String("category", category),
		slog.Int("members", len(ids)),
		slog.Int("changed", changed),
	)
	return changed, nil
}
