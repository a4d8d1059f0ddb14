package storage

import (
	"fmt"

	"timerdeck/internal/core/model"
)

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, key, model.ErrStorageUnavailable, err)
}

func decodeTimers(codec Codec, data []byte) ([]model.Timer, error) {
	var timers []model.Timer
	if len(data) == 0 {
		return timers, nil
	}
	if err := codec.Unmarshal(data, &timers); err != nil {
		return nil, err
	}
	return timers, nil
}

func decodeHistory(codec Codec, data []byte) ([]model.CompletedTimerRecord, error) {
	var history []model.CompletedTimerRecord
	if len(data) == 0 {
		return history, nil
	}
	if err := codec.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}
