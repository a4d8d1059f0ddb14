package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"timerdeck/internal/core/model"
	"timerdeck/internal/core/timekeeper"
)

var _ timekeeper.Gateway = (*FileGateway)(nil)

// FileGateway keeps one snapshot file per key under a data directory.
// Writes go to a temp file first and are renamed into place.
type FileGateway struct {
	mu    sync.Mutex
	dir   string
	codec Codec
}

// NewFileGateway creates dataDir when missing.
func NewFileGateway(dataDir string, codec Codec) (*FileGateway, error) {
	if dataDir == "" {
		return nil, errors.New("file gateway: data dir is empty")
	}
	if codec == nil {
		codec = yamlCodec{}
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileGateway{dir: dataDir, codec: codec}, nil
}

// Path returns the snapshot file used for key.
func (gateway *FileGateway) Path(key string) string {
	return filepath.Join(gateway.dir, key+"."+gateway.codec.Extension())
}

func (gateway *FileGateway) LoadTimers(ctx context.Context) ([]model.Timer, error) {
	data, err := gateway.read(ctx, timekeeper.KeyTimers)
	if err != nil {
		return nil, err
	}
	timers, err := decodeTimers(gateway.codec, data)
	if err != nil {
		return nil, unavailable("decode", timekeeper.KeyTimers, err)
	}
	return timers, nil
}

func (gateway *FileGateway) LoadHistory(ctx context.Context) ([]model.CompletedTimerRecord, error) {
	data, err := gateway.read(ctx, timekeeper.KeyCompletedTimers)
	if err != nil {
		return nil, err
	}
	history, err := decodeHistory(gateway.codec, data)
	if err != nil {
		return nil, unavailable("decode", timekeeper.KeyCompletedTimers, err)
	}
	return history, nil
}

func (gateway *FileGateway) SaveTimers(ctx context.Context, timers []model.Timer) error {
	return gateway.write(ctx, timekeeper.KeyTimers, timers)
}

func (gateway *FileGateway) SaveHistory(ctx context.Context, history []model.CompletedTimerRecord) error {
	return gateway.write(ctx, timekeeper.KeyCompletedTimers, history)
}

func (gateway *FileGateway) read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("read", key, err)
	}
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	data, err := os.ReadFile(gateway.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, unavailable("read", key, err)
	}
	return data, nil
}

func (gateway *FileGateway) write(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return unavailable("write", key, err)
	}
	serialized, err := gateway.codec.Marshal(value)
	if err != nil {
		return unavailable("encode", key, err)
	}

	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	temp, err := os.CreateTemp(gateway.dir, key+"-*.tmp")
	if err != nil {
		return unavailable("write", key, err)
	}
	tempPath := temp.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, err := temp.Write(serialized); err != nil {
		_ = temp.Close()
		return unavailable("write", key, err)
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		return unavailable("sync", key, err)
	}
	if err := temp.Close(); err != nil {
		return unavailable("close", key, err)
	}
	if err := os.Rename(tempPath, gateway.Path(key)); err != nil {
		return unavailable("rename", key, err)
	}
	return nil
}
