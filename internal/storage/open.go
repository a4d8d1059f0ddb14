package storage

import (
	"context"
	"fmt"

	"timerdeck/internal/core/timekeeper"
	"timerdeck/internal/platform"
	"timerdeck/internal/ui/preferences"
)

// OpenGateway builds the backend selected in settings.
// The returned close function releases backend resources and is never nil.
func OpenGateway(ctx context.Context, appName string, settings preferences.Settings) (timekeeper.Gateway, func() error, error) {
	noop := func() error { return nil }

	codec, err := NewCodec(settings.Codec)
	if err != nil {
		return nil, noop, err
	}

	switch settings.Backend {
	case preferences.BackendMemory:
		return NewMemoryGateway(), noop, nil
	case preferences.BackendPostgres:
		db, err := OpenPostgres(ctx, settings.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		gateway := NewPostgresGateway(db, codec)
		if err := gateway.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return gateway, db.Close, nil
	case "", preferences.BackendFile:
		dataDir := settings.DataDir
		if dataDir == "" {
			dataDir, err = platform.DataDir(appName)
			if err != nil {
				return nil, noop, err
			}
		}
		gateway, err := NewFileGateway(dataDir, codec)
		if err != nil {
			return nil, noop, err
		}
		return gateway, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", settings.Backend)
	}
}
