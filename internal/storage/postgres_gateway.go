package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"timerdeck/internal/core/model"
	"timerdeck/internal/core/timekeeper"
)

const defaultSnapshotTable = "timer_snapshots"

var _ timekeeper.Gateway = (*PostgresGateway)(nil)

// PostgresGateway stores each snapshot key as one row.
type PostgresGateway struct {
	db    *sql.DB
	codec Codec
	table string
}

// PostgresOption configures the gateway.
type PostgresOption func(*PostgresGateway)

// WithSnapshotTable overrides the table name.
func WithSnapshotTable(table string) PostgresOption {
	return func(gateway *PostgresGateway) {
		if table != "" {
			gateway.table = table
		}
	}
}

// OpenPostgres opens a pgx-backed database handle and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("open postgres: database url is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", model.ErrStorageUnavailable, err)
	}
	return db, nil
}

// NewPostgresGateway constructs a gateway over db.
func NewPostgresGateway(db *sql.DB, codec Codec, opts ...PostgresOption) *PostgresGateway {
	if codec == nil {
		codec = yamlCodec{}
	}
	gateway := &PostgresGateway{db: db, codec: codec, table: defaultSnapshotTable}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway
}

// Migrate creates the snapshot table when it does not exist.
func (gateway *PostgresGateway) Migrate(ctx context.Context) error {
	if gateway == nil || gateway.db == nil {
		return errors.New("postgres gateway: nil db")
	}
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, gateway.table)
	if _, err := gateway.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate %s: %w: %w", gateway.table, model.ErrStorageUnavailable, err)
	}
	return nil
}

func (gateway *PostgresGateway) LoadTimers(ctx context.Context) ([]model.Timer, error) {
	payload, err := gateway.load(ctx, timekeeper.KeyTimers)
	if err != nil {
		return nil, err
	}
	timers, err := decodeTimers(gateway.codec, payload)
	if err != nil {
		return nil, unavailable("decode", timekeeper.KeyTimers, err)
	}
	return timers, nil
}

func (gateway *PostgresGateway) LoadHistory(ctx context.Context) ([]model.CompletedTimerRecord, error) {
	payload, err := gateway.load(ctx, timekeeper.KeyCompletedTimers)
	if err != nil {
		return nil, err
	}
	history, err := decodeHistory(gateway.codec, payload)
	if err != nil {
		return nil, unavailable("decode", timekeeper.KeyCompletedTimers, err)
	}
	return history, nil
}

func (gateway *PostgresGateway) SaveTimers(ctx context.Context, timers []model.Timer) error {
	return gateway.save(ctx, timekeeper.KeyTimers, timers)
}

func (gateway *PostgresGateway) SaveHistory(ctx context.Context, history []model.CompletedTimerRecord) error {
	return gateway.save(ctx, timekeeper.KeyCompletedTimers, history)
}

func (gateway *PostgresGateway) load(ctx context.Context, key string) ([]byte, error) {
	if gateway == nil || gateway.db == nil {
		return nil, unavailable("read", key, errors.New("nil db"))
	}
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE key = $1`, gateway.table)

	var payload []byte
	err := gateway.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("read", key, err)
	}
	return payload, nil
}

func (gateway *PostgresGateway) save(ctx context.Context, key string, value any) error {
	if gateway == nil || gateway.db == nil {
		return unavailable("write", key, errors.New("nil db"))
	}
	payload, err := gateway.codec.Marshal(value)
	if err != nil {
		return unavailable("encode", key, err)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (key, payload, saved_at)
VALUES ($1, $2, now())
ON CONFLICT (key)
DO UPDATE SET payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at`, gateway.table)

	if _, err := gateway.db.ExecContext(ctx, query, key, payload); err != nil {
		return unavailable("write", key, err)
	}
	return nil
}
