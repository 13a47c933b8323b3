package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS search_events (
		id UUID PRIMARY KEY,
		media_type TEXT NOT NULL,
		status TEXT NOT NULL,
		item_count INT NOT NULL,
		fallback_used BOOLEAN NOT NULL,
		analyzer_fallback BOOLEAN NOT NULL,
		refined BOOLEAN NOT NULL,
		duration_ms BIGINT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS search_events_occurred_at_idx ON search_events (occurred_at)`,
	`CREATE TABLE IF NOT EXISTS feedback_events (
		id UUID PRIMARY KEY,
		media_type TEXT NOT NULL,
		action TEXT NOT NULL,
		item_source TEXT NOT NULL DEFAULT '',
		item_id TEXT NOT NULL DEFAULT '',
		item_title TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the event tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
