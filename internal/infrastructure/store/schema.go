package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id             UUID PRIMARY KEY,
		aggregate_id   TEXT        NOT NULL,
		aggregate_type TEXT        NOT NULL,
		event_type     TEXT        NOT NULL,
		data           JSONB       NOT NULL,
		version        INTEGER     NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (aggregate_id, version)
	)`,
	`CREATE TABLE IF NOT EXISTS read_checkouts (
		order_id     TEXT PRIMARY KEY,
		user_id      TEXT        NOT NULL,
		amount       INTEGER     NOT NULL,
		order_label  TEXT        NOT NULL,
		items        JSONB       NOT NULL,
		requested_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS read_checkouts_user_idx ON read_checkouts (user_id, requested_at DESC)`,
}

// EnsureSchema creates the tables the stores need.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
