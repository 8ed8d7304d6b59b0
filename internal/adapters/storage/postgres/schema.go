package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS calendars (
		id          TEXT PRIMARY KEY,
		device_id   TEXT NOT NULL,
		title       TEXT NOT NULL,
		modifiable  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS calendars_device_idx ON calendars (device_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id           TEXT PRIMARY KEY,
		calendar_id  TEXT NOT NULL REFERENCES calendars(id),
		title        TEXT NOT NULL,
		location     TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		starts_at    TIMESTAMPTZ NOT NULL,
		ends_at      TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (ends_at > starts_at)
	)`,
	`CREATE INDEX IF NOT EXISTS calendar_events_range_idx ON calendar_events (calendar_id, starts_at)`,
	`CREATE TABLE IF NOT EXISTS gallery_items (
		id         BIGSERIAL PRIMARY KEY,
		device_id  TEXT NOT NULL,
		uri        TEXT NOT NULL,
		saved_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema es idempotente.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
