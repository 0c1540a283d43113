package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// person_name is a text domain that only admits canonical names (no space after
// the comma). The "C" collation makes btree order byte-wise, matching
// personname.Compare, and the hash index serves equality lookups.
var schema = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'person_name') THEN
			CREATE DOMAIN person_name AS text COLLATE "C"
				CHECK (VALUE ~ '^[A-Z][A-Za-z''-]+( [A-Z][A-Za-z''-]+)*,[A-Z][A-Za-z''-]+( [A-Z][A-Za-z''-]+)*$');
		END IF;
	END
	$$`,
	`CREATE TABLE IF NOT EXISTS people (
		id          bigserial PRIMARY KEY,
		external_id uuid NOT NULL,
		name        person_name NOT NULL,
		email       text NULL,
		created_at  timestamptz NOT NULL,
		updated_at  timestamptz NOT NULL,
		CONSTRAINT people_external_id_unique UNIQUE (external_id),
		CONSTRAINT people_name_unique UNIQUE (name)
	)`,
	`CREATE INDEX IF NOT EXISTS people_name_hash_idx ON people USING hash (name)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		idempotency_key text NOT NULL,
		method          text NOT NULL,
		route           text NOT NULL,
		body_hash       text NOT NULL,
		status_code     integer NOT NULL,
		content_type    text NOT NULL,
		body            bytea NOT NULL,
		created_at      timestamptz NOT NULL,
		PRIMARY KEY (idempotency_key, method, route, body_hash)
	)`,
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		// Serialize concurrent migrators (parallel test packages share one database).
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(7316002)`); err != nil {
			return fmt.Errorf("lock schema: %w", err)
		}
		for i, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i, err)
			}
		}
		return nil
	})
}
