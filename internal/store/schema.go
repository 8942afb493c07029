package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	id            BIGSERIAL   PRIMARY KEY,
	email         TEXT        NOT NULL UNIQUE,
	password_hash TEXT        NOT NULL,
	name          TEXT        NOT NULL,
	zip           CHAR(5)     NOT NULL CHECK (zip ~ '^[0-9]{5}$'),
	blurb         TEXT,
	contact       TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS listings (
	id             BIGSERIAL   PRIMARY KEY,
	user_id        BIGINT      NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	title          TEXT        NOT NULL,
	price          TEXT        NOT NULL,
	quantity       TEXT        NOT NULL,
	harvest_date   DATE        NOT NULL,
	zip            CHAR(5)     NOT NULL CHECK (zip ~ '^[0-9]{5}$'),
	growing_method TEXT,
	notes          TEXT,
	status         TEXT        NOT NULL DEFAULT 'active'
	               CHECK (status IN ('active', 'inactive', 'sold')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS listings_user_id_idx ON listings (user_id);
CREATE INDEX IF NOT EXISTS listings_zip_idx ON listings (zip);
CREATE INDEX IF NOT EXISTS listings_status_created_idx ON listings (status, created_at DESC);

CREATE TABLE IF NOT EXISTS sessions (
	id      TEXT        PRIMARY KEY,
	payload JSONB       NOT NULL,
	expire  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_expire_idx ON sessions (expire);
`

const dropSQL = `
DROP TABLE IF EXISTS sessions;
DROP TABLE IF EXISTS listings;
DROP TABLE IF EXISTS accounts CASCADE;
`

// Provision creates the schema in a single transaction, dropping existing
// tables first when drop is set. Any failure leaves the database untouched.
func (s *PostgresStore) Provision(ctx context.Context, drop bool) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if drop {
			if _, err := tx.Exec(ctx, dropSQL); err != nil {
				return fmt.Errorf("drop tables: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
