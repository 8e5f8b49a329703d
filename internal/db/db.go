// Package db provides optional PostgreSQL persistence for generation records.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cv_generations (
	id           UUID PRIMARY KEY,
	template_id  TEXT NOT NULL,
	source_path  TEXT NOT NULL DEFAULT '',
	source_hash  TEXT NOT NULL,
	source_pages INTEGER NOT NULL DEFAULT 0,
	source_chars INTEGER NOT NULL DEFAULT 0,
	candidate    TEXT NOT NULL DEFAULT '',
	parsed_cv    JSONB NOT NULL,
	docx_path    TEXT NOT NULL,
	pdf_path     TEXT NOT NULL DEFAULT '',
	warnings     TEXT[] NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS cv_generations_created_at_idx ON cv_generations (created_at DESC);
CREATE INDEX IF NOT EXISTS cv_generations_source_hash_idx ON cv_generations (source_hash);
`

// EnsureSchema creates the tables used by the store. It is safe to call on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
