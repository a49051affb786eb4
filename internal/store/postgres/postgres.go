// Package postgres persists ledger collections as jsonb documents.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
)

// ErrConcurrentReplace indicates two writers raced on the same collection.
var ErrConcurrentReplace = errors.New("store/postgres: concurrent replace")

const schema = `
CREATE TABLE IF NOT EXISTS collections (
    kind      TEXT    NOT NULL,
    position  INTEGER NOT NULL,
    doc       JSONB   NOT NULL,
    CONSTRAINT collections_pkey PRIMARY KEY (kind, position)
);

CREATE TABLE IF NOT EXISTS collection_backups (
    id        BIGSERIAL PRIMARY KEY,
    taken_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    payload   JSONB NOT NULL
);
`

// Store is the jsonb-backed collection store.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the backing tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store/postgres: migrate: %w", err)
	}
	return nil
}

// GetAll loads the named collection in insertion order.
func (s *Store) GetAll(ctx context.Context, kind domain.Kind) ([]json.RawMessage, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM collections WHERE kind = $1 ORDER BY position`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("store/postgres: get %s: %w", kind, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc json.RawMessage
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("store/postgres: scan %s: %w", kind, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store/postgres: iterate %s: %w", kind, err)
	}
	return docs, nil
}

// ReplaceAll swaps the named collection inside one transaction.
func (s *Store) ReplaceAll(ctx context.Context, kind domain.Kind, docs []json.RawMessage) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("store/postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM collections WHERE kind = $1`, string(kind)); err != nil {
		return fmt.Errorf("store/postgres: clear %s: %w", kind, err)
	}

	batch := &pgx.Batch{}
	for i, doc := range docs {
		batch.Queue(`INSERT INTO collections (kind, position, doc) VALUES ($1, $2, $3)`, string(kind), i, doc)
	}
	results := tx.SendBatch(ctx, batch)
	for range docs {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrConcurrentReplace
			}
			return fmt.Errorf("store/postgres: insert %s: %w", kind, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("store/postgres: batch %s: %w", kind, err)
	}

	return tx.Commit(ctx)
}

// WriteBackup stores a point-in-time export of every collection.
func (s *Store) WriteBackup(ctx context.Context, payload json.RawMessage) error {
	if _, err := s.pool.Exec(ctx, `INSERT INTO collection_backups (payload) VALUES ($1)`, payload); err != nil {
		return fmt.Errorf("store/postgres: backup: %w", err)
	}
	return nil
}
