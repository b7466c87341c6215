// Package store persists emitted quote batches for later review. Quotes are
// an audit trail, not pricing state: the engine runs fine with no store
// configured, and a write failure never blocks the next tick.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/binquote/internal/pricing"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id         BIGSERIAL PRIMARY KEY,
	run_id     UUID NOT NULL,
	ticker     TEXT NOT NULL,
	spot       DOUBLE PRECISION NOT NULL,
	bid        DOUBLE PRECISION NOT NULL,
	ask        DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS quotes_run_id_idx ON quotes (run_id);
`

// QuoteStore writes quote batches to Postgres.
type QuoteStore struct {
	db *sqlx.DB
}

// Open connects and ensures the schema exists.
func Open(dsn string) (*QuoteStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &QuoteStore{db: db}, nil
}

// SaveBatch inserts every quote of a batch under its run id.
func (s *QuoteStore) SaveBatch(ctx context.Context, batch pricing.BatchResult) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range batch.Quotes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO quotes (run_id, ticker, spot, bid, ask, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			batch.RunID, q.Ticker, batch.Spot, q.Bid, q.Ask, batch.At,
		)
		if err != nil {
			return fmt.Errorf("store: insert %s: %w", q.Ticker, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}

	log.Debug().Str("run_id", batch.RunID).Int("quotes", len(batch.Quotes)).Msg("batch persisted")
	return nil
}

// Close releases the connection pool.
func (s *QuoteStore) Close() error {
	return s.db.Close()
}
