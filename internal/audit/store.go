// Package audit persists validation run summaries to Postgres. The store is
// optional; when no database is configured the rest of the application runs
// without it.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scvtools/scvcheck/internal/config"
)

// RunRecord is one validation run's summary as stored in run history.
type RunRecord struct {
	ID            uuid.UUID     `json:"id"`
	FileName      string        `json:"fileName"`
	ExclusionFile bool          `json:"exclusionFile"`
	Records       int           `json:"records"`
	FailedFields  int           `json:"failedFields"`
	Duration      time.Duration `json:"duration"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// RunStore reads and writes run history over a pgx connection pool.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore connects a run store using the database configuration.
func NewRunStore(ctx context.Context, cfg config.DatabaseConfig) (*RunStore, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pc.MaxConns = int32(cfg.MaxConns)
	pc.MinConns = int32(cfg.MinConns)
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &RunStore{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *RunStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the run-history table if it does not exist.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS validation_runs (
    id             UUID PRIMARY KEY,
    file_name      TEXT NOT NULL,
    exclusion_file BOOLEAN NOT NULL,
    records        INTEGER NOT NULL,
    failed_fields  INTEGER NOT NULL,
    duration_ms    BIGINT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS validation_runs_created_at_idx
    ON validation_runs (created_at DESC);`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure run history schema: %w", err)
	}
	return nil
}

// Insert stores one run summary. A zero CreatedAt defaults to now.
func (s *RunStore) Insert(ctx context.Context, run RunRecord) error {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	const q = `
INSERT INTO validation_runs (id, file_name, exclusion_file, records, failed_fields, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, q,
		run.ID,
		run.FileName,
		run.ExclusionFile,
		run.Records,
		run.FailedFields,
		run.Duration.Milliseconds(),
		pgtype.Timestamptz{Time: created, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the newest run summaries, most recent first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	const q = `
SELECT id, file_name, exclusion_file, records, failed_fields, duration_ms, created_at
FROM validation_runs
ORDER BY created_at DESC
LIMIT $1`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r       RunRecord
			millis  int64
			created pgtype.Timestamptz
		)
		if err := rows.Scan(&r.ID, &r.FileName, &r.ExclusionFile, &r.Records, &r.FailedFields, &millis, &created); err != nil {
			return nil, fmt.Errorf("scan run history row: %w", err)
		}
		r.Duration = time.Duration(millis) * time.Millisecond
		r.CreatedAt = created.Time
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run history: %w", err)
	}
	return out, nil
}
