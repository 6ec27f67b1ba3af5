// Package history records one row per run in Postgres so repeated exports
// can be compared over time. Recording is optional: without a database URL
// the Nop recorder is used.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRecord is the persisted summary of a run.
type RunRecord struct {
	ID           uuid.UUID
	InputPath    string
	OutputPath   string
	FilesFound   int
	FilesSkipped int
	RowsLoaded   int
	UniqueRows   int
	Outcome      string
	Error        string
	StartedAt    time.Time
	EndedAt      time.Time
}

// Recorder persists run records.
type Recorder interface {
	Record(ctx context.Context, rec RunRecord) error
	Close()
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, RunRecord) error { return nil }
func (Nop) Close()                                  {}

// execer is the subset of pgxpool.Pool used by PostgresRecorder.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS ldap_bind_runs (
	id            UUID PRIMARY KEY,
	input_path    TEXT NOT NULL,
	output_path   TEXT,
	files_found   INTEGER NOT NULL,
	files_skipped INTEGER NOT NULL,
	rows_loaded   INTEGER NOT NULL,
	unique_rows   INTEGER NOT NULL,
	outcome       TEXT NOT NULL,
	error         TEXT,
	started_at    TIMESTAMPTZ NOT NULL,
	ended_at      TIMESTAMPTZ NOT NULL
)`

const insertRunSQL = `INSERT INTO ldap_bind_runs (
	id, input_path, output_path, files_found, files_skipped,
	rows_loaded, unique_rows, outcome, error, started_at, ended_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// PostgresRecorder writes run records to the ldap_bind_runs table.
type PostgresRecorder struct {
	db   execer
	pool *pgxpool.Pool
}

// Open connects to the database at url, verifies the connection and makes
// sure the runs table exists.
func Open(ctx context.Context, url string, maxConns int) (*PostgresRecorder, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRecorder{db: pool, pool: pool}
	if err := r.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

// EnsureSchema creates the runs table if needed.
func (r *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create ldap_bind_runs: %w", err)
	}
	return nil
}

// Record inserts rec.
func (r *PostgresRecorder) Record(ctx context.Context, rec RunRecord) error {
	tag, err := r.db.Exec(ctx, insertRunSQL,
		pgtype.UUID{Bytes: rec.ID, Valid: true},
		rec.InputPath,
		toPgText(rec.OutputPath),
		rec.FilesFound,
		rec.FilesSkipped,
		rec.RowsLoaded,
		rec.UniqueRows,
		rec.Outcome,
		toPgText(rec.Error),
		pgtype.Timestamptz{Time: rec.StartedAt, Valid: true},
		pgtype.Timestamptz{Time: rec.EndedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert run %s: %d rows affected", rec.ID, tag.RowsAffected())
	}
	return nil
}

// Close releases the connection pool.
func (r *PostgresRecorder) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
