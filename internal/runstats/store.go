// Package runstats persists one row per sync run so the report command can
// summarize recent history. The sink is advisory: callers treat write
// failures as warnings, never as run failures.
package runstats

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"stravanotion/internal/xslog"
)

// retentionDays bounds how much history the sink keeps. Older rows are
// pruned on every write.
const retentionDays = 30

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	started_at       TIMESTAMP NOT NULL,
	fetched          INTEGER NOT NULL,
	created          INTEGER NOT NULL,
	updated          INTEGER NOT NULL,
	failed           INTEGER NOT NULL,
	daily_enabled    INTEGER NOT NULL,
	daily_days       INTEGER NOT NULL,
	daily_failed     INTEGER NOT NULL,
	athlete_enabled  INTEGER NOT NULL,
	athlete_upserted INTEGER NOT NULL,
	warnings         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at);
`

// Run is one recorded sync outcome.
type Run struct {
	ID              string
	StartedAt       time.Time
	Fetched         int
	Created         int
	Updated         int
	Failed          int
	DailyEnabled    bool
	DailyDays       int
	DailyFailed     int
	AthleteEnabled  bool
	AthleteUpserted bool
	Warnings        []string
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the database file (and its directory) if needed and ensures
// the schema exists.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating stats directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening stats database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing stats schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a run and prunes entries past retention.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	warnings, err := go_json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	const insert = `
INSERT INTO runs (
	id, started_at, fetched, created, updated, failed,
	daily_enabled, daily_days, daily_failed,
	athlete_enabled, athlete_upserted, warnings
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, insert,
		run.ID, run.StartedAt.UTC(), run.Fetched, run.Created, run.Updated, run.Failed,
		run.DailyEnabled, run.DailyDays, run.DailyFailed,
		run.AthleteEnabled, run.AthleteUpserted, string(warnings),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	cutoff := run.StartedAt.UTC().AddDate(0, 0, -retentionDays)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff); err != nil {
		s.logger.Warn("pruning old run records failed", xslog.Error(err))
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	const query = `
SELECT id, started_at, fetched, created, updated, failed,
	daily_enabled, daily_days, daily_failed,
	athlete_enabled, athlete_upserted, warnings
FROM runs
ORDER BY started_at DESC
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			warnings string
		)
		err := rows.Scan(
			&run.ID, &run.StartedAt, &run.Fetched, &run.Created, &run.Updated, &run.Failed,
			&run.DailyEnabled, &run.DailyDays, &run.DailyFailed,
			&run.AthleteEnabled, &run.AthleteUpserted, &warnings,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := go_json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
			return nil, fmt.Errorf("decoding warnings: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
