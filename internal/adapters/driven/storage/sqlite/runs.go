package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
)

// Verify interface implementation at compile time.
var _ driven.RunStore = (*runStore)(nil)

// runStore implements driven.RunStore using SQLite.
// Timestamps are stored as RFC 3339 text so ordering by started_at is lexical.
type runStore struct {
	store *Store
}

// Save stores or updates a run.
func (r *runStore) Save(ctx context.Context, run domain.IngestRun) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (id, location, status, documents, segments, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			location = excluded.location,
			status = excluded.status,
			documents = excluded.documents,
			segments = excluded.segments,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`,
		run.ID,
		run.Location,
		string(run.Status),
		run.Documents,
		run.Segments,
		run.Error,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// List returns the newest runs first, at most limit (0 = all).
func (r *runStore) List(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	query := `
		SELECT id, location, status, documents, segments, error, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.IngestRun
	for rows.Next() {
		var (
			run                 domain.IngestRun
			status              string
			startedAt, finished string
		)
		if err := rows.Scan(
			&run.ID, &run.Location, &status, &run.Documents, &run.Segments,
			&run.Error, &startedAt, &finished,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Status = domain.RunStatus(status)
		if run.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if run.FinishedAt, err = parseTime(finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// timeLayout sorts lexically in the same order as the instants it encodes.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}
