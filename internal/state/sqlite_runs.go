package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// timeLayout is RFC 3339 with a fixed-width fraction so that
// lexicographic ordering in SQL matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", raw, err)
	}
	return t, nil
}

// CreateReconcileRun inserts a new in-progress reconcile run.
func (s *SQLiteStore) CreateReconcileRun(referencePath, communityPath string) (*ReconcileRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &ReconcileRun{
		ID:            generateID(),
		StartedAt:     time.Now().UTC(),
		ReferencePath: referencePath,
		CommunityPath: communityPath,
	}

	s.logger.Debug("creating reconcile run", slog.String("id", run.ID))

	_, err := s.db.Exec(
		`INSERT INTO reconcile_runs (id, started_at, reference_path, community_path, mismatch_count, report)
		 VALUES (?, ?, ?, ?, 0, '')`,
		run.ID, formatTime(run.StartedAt), run.ReferencePath, run.CommunityPath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconcile run: %w", err)
	}

	return run, nil
}

// CompleteReconcileRun records the outcome of a reconcile run.
func (s *SQLiteStore) CompleteReconcileRun(id string, mismatchCount int, report string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(
		`UPDATE reconcile_runs SET completed_at = ?, mismatch_count = ?, report = ? WHERE id = ?`,
		formatTime(time.Now()), mismatchCount, report, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete reconcile run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("reconcile run %s: %w", id, ErrNotFound)
	}

	return nil
}

// GetReconcileRun retrieves a reconcile run by ID.
func (s *SQLiteStore) GetReconcileRun(id string) (*ReconcileRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, started_at, completed_at, reference_path, community_path, mismatch_count, report
		 FROM reconcile_runs WHERE id = ?`,
		id,
	)

	run, err := scanReconcileRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reconcile run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reconcile run: %w", err)
	}

	return run, nil
}

// LatestReconcileRun retrieves the most recent reconcile run.
// Returns nil without error when no runs have been recorded.
func (s *SQLiteStore) LatestReconcileRun() (*ReconcileRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, started_at, completed_at, reference_path, community_path, mismatch_count, report
		 FROM reconcile_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	)

	run, err := scanReconcileRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reconcile run: %w", err)
	}

	return run, nil
}

// ListReconcileRuns retrieves the most recent runs, newest first, up to
// the given limit.
func (s *SQLiteStore) ListReconcileRuns(limit int) ([]*ReconcileRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, completed_at, reference_path, community_path, mismatch_count, report
		 FROM reconcile_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconcile runs: %w", err)
	}
	defer rows.Close()

	var runs []*ReconcileRun
	for rows.Next() {
		run, err := scanReconcileRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconcile run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReconcileRun(row scanner) (*ReconcileRun, error) {
	run := &ReconcileRun{}
	var startedAt string
	var completedAt sql.NullString

	err := row.Scan(&run.ID, &startedAt, &completedAt, &run.ReferencePath, &run.CommunityPath, &run.MismatchCount, &run.Report)
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		run.CompletedAt = &t
	}

	return run, nil
}
