package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/shared"
)

// RunRepository implements models.Repository[*models.SyncRun] for export run history.
//
// Every export records one row so past runs can be inspected with the runs command.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new [models.SyncRun] into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (id, sequence, exporter, created_count, updated_count, skipped_count, error_count, success, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.Exporter(),
		run.Created(),
		run.Updated(),
		run.Skipped(),
		run.ErrorCount(),
		run.Success(),
		run.StartedAt(),
		run.FinishedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.SyncRun, error) {
	query := `
		SELECT id, exporter, created_count, updated_count, skipped_count, error_count, success, started_at, finished_at
		FROM sync_runs
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE sync_runs
		SET created_count = ?, updated_count = ?, skipped_count = ?, error_count = ?, success = ?, finished_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.Created(),
		run.Updated(),
		run.Skipped(),
		run.ErrorCount(),
		run.Success(),
		run.FinishedAt(),
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found: %s", run.ID())
	}

	return nil
}

// Delete removes a run by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM sync_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync run not found: %s", id)
	}

	return nil
}

// List retrieves runs matching the given criteria, newest first.
//
// Supported criteria: "exporter" (string) filters by exporter name,
// "limit" (int) caps the number of rows returned.
func (r *RunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `
		SELECT id, exporter, created_count, updated_count, skipped_count, error_count, success, started_at, finished_at
		FROM sync_runs
		WHERE 1 = 1
	`

	args := []any{}

	if exporter, ok := criteria["exporter"].(string); ok && exporter != "" {
		query += " AND exporter = ?"
		args = append(args, exporter)
	}

	query += " ORDER BY started_at DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanOne scans a single [sql.Row] into a [models.SyncRun]
func (r *RunRepository) scanOne(row *sql.Row) (*models.SyncRun, error) {
	var (
		id         string
		exporter   string
		created    int
		updated    int
		skipped    int
		errorCount int
		success    bool
		startedAt  time.Time
		finishedAt time.Time
	)

	err := row.Scan(&id, &exporter, &created, &updated, &skipped, &errorCount, &success, &startedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	return models.RestoreSyncRun(id, exporter, created, updated, skipped, errorCount, success, startedAt, finishedAt), nil
}

// scanRun scans a row from [sql.Rows] into a [models.SyncRun]
func scanRun(rows *sql.Rows) (*models.SyncRun, error) {
	var (
		id         string
		exporter   string
		created    int
		updated    int
		skipped    int
		errorCount int
		success    bool
		startedAt  time.Time
		finishedAt time.Time
	)

	err := rows.Scan(&id, &exporter, &created, &updated, &skipped, &errorCount, &success, &startedAt, &finishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	return models.RestoreSyncRun(id, exporter, created, updated, skipped, errorCount, success, startedAt, finishedAt), nil
}
