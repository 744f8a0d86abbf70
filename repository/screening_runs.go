package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stock-scout/models"
	"stock-scout/observability"
)

// CreateScreeningRun inserts a new screening run in its initial state.
func (r *Repository) CreateScreeningRun(ctx context.Context, run *models.ScreeningRun) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("insert", "screening_runs")

	universeJSON, err := json.Marshal(run.Universe)
	if err != nil {
		return fmt.Errorf("failed to marshal universe: %w", err)
	}

	qualifiedJSON, err := json.Marshal(run.Results())
	if err != nil {
		return fmt.Errorf("failed to marshal qualified results: %w", err)
	}

	failuresJSON, err := json.Marshal(run.FailureList())
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO screening_runs (id, started_at, universe, qualified, failures, below_threshold, status, error, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.StartedAt, universeJSON, qualifiedJSON, failuresJSON, run.BelowThreshold, run.Status, run.Error, run.DurationMs)

	if err != nil {
		metrics.RecordDBError("insert", "screening_runs")
		return fmt.Errorf("failed to create screening run: %w", err)
	}

	return nil
}

// UpdateScreeningRun persists the current state of an existing run.
func (r *Repository) UpdateScreeningRun(ctx context.Context, run *models.ScreeningRun) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("update", "screening_runs")

	qualifiedJSON, err := json.Marshal(run.Results())
	if err != nil {
		return fmt.Errorf("failed to marshal qualified results: %w", err)
	}

	failuresJSON, err := json.Marshal(run.FailureList())
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		UPDATE screening_runs
		SET qualified = $2, failures = $3, below_threshold = $4, status = $5, error = $6, duration_ms = $7
		WHERE id = $1
	`, run.ID, qualifiedJSON, failuresJSON, run.BelowThreshold, run.Status, run.Error, run.DurationMs)

	if err != nil {
		metrics.RecordDBError("update", "screening_runs")
		return fmt.Errorf("failed to update screening run: %w", err)
	}

	return nil
}

// GetScreeningRun returns a screening run by ID, or nil when not found.
func (r *Repository) GetScreeningRun(ctx context.Context, id uuid.UUID) (*models.ScreeningRun, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "screening_runs")

	row := r.db.QueryRow(ctx, `
		SELECT id, started_at, universe, qualified, failures, below_threshold, status, error, duration_ms
		FROM screening_runs
		WHERE id = $1
	`, id)

	run, err := scanScreeningRun(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("select", "screening_runs")
		return nil, fmt.Errorf("failed to get screening run: %w", err)
	}
	return run, nil
}

// GetLatestScreeningRun returns the most recent screening run, or nil when
// no runs exist yet.
func (r *Repository) GetLatestScreeningRun(ctx context.Context) (*models.ScreeningRun, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "screening_runs")

	row := r.db.QueryRow(ctx, `
		SELECT id, started_at, universe, qualified, failures, below_threshold, status, error, duration_ms
		FROM screening_runs
		ORDER BY started_at DESC
		LIMIT 1
	`)

	run, err := scanScreeningRun(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("select", "screening_runs")
		return nil, fmt.Errorf("failed to get latest screening run: %w", err)
	}
	return run, nil
}

// GetScreeningRunHistory returns recent screening runs, newest first.
func (r *Repository) GetScreeningRunHistory(ctx context.Context, limit int) ([]*models.ScreeningRun, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "screening_runs")

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, started_at, universe, qualified, failures, below_threshold, status, error, duration_ms
		FROM screening_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		metrics.RecordDBError("select", "screening_runs")
		return nil, fmt.Errorf("failed to get screening run history: %w", err)
	}
	defer rows.Close()

	var runs []*models.ScreeningRun
	for rows.Next() {
		run, err := scanScreeningRun(rows)
		if err != nil {
			metrics.RecordDBError("select", "screening_runs")
			return nil, fmt.Errorf("failed to scan screening run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func scanScreeningRun(row pgx.Row) (*models.ScreeningRun, error) {
	var run models.ScreeningRun
	var universeJSON, qualifiedJSON, failuresJSON []byte

	err := row.Scan(&run.ID, &run.StartedAt, &universeJSON, &qualifiedJSON, &failuresJSON,
		&run.BelowThreshold, &run.Status, &run.Error, &run.DurationMs)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(universeJSON, &run.Universe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal universe: %w", err)
	}
	if err := json.Unmarshal(qualifiedJSON, &run.Qualified); err != nil {
		return nil, fmt.Errorf("failed to unmarshal qualified results: %w", err)
	}
	if err := json.Unmarshal(failuresJSON, &run.Failures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failures: %w", err)
	}

	return &run, nil
}
