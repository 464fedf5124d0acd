package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/repository"
)

// PhaseRepository implements phase.Repository for SQLite
type PhaseRepository struct {
	db *DB
}

// NewPhaseRepository creates a new PhaseRepository
func NewPhaseRepository(db *DB) *PhaseRepository {
	return &PhaseRepository{db: db}
}

// Create inserts a new phase
func (r *PhaseRepository) Create(ctx context.Context, ph *phase.Phase) error {
	query := `
		INSERT INTO phases (id, name, theme, success_criteria, status, start_date, progress, description, time_horizon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		ph.ID,
		ph.Name,
		ph.Theme,
		ph.SuccessCriteria,
		ph.Status,
		ph.StartDate,
		ph.Progress,
		ph.Description,
		ph.TimeHorizon,
	)
	if err != nil {
		return fmt.Errorf("failed to create phase: %w", err)
	}

	return nil
}

// Get retrieves a phase by ID
func (r *PhaseRepository) Get(ctx context.Context, id string) (*phase.Phase, error) {
	query := `
		SELECT id, name, theme, success_criteria, status, start_date, progress, description, time_horizon
		FROM phases
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetActive retrieves the single active phase, if any
func (r *PhaseRepository) GetActive(ctx context.Context) (*phase.Phase, error) {
	query := `
		SELECT id, name, theme, success_criteria, status, start_date, progress, description, time_horizon
		FROM phases
		WHERE status = ?
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, phase.StatusActive))
}

// List returns all phases, newest start date first
func (r *PhaseRepository) List(ctx context.Context) ([]phase.Phase, error) {
	query := `
		SELECT id, name, theme, success_criteria, status, start_date, progress, description, time_horizon
		FROM phases
		ORDER BY start_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	defer rows.Close()

	var phases []phase.Phase
	for rows.Next() {
		var ph phase.Phase
		if err := rows.Scan(
			&ph.ID,
			&ph.Name,
			&ph.Theme,
			&ph.SuccessCriteria,
			&ph.Status,
			&ph.StartDate,
			&ph.Progress,
			&ph.Description,
			&ph.TimeHorizon,
		); err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, ph)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phase rows: %w", err)
	}

	return phases, nil
}

// Update persists phase fields
func (r *PhaseRepository) Update(ctx context.Context, ph *phase.Phase) error {
	query := `
		UPDATE phases
		SET name = ?, theme = ?, success_criteria = ?, status = ?, start_date = ?, progress = ?, description = ?, time_horizon = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		ph.Name,
		ph.Theme,
		ph.SuccessCriteria,
		ph.Status,
		ph.StartDate,
		ph.Progress,
		ph.Description,
		ph.TimeHorizon,
		ph.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update phase: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *PhaseRepository) scanOne(row *sql.Row) (*phase.Phase, error) {
	var ph phase.Phase
	err := row.Scan(
		&ph.ID,
		&ph.Name,
		&ph.Theme,
		&ph.SuccessCriteria,
		&ph.Status,
		&ph.StartDate,
		&ph.Progress,
		&ph.Description,
		&ph.TimeHorizon,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phase: %w", err)
	}
	return &ph, nil
}
