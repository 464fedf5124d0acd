package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atteev/continuum/internal/domain/reflection"
	"github.com/atteev/continuum/internal/repository"
)

// ReflectionRepository implements reflection.Repository for SQLite
type ReflectionRepository struct {
	db *DB
}

// NewReflectionRepository creates a new ReflectionRepository
func NewReflectionRepository(db *DB) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

// CreateDecision inserts a new decision
func (r *ReflectionRepository) CreateDecision(ctx context.Context, d *reflection.Decision) error {
	query := `
		INSERT INTO decisions (id, statement, context, tradeoffs, project_id, phase_id, reversibility, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Statement,
		d.Context,
		d.Tradeoffs,
		d.ProjectID,
		d.PhaseID,
		d.Reversibility,
		d.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create decision: %w", err)
	}

	return nil
}

// CreateInsight inserts a new insight
func (r *ReflectionRepository) CreateInsight(ctx context.Context, i *reflection.Insight) error {
	query := `
		INSERT INTO insights (id, statement, source, implication, phase_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.Statement,
		i.Source,
		i.Implication,
		i.PhaseID,
		i.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create insight: %w", err)
	}

	return nil
}

// ListDecisions returns decisions for a phase, newest first
func (r *ReflectionRepository) ListDecisions(ctx context.Context, phaseID string) ([]reflection.Decision, error) {
	query := `
		SELECT id, statement, context, tradeoffs, project_id, phase_id, reversibility, created_at
		FROM decisions
		WHERE phase_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []reflection.Decision
	for rows.Next() {
		var d reflection.Decision
		var projectID sql.NullString
		if err := rows.Scan(
			&d.ID,
			&d.Statement,
			&d.Context,
			&d.Tradeoffs,
			&projectID,
			&d.PhaseID,
			&d.Reversibility,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		if projectID.Valid {
			d.ProjectID = &projectID.String
		}
		decisions = append(decisions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decision rows: %w", err)
	}

	return decisions, nil
}

// ListInsights returns insights for a phase, newest first
func (r *ReflectionRepository) ListInsights(ctx context.Context, phaseID string) ([]reflection.Insight, error) {
	query := `
		SELECT id, statement, source, implication, phase_id, created_at
		FROM insights
		WHERE phase_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []reflection.Insight
	for rows.Next() {
		var i reflection.Insight
		if err := rows.Scan(
			&i.ID,
			&i.Statement,
			&i.Source,
			&i.Implication,
			&i.PhaseID,
			&i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insight rows: %w", err)
	}

	return insights, nil
}
