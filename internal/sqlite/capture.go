package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/repository"
)

// CaptureRepository implements capture.Repository for SQLite
type CaptureRepository struct {
	db *DB
}

// NewCaptureRepository creates a new CaptureRepository
func NewCaptureRepository(db *DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

// Create inserts a new capture
func (r *CaptureRepository) Create(ctx context.Context, c *capture.Capture) error {
	query := `
		INSERT INTO captures (id, text, source, captured_at, importance, status, associated_project_id, extracted_next_step)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Text,
		c.Source,
		c.CapturedAt,
		c.Importance,
		c.Status,
		c.AssociatedProjectID,
		c.ExtractedNextStep,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create capture: %w", err)
	}

	return nil
}

// Get retrieves a capture by ID
func (r *CaptureRepository) Get(ctx context.Context, id string) (*capture.Capture, error) {
	query := `
		SELECT id, text, source, captured_at, importance, status, associated_project_id, extracted_next_step
		FROM captures
		WHERE id = ?
	`

	var c capture.Capture
	var projectID, nextStep sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Text,
		&c.Source,
		&c.CapturedAt,
		&c.Importance,
		&c.Status,
		&projectID,
		&nextStep,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}

	if projectID.Valid {
		c.AssociatedProjectID = &projectID.String
	}
	if nextStep.Valid {
		c.ExtractedNextStep = &nextStep.String
	}

	return &c, nil
}

// Update persists capture fields
func (r *CaptureRepository) Update(ctx context.Context, c *capture.Capture) error {
	query := `
		UPDATE captures
		SET text = ?, importance = ?, status = ?, associated_project_id = ?, extracted_next_step = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Text,
		c.Importance,
		c.Status,
		c.AssociatedProjectID,
		c.ExtractedNextStep,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update capture: %w", err)
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

// List returns captures matching the options, newest first
func (r *CaptureRepository) List(ctx context.Context, opts capture.ListOptions) ([]capture.Capture, error) {
	query := `
		SELECT id, text, source, captured_at, importance, status, associated_project_id, extracted_next_step
		FROM captures
	`

	var args []any
	var conditions []string

	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if opts.Importance != nil {
		conditions = append(conditions, "importance = ?")
		args = append(args, *opts.Importance)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY captured_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}
	defer rows.Close()

	var captures []capture.Capture
	for rows.Next() {
		var c capture.Capture
		var projectID, nextStep sql.NullString
		if err := rows.Scan(
			&c.ID,
			&c.Text,
			&c.Source,
			&c.CapturedAt,
			&c.Importance,
			&c.Status,
			&projectID,
			&nextStep,
		); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		if projectID.Valid {
			c.AssociatedProjectID = &projectID.String
		}
		if nextStep.Valid {
			c.ExtractedNextStep = &nextStep.String
		}
		captures = append(captures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating capture rows: %w", err)
	}

	return captures, nil
}

// CountByStatus counts captures in the given triage status
func (r *CaptureRepository) CountByStatus(ctx context.Context, status capture.TriageStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM captures WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}
