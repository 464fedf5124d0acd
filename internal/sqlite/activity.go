package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atteev/continuum/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite.
// Both logs are append-only: this type exposes no update or delete.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts a new activity entry
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	query := `
		INSERT INTO activity_log (id, action_type, linked_phase_id, linked_project_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ActionType,
		entry.LinkedPhaseID,
		entry.LinkedProjectID,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}

	return nil
}

// AppendMomentum inserts a new momentum entry
func (r *ActivityRepository) AppendMomentum(ctx context.Context, entry *activity.MomentumEntry) error {
	query := `
		INSERT INTO momentum_log (id, action_type, points, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ActionType,
		entry.Points,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append momentum: %w", err)
	}

	return nil
}

// List returns activity entries matching the filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT id, action_type, linked_phase_id, linked_project_id, created_at
		FROM activity_log
	`

	var args []any
	var conditions []string

	if opts.ActionType != nil {
		conditions = append(conditions, "action_type = ?")
		args = append(args, *opts.ActionType)
	}
	if opts.PhaseID != nil {
		conditions = append(conditions, "linked_phase_id = ?")
		args = append(args, *opts.PhaseID)
	}
	if opts.ProjectID != nil {
		conditions = append(conditions, "linked_project_id = ?")
		args = append(args, *opts.ProjectID)
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *opts.Since)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

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
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		var phaseID, projectID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.ActionType,
			&phaseID,
			&projectID,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if phaseID.Valid {
			entry.LinkedPhaseID = &phaseID.String
		}
		if projectID.Valid {
			entry.LinkedProjectID = &projectID.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}

// ListMomentum returns momentum entries matching the filters, newest first
func (r *ActivityRepository) ListMomentum(ctx context.Context, opts activity.ListMomentumOptions) ([]activity.MomentumEntry, error) {
	query := `
		SELECT id, action_type, points, description, created_at
		FROM momentum_log
	`

	var args []any
	var conditions []string

	if opts.ActionType != nil {
		conditions = append(conditions, "action_type = ?")
		args = append(args, *opts.ActionType)
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *opts.Since)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

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
		return nil, fmt.Errorf("failed to list momentum: %w", err)
	}
	defer rows.Close()

	var entries []activity.MomentumEntry
	for rows.Next() {
		var entry activity.MomentumEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ActionType,
			&entry.Points,
			&entry.Description,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan momentum entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating momentum rows: %w", err)
	}

	return entries, nil
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	joined := conditions[0]
	for i := 1; i < len(conditions); i++ {
		joined += " AND " + conditions[i]
	}
	return joined
}
