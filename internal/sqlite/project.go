package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, phase_id, name, purpose, status, next_action, stall_reason, blocked_at, area_of_life, last_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.PhaseID,
		proj.Name,
		proj.Purpose,
		proj.Status,
		proj.NextAction,
		stallReasonValue(proj.StallReason),
		proj.BlockedAt,
		proj.AreaOfLife,
		proj.LastActive,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project with its milestones
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, phase_id, name, purpose, status, next_action, stall_reason, blocked_at, area_of_life, last_active
		FROM projects
		WHERE id = ?
	`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	milestones, err := r.milestonesFor(ctx, proj.ID)
	if err != nil {
		return nil, err
	}
	proj.Milestones = milestones

	return proj, nil
}

// Update persists project fields (milestones are updated separately)
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET phase_id = ?, name = ?, purpose = ?, status = ?, next_action = ?, stall_reason = ?, blocked_at = ?, area_of_life = ?, last_active = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.PhaseID,
		proj.Name,
		proj.Purpose,
		proj.Status,
		proj.NextAction,
		stallReasonValue(proj.StallReason),
		proj.BlockedAt,
		proj.AreaOfLife,
		proj.LastActive,
		proj.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
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

// List returns projects matching the options, most recently active first
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	query := `
		SELECT id, phase_id, name, purpose, status, next_action, stall_reason, blocked_at, area_of_life, last_active
		FROM projects
	`

	var args []any
	var conditions []string

	if opts.PhaseID != "" {
		conditions = append(conditions, "phase_id = ?")
		args = append(args, opts.PhaseID)
	}
	if len(opts.Statuses) > 0 {
		placeholders := ""
		for i, status := range opts.Statuses {
			if i > 0 {
				placeholders += ", "
			}
			placeholders += "?"
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", placeholders))
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY last_active DESC"

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
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProjectRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	for i := range projects {
		milestones, err := r.milestonesFor(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Milestones = milestones
	}

	return projects, nil
}

// CountByStatus counts projects in the given status
func (r *ProjectRepository) CountByStatus(ctx context.Context, status project.Status) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// AddMilestone inserts a milestone for a project
func (r *ProjectRepository) AddMilestone(ctx context.Context, m *project.Milestone) error {
	query := `
		INSERT INTO milestones (id, project_id, title, sequence, is_completed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.Title,
		m.Sequence,
		m.IsCompleted,
		m.CompletedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add milestone: %w", err)
	}

	return nil
}

// UpdateMilestone persists milestone fields
func (r *ProjectRepository) UpdateMilestone(ctx context.Context, m *project.Milestone) error {
	query := `
		UPDATE milestones
		SET title = ?, sequence = ?, is_completed = ?, completed_at = ?
		WHERE id = ? AND project_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		m.Title,
		m.Sequence,
		m.IsCompleted,
		m.CompletedAt,
		m.ID,
		m.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update milestone: %w", err)
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

func (r *ProjectRepository) milestonesFor(ctx context.Context, projectID string) ([]project.Milestone, error) {
	query := `
		SELECT id, project_id, title, sequence, is_completed, completed_at
		FROM milestones
		WHERE project_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	var milestones []project.Milestone
	for rows.Next() {
		var m project.Milestone
		var completedAt sql.NullTime
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Title,
			&m.Sequence,
			&m.IsCompleted,
			&completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			m.CompletedAt = &t
		}
		milestones = append(milestones, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestone rows: %w", err)
	}

	return milestones, nil
}

type projectScanner interface {
	Scan(dest ...any) error
}

func scanProject(row *sql.Row) (*project.Project, error) {
	return scanProjectFields(row)
}

func scanProjectRows(rows *sql.Rows) (*project.Project, error) {
	return scanProjectFields(rows)
}

func scanProjectFields(s projectScanner) (*project.Project, error) {
	var proj project.Project
	var stallReason sql.NullString
	var blockedAt sql.NullTime

	err := s.Scan(
		&proj.ID,
		&proj.PhaseID,
		&proj.Name,
		&proj.Purpose,
		&proj.Status,
		&proj.NextAction,
		&stallReason,
		&blockedAt,
		&proj.AreaOfLife,
		&proj.LastActive,
	)
	if err != nil {
		return nil, err
	}

	if stallReason.Valid {
		reason := project.StallReason(stallReason.String)
		proj.StallReason = &reason
	}
	if blockedAt.Valid {
		t := blockedAt.Time
		proj.BlockedAt = &t
	}

	return &proj, nil
}

func stallReasonValue(reason *project.StallReason) any {
	if reason == nil {
		return nil
	}
	return string(*reason)
}
