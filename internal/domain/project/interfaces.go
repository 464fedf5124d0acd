package project

import (
	"context"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/phase"
)

// Repository provides persistence for projects and their milestones.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, proj *Project) error
	List(ctx context.Context, opts ListOptions) ([]Project, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	AddMilestone(ctx context.Context, m *Milestone) error
	UpdateMilestone(ctx context.Context, m *Milestone) error
}

// PhaseRepository is the slice of phase persistence this service reads.
type PhaseRepository interface {
	GetActive(ctx context.Context) (*phase.Phase, error)
}

// ActivityRepository is the slice of the logs this service appends to.
type ActivityRepository interface {
	Append(ctx context.Context, entry *activity.Entry) error
	AppendMomentum(ctx context.Context, entry *activity.MomentumEntry) error
}

// ListOptions provides filtering options for listing projects.
type ListOptions struct {
	PhaseID  string
	Statuses []Status
	Limit    int
	Offset   int
}
