package capture

import (
	"context"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/phase"
)

// Repository provides persistence for captures.
type Repository interface {
	Create(ctx context.Context, c *Capture) error
	Get(ctx context.Context, id string) (*Capture, error)
	Update(ctx context.Context, c *Capture) error
	List(ctx context.Context, opts ListOptions) ([]Capture, error)
	CountByStatus(ctx context.Context, status TriageStatus) (int, error)
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

// ListOptions provides filtering options for listing captures.
type ListOptions struct {
	Status     *TriageStatus
	Importance *Importance
	Limit      int
	Offset     int
}
