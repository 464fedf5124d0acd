package phase

import (
	"context"

	"github.com/atteev/continuum/internal/domain/activity"
)

// Repository provides persistence for phases.
type Repository interface {
	Create(ctx context.Context, ph *Phase) error
	Get(ctx context.Context, id string) (*Phase, error)
	GetActive(ctx context.Context) (*Phase, error)
	List(ctx context.Context) ([]Phase, error)
	Update(ctx context.Context, ph *Phase) error
}

// ActivityRepository is the slice of the activity log this service appends to.
type ActivityRepository interface {
	Append(ctx context.Context, entry *activity.Entry) error
}
