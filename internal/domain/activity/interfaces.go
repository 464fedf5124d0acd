package activity

import "context"

// Repository provides persistence for the two append-only logs. There is no
// update or delete: written entries are permanent.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	AppendMomentum(ctx context.Context, entry *MomentumEntry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
	ListMomentum(ctx context.Context, opts ListMomentumOptions) ([]MomentumEntry, error)
}
