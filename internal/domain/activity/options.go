package activity

import "time"

// ListOptions provides filtering options for listing activity entries.
type ListOptions struct {
	ActionType *ActionType
	PhaseID    *string
	ProjectID  *string
	Since      *time.Time
	Limit      int
	Offset     int
}

// ListMomentumOptions provides filtering options for listing momentum entries.
type ListMomentumOptions struct {
	ActionType *ActionType
	Since      *time.Time
	Limit      int
	Offset     int
}
