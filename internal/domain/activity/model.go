package activity

import "time"

// ActionType tags an entry in the activity or momentum log
type ActionType string

const (
	TypeProjectStatusChange ActionType = "project_status_change"
	TypeProjectBlocked      ActionType = "project_blocked"
	TypeStallResolved       ActionType = "stall_resolved"
	TypeMilestoneCompleted  ActionType = "milestone_completed"
	TypeCaptureProcessed    ActionType = "capture_processed"
	TypePhaseStatusChange   ActionType = "phase_status_change"

	// Momentum-bearing accomplishment types
	TypeProjectCompleted ActionType = "project_completed"
	TypeCaptureAbsorbed  ActionType = "capture_absorbed"
)

// Entry is an immutable record of a user action. Entries are only ever
// appended; newest first is the canonical read order.
type Entry struct {
	ID              string     `json:"id"`
	ActionType      ActionType `json:"action_type"`
	LinkedPhaseID   *string    `json:"linked_phase_id,omitempty"`
	LinkedProjectID *string    `json:"linked_project_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// MomentumEntry is an immutable record of a point-bearing accomplishment.
type MomentumEntry struct {
	ID          string     `json:"id"`
	ActionType  ActionType `json:"action_type"`
	Points      int        `json:"points"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SumPoints totals the points of entries created at or after the window start.
func SumPoints(entries []MomentumEntry, since time.Time) int {
	total := 0
	for _, e := range entries {
		if !e.CreatedAt.Before(since) {
			total += e.Points
		}
	}
	return total
}
