package phase

import "time"

// Status represents the lifecycle state of a phase
type Status string

const (
	StatusActive   Status = "active"
	StatusPlanned  Status = "planned"
	StatusClosing  Status = "closing"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known phase status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPlanned, StatusClosing, StatusArchived:
		return true
	}
	return false
}

// Phase is a bounded season of focus. At most one phase is active at a time.
type Phase struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Theme           string    `json:"theme"`
	SuccessCriteria string    `json:"success_criteria"`
	Status          Status    `json:"status"`
	StartDate       time.Time `json:"start_date"`
	Progress        int       `json:"progress"`
	Description     string    `json:"description,omitempty"`
	TimeHorizon     string    `json:"time_horizon,omitempty"`
}
