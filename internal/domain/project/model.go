package project

import "time"

// Status represents the lifecycle state of a project
type Status string

const (
	StatusActive   Status = "active"
	StatusParked   Status = "parked"
	StatusBlocked  Status = "blocked"
	StatusComplete Status = "complete"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusParked, StatusBlocked, StatusComplete, StatusArchived:
		return true
	}
	return false
}

// Terminal reports whether s has no outbound transitions besides archive.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusArchived
}

// MaxActive is the number of focus slots: projects concurrently active.
const MaxActive = 3

// Momentum point awards for lifecycle accomplishments.
const (
	PointsProjectCompleted = 8
	PointsStallResolved    = 4
)

// StallReason classifies why a project is blocked.
type StallReason string

const (
	StallWaiting   StallReason = "waiting_on_someone"
	StallClarity   StallReason = "missing_clarity"
	StallDecision  StallReason = "needs_decision"
	StallTooBig    StallReason = "too_big"
	StallEnergy    StallReason = "energy_mismatch"
	StallTooling   StallReason = "tooling_dependency"
	StallRelevance StallReason = "low_phase_relevance"
)

// Valid reports whether r is a known stall reason.
func (r StallReason) Valid() bool {
	_, ok := stallQuests[r]
	return ok
}

// stallQuests maps each stall reason to its fixed remedial prompt. The engine
// surfaces the quest but never interprets it.
var stallQuests = map[StallReason]string{
	StallWaiting:   "Send a follow-up message to the person you're waiting on",
	StallClarity:   "Write down the ONE question that, if answered, would unblock this",
	StallDecision:  "List your 2-3 options, pick one, and log it as a Decision",
	StallTooBig:    "Break this into 3 concrete steps and pick the smallest one",
	StallEnergy:    "Schedule a 30-min block for this during your peak energy time",
	StallTooling:   "Identify exactly what tool/resource you need and how to get it",
	StallRelevance: "Consider: should this be parked until a future phase?",
}

// Quest returns the remedial prompt for a stall reason.
func (r StallReason) Quest() string {
	return stallQuests[r]
}

// StallReasons lists the closed set of stall reasons.
func StallReasons() []StallReason {
	return []StallReason{
		StallWaiting, StallClarity, StallDecision, StallTooBig,
		StallEnergy, StallTooling, StallRelevance,
	}
}

// Milestone is a narrative chapter owned by exactly one project. Sequence
// defines display order, not necessarily completion order.
type Milestone struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Sequence    int        `json:"sequence"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Project is a bounded effort belonging to a phase.
type Project struct {
	ID          string       `json:"id"`
	PhaseID     string       `json:"phase_id"`
	Name        string       `json:"name"`
	Purpose     string       `json:"purpose"`
	Status      Status       `json:"status"`
	NextAction  string       `json:"next_action,omitempty"`
	StallReason *StallReason `json:"stall_reason,omitempty"`
	BlockedAt   *time.Time   `json:"blocked_at,omitempty"`
	AreaOfLife  string       `json:"area_of_life,omitempty"`
	LastActive  time.Time    `json:"last_active"`
	Milestones  []Milestone  `json:"milestones,omitempty"`
}
