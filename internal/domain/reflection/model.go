package reflection

import "time"

// Reversibility classifies how hard a decision is to undo
type Reversibility string

const (
	ReversibilityEasy Reversibility = "easy"
	ReversibilityHard Reversibility = "hard"
)

// InsightSource identifies where an insight came from
type InsightSource string

const (
	SourceReflection InsightSource = "reflection"
	SourceAI         InsightSource = "ai"
	SourceExperience InsightSource = "experience"
)

// Decision is a logged choice made during a phase.
type Decision struct {
	ID            string        `json:"id"`
	Statement     string        `json:"statement"`
	Context       string        `json:"context"`
	Tradeoffs     string        `json:"tradeoffs,omitempty"`
	ProjectID     *string       `json:"project_id,omitempty"`
	PhaseID       string        `json:"phase_id"`
	Reversibility Reversibility `json:"reversibility,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Insight is a logged realization tied to a phase.
type Insight struct {
	ID          string        `json:"id"`
	Statement   string        `json:"statement"`
	Source      InsightSource `json:"source"`
	Implication string        `json:"implication,omitempty"`
	PhaseID     string        `json:"phase_id"`
	CreatedAt   time.Time     `json:"created_at"`
}
