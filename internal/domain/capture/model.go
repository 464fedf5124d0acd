package capture

import "time"

// Source identifies how a capture entered the inbox
type Source string

const (
	SourceText       Source = "text"
	SourceVoice      Source = "voice"
	SourceScreenshot Source = "screenshot"
	SourceForwarded  Source = "forwarded"
)

// Valid reports whether s is a known capture source.
func (s Source) Valid() bool {
	switch s {
	case SourceText, SourceVoice, SourceScreenshot, SourceForwarded:
		return true
	}
	return false
}

// Importance is the triage classification of a capture
type Importance string

const (
	ImportanceUnclassified Importance = "unclassified"
	ImportanceImportant    Importance = "important"
	ImportanceInteresting  Importance = "interesting"
)

// TriageStatus tracks whether a capture has been processed
type TriageStatus string

const (
	StatusUnprocessed TriageStatus = "unprocessed"
	StatusAbsorbed    TriageStatus = "absorbed"
	// StatusParked routes a capture to the Garden of slow-maturing ideas.
	StatusParked TriageStatus = "parked"
)

// PointsAbsorbed is the momentum awarded for absorbing an important capture.
const PointsAbsorbed = 3

// Capture is an inbound note awaiting triage. Status and importance move
// together: unprocessed iff unclassified, and classification never reverts.
type Capture struct {
	ID                  string       `json:"id"`
	Text                string       `json:"text"`
	Source              Source       `json:"source"`
	CapturedAt          time.Time    `json:"captured_at"`
	Importance          Importance   `json:"importance"`
	Status              TriageStatus `json:"status"`
	AssociatedProjectID *string      `json:"associated_project_id,omitempty"`
	ExtractedNextStep   *string      `json:"extracted_next_step,omitempty"`
}
