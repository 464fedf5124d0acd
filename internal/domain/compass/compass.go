// Package compass derives the four qualitative indicators from recent
// activity. Derivation is a pure function of its inputs and an explicit
// "now"; nothing here is cached or stored.
package compass

import (
	"time"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/project"
)

// Alignment answers: is recent effort on-theme for the active phase?
type Alignment string

const (
	Aligned  Alignment = "Aligned"
	Drifting Alignment = "Drifting"
	OffTrack Alignment = "Off-Track"
)

// Momentum answers: are accomplishments landing?
type Momentum string

const (
	Flowing Momentum = "Flowing"
	Slow    Momentum = "Slow"
	Stuck   Momentum = "Stuck"
)

// Chaos answers: is the inbox/definition backlog overwhelming?
type Chaos string

const (
	Light    Chaos = "Light"
	Moderate Chaos = "Moderate"
	Heavy    Chaos = "Heavy"
)

// StallHeat answers: are blockers aging?
type StallHeat string

const (
	Cool StallHeat = "Cool"
	Warm StallHeat = "Warm"
	Hot  StallHeat = "Hot"
)

// State is the derived compass. It holds no identity or lifecycle of its own
// and is recomputed from scratch on every read.
type State struct {
	Alignment Alignment `json:"alignment"`
	Momentum  Momentum  `json:"momentum"`
	Chaos     Chaos     `json:"chaos"`
	StallHeat StallHeat `json:"stall_heat"`
}

// Thresholds tune the derivation. Overrides come from configuration.
type Thresholds struct {
	AlignedPercent    int
	DriftingPercent   int
	FlowingMilestones int
	FlowingResolved   int
	ChaosHeavy        int
	ChaosModerate     int
	HotBlockedCount   int
	HotAge            time.Duration
}

// DefaultThresholds returns the fixed constants the indicators were designed
// around.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AlignedPercent:    70,
		DriftingPercent:   40,
		FlowingMilestones: 3,
		FlowingResolved:   2,
		ChaosHeavy:        6,
		ChaosModerate:     3,
		HotBlockedCount:   3,
		HotAge:            14 * 24 * time.Hour,
	}
}

// Input is everything the derivation reads: a snapshot of the entity store
// plus the activity log. The momentum log is deliberately not an input.
type Input struct {
	Activity      []activity.Entry
	Projects      []project.Project
	Captures      []capture.Capture
	ActivePhaseID string
	Now           time.Time
}

// Derive computes the compass state. Only the trailing 7 days of activity and
// the 14-day stall age matter, so cost is bounded by recent log size.
func Derive(in Input, th Thresholds) State {
	return State{
		Alignment: deriveAlignment(in, th),
		Momentum:  deriveMomentum(in, th),
		Chaos:     deriveChaos(in, th),
		StallHeat: deriveStallHeat(in, th),
	}
}

func windowStart(now time.Time) time.Time {
	return now.Add(-activity.WeeklyWindow)
}

func deriveAlignment(in Input, th Thresholds) Alignment {
	since := windowStart(in.Now)

	total, linked := 0, 0
	for _, e := range in.Activity {
		if e.CreatedAt.Before(since) {
			continue
		}
		total++
		if onTheme(e, in.ActivePhaseID) {
			linked++
		}
	}

	// An empty window is no evidence of drift.
	if total == 0 {
		return Aligned
	}

	ratio := linked * 100 / total
	switch {
	case ratio < th.DriftingPercent:
		return OffTrack
	case ratio < th.AlignedPercent:
		return Drifting
	default:
		return Aligned
	}
}

// With no active phase there is no theme to drift from, so entries not tied
// to any phase count as on-theme.
func onTheme(e activity.Entry, activePhaseID string) bool {
	if activePhaseID == "" {
		return e.LinkedPhaseID == nil
	}
	return e.LinkedPhaseID != nil && *e.LinkedPhaseID == activePhaseID
}

func deriveMomentum(in Input, th Thresholds) Momentum {
	since := windowStart(in.Now)

	milestones, resolved := 0, 0
	for _, e := range in.Activity {
		if e.CreatedAt.Before(since) {
			continue
		}
		switch e.ActionType {
		case activity.TypeMilestoneCompleted:
			milestones++
		case activity.TypeStallResolved:
			resolved++
		}
	}

	switch {
	case milestones >= th.FlowingMilestones || resolved >= th.FlowingResolved:
		return Flowing
	case milestones >= 1 || resolved >= 1:
		return Slow
	default:
		return Stuck
	}
}

func deriveChaos(in Input, th Thresholds) Chaos {
	total := 0
	for _, c := range in.Captures {
		if c.Status == capture.StatusUnprocessed {
			total++
		}
	}
	for _, p := range in.Projects {
		if p.Status == project.StatusActive && p.NextAction == "" {
			total++
		}
	}

	switch {
	case total >= th.ChaosHeavy:
		return Heavy
	case total >= th.ChaosModerate:
		return Moderate
	default:
		return Light
	}
}

func deriveStallHeat(in Input, th Thresholds) StallHeat {
	blocked, hot := 0, 0
	for _, p := range in.Projects {
		if p.Status != project.StatusBlocked {
			continue
		}
		blocked++
		if p.BlockedAt != nil && in.Now.Sub(*p.BlockedAt) > th.HotAge {
			hot++
		}
	}

	switch {
	case blocked >= th.HotBlockedCount || hot > 0:
		return Hot
	case blocked > 0:
		return Warm
	default:
		return Cool
	}
}
