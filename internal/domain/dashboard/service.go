// Package dashboard assembles the read-only snapshots the presentation layer
// and the advisory assistant consume. Everything here is derived on demand
// from the current store state; nothing is cached.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/compass"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/steward"
)

// Service derives compass state, weekly momentum, and assistant context.
type Service struct {
	phases     *phase.Service
	projects   *project.Service
	captures   *capture.Service
	activities *activity.Service
	thresholds compass.Thresholds
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithThresholds overrides the compass thresholds.
func WithThresholds(th compass.Thresholds) Option {
	return func(s *Service) { s.thresholds = th }
}

// NewService creates a new dashboard service.
func NewService(phases *phase.Service, projects *project.Service, captures *capture.Service, activities *activity.Service, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		phases:     phases,
		projects:   projects,
		captures:   captures,
		activities: activities,
		thresholds: compass.DefaultThresholds(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is the full read model handed to the presentation layer.
type Snapshot struct {
	Phases         []phase.Phase     `json:"phases"`
	ActivePhase    *phase.Phase      `json:"active_phase,omitempty"`
	Projects       []project.Project `json:"projects"`
	Captures       []capture.Capture `json:"captures"`
	Compass        compass.State     `json:"compass"`
	WeeklyMomentum int               `json:"weekly_momentum"`
	ActiveProjects int               `json:"active_projects"`
}

// Compass derives the current compass state.
func (s *Service) Compass(ctx context.Context) (compass.State, error) {
	now := s.now()
	since := now.Add(-activity.WeeklyWindow)

	entries, err := s.activities.Recent(ctx, activity.ListOptions{Since: &since})
	if err != nil {
		return compass.State{}, fmt.Errorf("loading recent activity: %w", err)
	}
	projects, err := s.projects.List(ctx, project.ListOptions{})
	if err != nil {
		return compass.State{}, fmt.Errorf("loading projects: %w", err)
	}
	captures, err := s.captures.List(ctx, capture.ListOptions{})
	if err != nil {
		return compass.State{}, fmt.Errorf("loading captures: %w", err)
	}
	active, err := s.phases.Active(ctx)
	if err != nil {
		return compass.State{}, fmt.Errorf("loading active phase: %w", err)
	}

	activePhaseID := ""
	if active != nil {
		activePhaseID = active.ID
	}

	return compass.Derive(compass.Input{
		Activity:      entries,
		Projects:      projects,
		Captures:      captures,
		ActivePhaseID: activePhaseID,
		Now:           now,
	}, s.thresholds), nil
}

// WeeklyMomentum returns the rolling 7-day momentum score.
func (s *Service) WeeklyMomentum(ctx context.Context) (int, error) {
	return s.activities.WeeklyScore(ctx, s.now())
}

// Snapshot assembles the full read model.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	phases, err := s.phases.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading phases: %w", err)
	}
	active, err := s.phases.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active phase: %w", err)
	}
	projects, err := s.projects.List(ctx, project.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	captures, err := s.captures.List(ctx, capture.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading captures: %w", err)
	}
	state, err := s.Compass(ctx)
	if err != nil {
		return nil, err
	}
	score, err := s.WeeklyMomentum(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoring momentum: %w", err)
	}
	activeCount, err := s.projects.ActiveCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting active projects: %w", err)
	}

	return &Snapshot{
		Phases:         phases,
		ActivePhase:    active,
		Projects:       projects,
		Captures:       captures,
		Compass:        state,
		WeeklyMomentum: score,
		ActiveProjects: activeCount,
	}, nil
}

// StewardContext builds the read-only context for the advisory assistant.
func (s *Service) StewardContext(ctx context.Context) (steward.Context, error) {
	active, err := s.phases.Active(ctx)
	if err != nil {
		return steward.Context{}, fmt.Errorf("loading active phase: %w", err)
	}
	projects, err := s.projects.List(ctx, project.ListOptions{
		Statuses: []project.Status{project.StatusActive},
	})
	if err != nil {
		return steward.Context{}, fmt.Errorf("loading active projects: %w", err)
	}
	return steward.BuildContext(active, projects), nil
}
