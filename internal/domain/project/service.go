package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/repository"
	"github.com/google/uuid"
)

// Service is the project lifecycle controller. Every applied transition
// touches LastActive and appends to the activity log; rejected transitions
// leave the store and both logs untouched.
type Service struct {
	repo       Repository
	phases     PhaseRepository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new project service.
func NewService(repo Repository, phases PhaseRepository, activities ActivityRepository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		phases:     phases,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	PhaseID    string
	Name       string
	Purpose    string
	NextAction string
	AreaOfLife string
	Milestones []string
	// Activate claims a focus slot immediately when one is free.
	Activate bool
}

// Create creates a new project in the given phase. New projects start parked
// unless Activate is set and a focus slot is free.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.PhaseID) == "" {
		return nil, ErrInvalidInput
	}

	status := StatusParked
	if req.Activate {
		count, err := s.repo.CountByStatus(ctx, StatusActive)
		if err != nil {
			return nil, fmt.Errorf("counting active projects: %w", err)
		}
		if count < MaxActive {
			status = StatusActive
		}
	}

	proj := &Project{
		ID:         uuid.NewString(),
		PhaseID:    req.PhaseID,
		Name:       req.Name,
		Purpose:    req.Purpose,
		Status:     status,
		NextAction: req.NextAction,
		AreaOfLife: req.AreaOfLife,
		LastActive: s.now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	for i, title := range req.Milestones {
		m := Milestone{
			ID:        uuid.NewString(),
			ProjectID: proj.ID,
			Title:     title,
			Sequence:  i + 1,
		}
		if err := s.repo.AddMilestone(ctx, &m); err != nil {
			return nil, fmt.Errorf("adding milestone: %w", err)
		}
		proj.Milestones = append(proj.Milestones, m)
	}

	return proj, nil
}

// Get returns a project with its milestones.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns projects matching the options.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	return s.repo.List(ctx, opts)
}

// ActiveCount returns the number of projects holding a focus slot.
func (s *Service) ActiveCount(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, StatusActive)
}

// CanActivate reports whether a focus slot is free. Callers surface the
// refusal to the user before invoking ToggleStatus, which rejects silently.
func (s *Service) CanActivate(ctx context.Context) error {
	count, err := s.repo.CountByStatus(ctx, StatusActive)
	if err != nil {
		return fmt.Errorf("counting active projects: %w", err)
	}
	if count >= MaxActive {
		return ErrCapacityExceeded
	}
	return nil
}

// ToggleStatus transitions a project. With no target the transition is the
// simple toggle active<->parked. A transition to active is refused silently
// when all focus slots are taken: the project is returned unchanged and
// nothing is logged.
func (s *Service) ToggleStatus(ctx context.Context, id string, target *Status) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	next := StatusActive
	if target != nil {
		next = *target
	} else if proj.Status == StatusActive {
		next = StatusParked
	}
	if !next.Valid() {
		return nil, ErrInvalidInput
	}

	if next == proj.Status {
		return proj, nil
	}

	if next == StatusActive {
		count, err := s.repo.CountByStatus(ctx, StatusActive)
		if err != nil {
			return nil, fmt.Errorf("counting active projects: %w", err)
		}
		if count >= MaxActive {
			return proj, nil
		}
	}

	updated := *proj
	updated.Status = next
	updated.LastActive = s.now()
	if proj.Status == StatusBlocked {
		updated.StallReason = nil
		updated.BlockedAt = nil
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	if next == StatusComplete {
		s.addMomentum(ctx, activity.TypeProjectCompleted, PointsProjectCompleted,
			fmt.Sprintf("Project completed: %s", updated.Name))
	}
	s.logActivity(ctx, activity.TypeProjectStatusChange, &updated.ID)

	return &updated, nil
}

// MarkBlocked stalls a project with a reason. Blocked and terminal projects
// are not blockable; the call is then a no-op.
func (s *Service) MarkBlocked(ctx context.Context, id string, reason StallReason) (*Project, error) {
	if !reason.Valid() {
		return nil, ErrInvalidInput
	}

	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	if proj.Status == StatusBlocked || proj.Status.Terminal() {
		return proj, nil
	}

	now := s.now()
	updated := *proj
	updated.Status = StatusBlocked
	updated.StallReason = &reason
	updated.BlockedAt = &now
	updated.LastActive = now

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.logActivity(ctx, activity.TypeProjectBlocked, &updated.ID)

	return &updated, nil
}

// ResolveStall unblocks a project and awards momentum. Calling it on a
// project that is not blocked is a strict no-op: no state change, no log
// entries, no points. A full slate of focus slots also leaves the project
// blocked.
func (s *Service) ResolveStall(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	if proj.Status != StatusBlocked {
		return proj, nil
	}

	count, err := s.repo.CountByStatus(ctx, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("counting active projects: %w", err)
	}
	if count >= MaxActive {
		return proj, nil
	}

	updated := *proj
	updated.Status = StatusActive
	updated.StallReason = nil
	updated.BlockedAt = nil
	updated.LastActive = s.now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.addMomentum(ctx, activity.TypeStallResolved, PointsStallResolved,
		fmt.Sprintf("Unstalled: %s", updated.Name))
	s.logActivity(ctx, activity.TypeStallResolved, &updated.ID)

	return &updated, nil
}

// CompleteMilestone marks a milestone done and records the accomplishment.
// Completing an already-completed milestone is a no-op.
func (s *Service) CompleteMilestone(ctx context.Context, projectID, milestoneID string) (*Project, error) {
	proj, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	idx := -1
	for i, m := range proj.Milestones {
		if m.ID == milestoneID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrMilestoneNotFound
	}
	if proj.Milestones[idx].IsCompleted {
		return proj, nil
	}

	now := s.now()
	m := proj.Milestones[idx]
	m.IsCompleted = true
	m.CompletedAt = &now

	if err := s.repo.UpdateMilestone(ctx, &m); err != nil {
		return nil, fmt.Errorf("updating milestone: %w", err)
	}
	proj.Milestones[idx] = m

	s.logActivity(ctx, activity.TypeMilestoneCompleted, &proj.ID)

	return proj, nil
}

// SetNextAction replaces the project's next action text.
func (s *Service) SetNextAction(ctx context.Context, id, nextAction string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	updated := *proj
	updated.NextAction = nextAction

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return &updated, nil
}

func (s *Service) logActivity(ctx context.Context, actionType activity.ActionType, projectID *string) {
	if s.activities == nil {
		return
	}
	entry := &activity.Entry{
		ID:              uuid.NewString(),
		ActionType:      actionType,
		LinkedProjectID: projectID,
		CreatedAt:       s.now(),
	}
	if s.phases != nil {
		if active, err := s.phases.GetActive(ctx); err == nil && active != nil {
			entry.LinkedPhaseID = &active.ID
		}
	}
	if err := s.activities.Append(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to append activity", "type", actionType, "error", err)
	}
}

func (s *Service) addMomentum(ctx context.Context, actionType activity.ActionType, points int, description string) {
	if s.activities == nil {
		return
	}
	entry := &activity.MomentumEntry{
		ID:          uuid.NewString(),
		ActionType:  actionType,
		Points:      points,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.activities.AppendMomentum(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to append momentum", "type", actionType, "error", err)
	}
}
