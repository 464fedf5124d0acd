package phase

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

// Service handles phase operations.
type Service struct {
	repo       Repository
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

// NewService creates a new phase service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest defines phase creation inputs.
type CreateRequest struct {
	Name            string
	Theme           string
	SuccessCriteria string
	Description     string
	TimeHorizon     string
	StartDate       time.Time
	// Start activates the phase immediately when no other phase is active.
	Start bool
}

// Create creates a new phase. Phases start planned unless Start is set and no
// other phase is currently active.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Phase, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	status := StatusPlanned
	if req.Start {
		if _, err := s.repo.GetActive(ctx); errors.Is(err, repository.ErrNotFound) {
			status = StatusActive
		}
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = s.now()
	}

	ph := &Phase{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Theme:           req.Theme,
		SuccessCriteria: req.SuccessCriteria,
		Status:          status,
		StartDate:       startDate,
		Progress:        0,
		Description:     req.Description,
		TimeHorizon:     req.TimeHorizon,
	}

	if err := s.repo.Create(ctx, ph); err != nil {
		return nil, fmt.Errorf("creating phase: %w", err)
	}

	return ph, nil
}

// Get fetches a phase by ID.
func (s *Service) Get(ctx context.Context, id string) (*Phase, error) {
	ph, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhaseNotFound
		}
		return nil, fmt.Errorf("getting phase: %w", err)
	}
	return ph, nil
}

// Active returns the phase whose status is active, or nil when there is none.
// "No active phase" is a valid, common state.
func (s *Service) Active(ctx context.Context) (*Phase, error) {
	ph, err := s.repo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting active phase: %w", err)
	}
	return ph, nil
}

// List returns all phases.
func (s *Service) List(ctx context.Context) ([]Phase, error) {
	return s.repo.List(ctx)
}

// SetStatus transitions a phase. Activating a phase demotes any currently
// active phase to closing, so at most one phase is ever active.
func (s *Service) SetStatus(ctx context.Context, id string, target Status) (*Phase, error) {
	if !target.Valid() {
		return nil, ErrInvalidInput
	}

	ph, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhaseNotFound
		}
		return nil, fmt.Errorf("loading phase: %w", err)
	}

	if ph.Status == target {
		return ph, nil
	}

	if target == StatusActive {
		current, err := s.repo.GetActive(ctx)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("checking active phase: %w", err)
		}
		if current != nil && current.ID != ph.ID {
			current.Status = StatusClosing
			if err := s.repo.Update(ctx, current); err != nil {
				return nil, fmt.Errorf("demoting active phase: %w", err)
			}
		}
	}

	updated := *ph
	updated.Status = target

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating phase: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Append(ctx, &activity.Entry{
			ID:            uuid.NewString(),
			ActionType:    activity.TypePhaseStatusChange,
			LinkedPhaseID: &updated.ID,
			CreatedAt:     s.now(),
		})
	}

	return &updated, nil
}

// UpdateProgress sets the phase progress, clamped to 0-100.
func (s *Service) UpdateProgress(ctx context.Context, id string, progress int) (*Phase, error) {
	ph, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhaseNotFound
		}
		return nil, fmt.Errorf("loading phase: %w", err)
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	updated := *ph
	updated.Progress = progress

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating phase: %w", err)
	}

	return &updated, nil
}
