package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/repository"
	"github.com/google/uuid"
)

// Service is the capture triage pipeline.
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

// NewService creates a new capture service.
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

// Add creates an unclassified, unprocessed capture.
func (s *Service) Add(ctx context.Context, text string, source Source) (*Capture, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	if source == "" {
		source = SourceText
	}
	if !source.Valid() {
		return nil, ErrInvalidInput
	}

	c := &Capture{
		ID:         uuid.NewString(),
		Text:       text,
		Source:     source,
		CapturedAt: s.now(),
		Importance: ImportanceUnclassified,
		Status:     StatusUnprocessed,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating capture: %w", err)
	}
	return c, nil
}

// Process classifies a capture. Important captures are absorbed and award
// momentum; interesting ones are parked in the Garden. A capture that has
// already been classified is left untouched so momentum is never awarded
// twice for the same capture.
func (s *Service) Process(ctx context.Context, id string, importance Importance) (*Capture, error) {
	if importance != ImportanceImportant && importance != ImportanceInteresting {
		return nil, ErrInvalidInput
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaptureNotFound
		}
		return nil, fmt.Errorf("loading capture: %w", err)
	}

	if c.Status != StatusUnprocessed {
		return c, nil
	}

	updated := *c
	updated.Importance = importance
	if importance == ImportanceImportant {
		updated.Status = StatusAbsorbed
	} else {
		updated.Status = StatusParked
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating capture: %w", err)
	}

	if updated.Status == StatusAbsorbed {
		s.addMomentum(ctx, activity.TypeCaptureAbsorbed, PointsAbsorbed,
			fmt.Sprintf("Capture absorbed: %s", truncate(updated.Text, 30)))
	}
	s.logActivity(ctx, activity.TypeCaptureProcessed)

	return &updated, nil
}

// Get returns a capture by ID.
func (s *Service) Get(ctx context.Context, id string) (*Capture, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaptureNotFound
		}
		return nil, fmt.Errorf("getting capture: %w", err)
	}
	return c, nil
}

// List returns captures matching the options, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Capture, error) {
	return s.repo.List(ctx, opts)
}

// UnprocessedCount returns the size of the triage inbox.
func (s *Service) UnprocessedCount(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, StatusUnprocessed)
}

func (s *Service) logActivity(ctx context.Context, actionType activity.ActionType) {
	if s.activities == nil {
		return
	}
	entry := &activity.Entry{
		ID:         uuid.NewString(),
		ActionType: actionType,
		CreatedAt:  s.now(),
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

// truncate shortens s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
