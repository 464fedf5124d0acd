package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// WeeklyWindow is the trailing window used for momentum scoring and compass
// derivation.
const WeeklyWindow = 7 * 24 * time.Hour

// Service handles the activity and momentum logs.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source so derivations are deterministic in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends a new activity entry with a fresh id and timestamp.
func (s *Service) Record(ctx context.Context, actionType ActionType, phaseID, projectID *string) (*Entry, error) {
	if actionType == "" {
		return nil, ErrInvalidInput
	}

	entry := &Entry{
		ID:              uuid.NewString(),
		ActionType:      actionType,
		LinkedPhaseID:   phaseID,
		LinkedProjectID: projectID,
		CreatedAt:       s.now(),
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording activity: %w", err)
	}
	return entry, nil
}

// RecordMomentum appends a new momentum entry with a fresh id and timestamp.
func (s *Service) RecordMomentum(ctx context.Context, actionType ActionType, points int, description string) (*MomentumEntry, error) {
	if actionType == "" {
		return nil, ErrInvalidInput
	}

	entry := &MomentumEntry{
		ID:          uuid.NewString(),
		ActionType:  actionType,
		Points:      points,
		Description: description,
		CreatedAt:   s.now(),
	}

	if err := s.repo.AppendMomentum(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording momentum: %w", err)
	}
	return entry, nil
}

// Recent lists activity entries, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	return s.repo.List(ctx, opts)
}

// RecentMomentum lists momentum entries, newest first.
func (s *Service) RecentMomentum(ctx context.Context, opts ListMomentumOptions) ([]MomentumEntry, error) {
	return s.repo.ListMomentum(ctx, opts)
}

// WeeklyScore sums momentum points over the trailing 7 days. The score is
// re-derived on every call; the log is never mutated.
func (s *Service) WeeklyScore(ctx context.Context, now time.Time) (int, error) {
	since := now.Add(-WeeklyWindow)
	entries, err := s.repo.ListMomentum(ctx, ListMomentumOptions{Since: &since})
	if err != nil {
		return 0, fmt.Errorf("scoring momentum: %w", err)
	}
	return SumPoints(entries, since), nil
}
