package reflection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service handles decisions and insights.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new reflection service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DecisionRequest defines decision logging inputs.
type DecisionRequest struct {
	Statement     string
	Context       string
	Tradeoffs     string
	ProjectID     *string
	PhaseID       string
	Reversibility Reversibility
}

// AddDecision logs a decision.
func (s *Service) AddDecision(ctx context.Context, req DecisionRequest) (*Decision, error) {
	if strings.TrimSpace(req.Statement) == "" || strings.TrimSpace(req.PhaseID) == "" {
		return nil, ErrInvalidInput
	}
	if req.Reversibility != "" && req.Reversibility != ReversibilityEasy && req.Reversibility != ReversibilityHard {
		return nil, ErrInvalidInput
	}

	d := &Decision{
		ID:            uuid.NewString(),
		Statement:     req.Statement,
		Context:       req.Context,
		Tradeoffs:     req.Tradeoffs,
		ProjectID:     req.ProjectID,
		PhaseID:       req.PhaseID,
		Reversibility: req.Reversibility,
		CreatedAt:     s.now(),
	}

	if err := s.repo.CreateDecision(ctx, d); err != nil {
		return nil, fmt.Errorf("creating decision: %w", err)
	}
	return d, nil
}

// InsightRequest defines insight logging inputs.
type InsightRequest struct {
	Statement   string
	Source      InsightSource
	Implication string
	PhaseID     string
}

// AddInsight logs an insight.
func (s *Service) AddInsight(ctx context.Context, req InsightRequest) (*Insight, error) {
	if strings.TrimSpace(req.Statement) == "" || strings.TrimSpace(req.PhaseID) == "" {
		return nil, ErrInvalidInput
	}
	source := req.Source
	if source == "" {
		source = SourceReflection
	}
	if source != SourceReflection && source != SourceAI && source != SourceExperience {
		return nil, ErrInvalidInput
	}

	i := &Insight{
		ID:          uuid.NewString(),
		Statement:   req.Statement,
		Source:      source,
		Implication: req.Implication,
		PhaseID:     req.PhaseID,
		CreatedAt:   s.now(),
	}

	if err := s.repo.CreateInsight(ctx, i); err != nil {
		return nil, fmt.Errorf("creating insight: %w", err)
	}
	return i, nil
}

// Decisions lists decisions for a phase, newest first.
func (s *Service) Decisions(ctx context.Context, phaseID string) ([]Decision, error) {
	return s.repo.ListDecisions(ctx, phaseID)
}

// Insights lists insights for a phase, newest first.
func (s *Service) Insights(ctx context.Context, phaseID string) ([]Insight, error) {
	return s.repo.ListInsights(ctx, phaseID)
}
