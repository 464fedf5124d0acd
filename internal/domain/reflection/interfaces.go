package reflection

import "context"

// Repository provides persistence for decisions and insights.
type Repository interface {
	CreateDecision(ctx context.Context, d *Decision) error
	CreateInsight(ctx context.Context, i *Insight) error
	ListDecisions(ctx context.Context, phaseID string) ([]Decision, error)
	ListInsights(ctx context.Context, phaseID string) ([]Insight, error)
}
