package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
	"github.com/atteev/continuum/internal/repository"
)

func TestReflectionRepository_Decisions(t *testing.T) {
	db := NewTestDB(t)
	seedPhase(t, db, "ph1")
	seedPhase(t, db, "ph2")
	projects := NewProjectRepository(db)
	repo := NewReflectionRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	require.NoError(t, projects.Create(ctx, testProject("p1", "ph1", project.StatusActive, base)))

	projectID := "p1"
	require.NoError(t, repo.CreateDecision(ctx, &reflection.Decision{
		ID:            "d1",
		Statement:     "Write the book in public",
		Context:       "Accountability beats secrecy",
		Tradeoffs:     "Early drafts get judged",
		ProjectID:     &projectID,
		PhaseID:       "ph1",
		Reversibility: reflection.ReversibilityHard,
		CreatedAt:     base,
	}))
	require.NoError(t, repo.CreateDecision(ctx, &reflection.Decision{
		ID:            "d2",
		Statement:     "Drop the podcast",
		PhaseID:       "ph1",
		Reversibility: reflection.ReversibilityEasy,
		CreatedAt:     base.Add(time.Hour),
	}))
	require.NoError(t, repo.CreateDecision(ctx, &reflection.Decision{
		ID:        "d3",
		Statement: "Other phase decision",
		PhaseID:   "ph2",
		CreatedAt: base,
	}))

	decisions, err := repo.ListDecisions(ctx, "ph1")
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	require.Equal(t, "d2", decisions[0].ID, "newest decision first")
	require.Nil(t, decisions[0].ProjectID)
	require.NotNil(t, decisions[1].ProjectID)
	require.Equal(t, "p1", *decisions[1].ProjectID)
	require.Equal(t, reflection.ReversibilityHard, decisions[1].Reversibility)

	err = repo.CreateDecision(ctx, &reflection.Decision{
		ID:        "d4",
		Statement: "Orphaned",
		PhaseID:   "ghost",
		CreatedAt: base,
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestReflectionRepository_Insights(t *testing.T) {
	db := NewTestDB(t)
	seedPhase(t, db, "ph1")
	repo := NewReflectionRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateInsight(ctx, &reflection.Insight{
		ID:          "i1",
		Statement:   "Mornings are for deep work",
		Source:      reflection.SourceExperience,
		Implication: "Schedule admin after lunch",
		PhaseID:     "ph1",
		CreatedAt:   base,
	}))
	require.NoError(t, repo.CreateInsight(ctx, &reflection.Insight{
		ID:        "i2",
		Statement: "Three projects is already too many",
		Source:    reflection.SourceReflection,
		PhaseID:   "ph1",
		CreatedAt: base.Add(time.Hour),
	}))

	insights, err := repo.ListInsights(ctx, "ph1")
	require.NoError(t, err)
	require.Len(t, insights, 2)
	require.Equal(t, "i2", insights[0].ID, "newest insight first")
	require.Equal(t, reflection.SourceExperience, insights[1].Source)
	require.Equal(t, "Schedule admin after lunch", insights[1].Implication)

	none, err := repo.ListInsights(ctx, "ph9")
	require.NoError(t, err)
	require.Empty(t, none)

	err = repo.CreateInsight(ctx, &reflection.Insight{
		ID:        "i3",
		Statement: "Orphaned",
		Source:    reflection.SourceAI,
		PhaseID:   "ghost",
		CreatedAt: base,
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
