package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/activity"
)

func TestActivityRepository_AppendList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	phaseID := "ph1"
	projectID := "p1"

	require.NoError(t, repo.Append(ctx, &activity.Entry{
		ID:         "a1",
		ActionType: activity.TypeProjectStatusChange,
		CreatedAt:  base,
	}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{
		ID:              "a2",
		ActionType:      activity.TypeMilestoneCompleted,
		LinkedPhaseID:   &phaseID,
		LinkedProjectID: &projectID,
		CreatedAt:       base.Add(time.Hour),
	}))
	require.NoError(t, repo.Append(ctx, &activity.Entry{
		ID:              "a3",
		ActionType:      activity.TypeProjectStatusChange,
		LinkedProjectID: &projectID,
		CreatedAt:       base.Add(2 * time.Hour),
	}))

	all, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "a3", all[0].ID, "newest entry first")
	require.Equal(t, "a1", all[2].ID)
	require.Nil(t, all[2].LinkedPhaseID)

	milestones := activity.TypeMilestoneCompleted
	byType, err := repo.List(ctx, activity.ListOptions{ActionType: &milestones})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "a2", byType[0].ID)
	require.NotNil(t, byType[0].LinkedPhaseID)
	require.Equal(t, "ph1", *byType[0].LinkedPhaseID)

	byProject, err := repo.List(ctx, activity.ListOptions{ProjectID: &projectID})
	require.NoError(t, err)
	require.Len(t, byProject, 2)

	since := base.Add(time.Hour)
	recent, err := repo.List(ctx, activity.ListOptions{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 2, "window start is inclusive")

	limited, err := repo.List(ctx, activity.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "a3", limited[0].ID)
}

func TestActivityRepository_AppendListMomentum(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AppendMomentum(ctx, &activity.MomentumEntry{
		ID:          "m1",
		ActionType:  activity.TypeProjectCompleted,
		Points:      8,
		Description: "Shipped the newsletter",
		CreatedAt:   base,
	}))
	require.NoError(t, repo.AppendMomentum(ctx, &activity.MomentumEntry{
		ID:         "m2",
		ActionType: activity.TypeStallResolved,
		Points:     4,
		CreatedAt:  base.Add(48 * time.Hour),
	}))
	require.NoError(t, repo.AppendMomentum(ctx, &activity.MomentumEntry{
		ID:         "m3",
		ActionType: activity.TypeCaptureAbsorbed,
		Points:     3,
		CreatedAt:  base.Add(72 * time.Hour),
	}))

	all, err := repo.ListMomentum(ctx, activity.ListMomentumOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "m3", all[0].ID, "newest entry first")
	require.Equal(t, 8, all[2].Points)
	require.Equal(t, "Shipped the newsletter", all[2].Description)

	since := base.Add(24 * time.Hour)
	recent, err := repo.ListMomentum(ctx, activity.ListMomentumOptions{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, 7, activity.SumPoints(recent, since))

	resolved := activity.TypeStallResolved
	byType, err := repo.ListMomentum(ctx, activity.ListMomentumOptions{ActionType: &resolved})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "m2", byType[0].ID)
}
