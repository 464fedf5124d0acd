package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/repository"
)

func seedPhase(t *testing.T, db *DB, id string) {
	t.Helper()
	repo := NewPhaseRepository(db)
	require.NoError(t, repo.Create(context.Background(), &phase.Phase{
		ID:        id,
		Name:      "Phase " + id,
		Status:    phase.StatusActive,
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func testProject(id, phaseID string, status project.Status, lastActive time.Time) *project.Project {
	return &project.Project{
		ID:         id,
		PhaseID:    phaseID,
		Name:       "Project " + id,
		Purpose:    "because",
		Status:     status,
		NextAction: "do the thing",
		AreaOfLife: "craft",
		LastActive: lastActive,
	}
}

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	seedPhase(t, db, "ph1")
	repo := NewProjectRepository(db)
	ctx := context.Background()

	lastActive := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testProject("p1", "ph1", project.StatusParked, lastActive)))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Project p1", got.Name)
	require.Equal(t, project.StatusParked, got.Status)
	require.Nil(t, got.StallReason)
	require.Nil(t, got.BlockedAt)
	require.Empty(t, got.Milestones)

	_, err = repo.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_CreateUnknownPhase(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, testProject("p1", "ghost", project.StatusParked, time.Now()))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestProjectRepository_UpdateStallFields(t *testing.T) {
	db := NewTestDB(t)
	seedPhase(t, db, "ph1")
	repo := NewProjectRepository(db)
	ctx := context.Background()

	lastActive := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	proj := testProject("p1", "ph1", project.StatusActive, lastActive)
	require.NoError(t, repo.Create(ctx, proj))

	reason := project.StallTooBig
	blockedAt := lastActive.Add(24 * time.Hour)
	proj.Status = project.StatusBlocked
	proj.StallReason = &reason
	proj.BlockedAt = &blockedAt
	require.NoError(t, repo.Update(ctx, proj))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, project.StatusBlocked, got.Status)
	require.NotNil(t, got.StallReason)
	require.Equal(t, project.StallTooBig, *got.StallReason)
	require.NotNil(t, got.BlockedAt)
	require.True(t, got.BlockedAt.Equal(blockedAt))

	// Clearing the stall fields persists NULLs.
	proj.Status = project.StatusActive
	proj.StallReason = nil
	proj.BlockedAt = nil
	require.NoError(t, repo.Update(ctx, proj))

	got, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Nil(t, got.StallReason)
	require.Nil(t, got.BlockedAt)
}

func TestProjectRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	seedPhase(t, db, "ph1")
	seedPhase(t, db, "ph2")
	repo := NewProjectRepository(db)
	ctx := context.Background()

	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testProject("p1", "ph1", project.StatusActive, older)))
	require.NoError(t, repo.Create(ctx, testProject("p2", "ph1", project.StatusParked, newer)))
	require.NoError(t, repo.Create(ctx, testProject("p3", "ph2", project.StatusActive, newer)))

	all, err := repo.List(ctx, project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Most recently active first.
	require.Equal(t, "p1", all[2].ID)

	byPhase, err := repo.List(ctx, project.ListOptions{PhaseID: "ph1"})
	require.NoError(t, err)
	require.Len(t, byPhase, 2)

	active, err := repo.List(ctx, project.ListOptions{Statuses: []project.Status{project.StatusActive}})
	require.NoError(t, err)
	require.Len(t, active, 2)

	both, err := repo.List(ctx, project.ListOptions{
		PhaseID:  "ph1",
		Statuses: []project.Status{project.StatusActive, project.StatusBlocked},
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, "p1", both[0].ID)
}

func TestProjectRepository_CountByStatus(t *testing.T) {
	db := NewTestDB(t)
	seedPhase(t, db, "ph1")
	repo := NewProjectRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testProject("p1", "ph1", project.StatusActive, now)))
	require.NoError(t, repo.Create(ctx, testProject("p2", "ph1", project.StatusActive, now)))
	require.NoError(t, repo.Create(ctx, testProject("p3", "ph1", project.StatusParked, now)))

	count, err := repo.CountByStatus(ctx, project.StatusActive)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = repo.CountByStatus(ctx, project.StatusBlocked)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestProjectRepository_Milestones(t *testing.T) {
	db := NewTestDB(t)
	seedPhase(t, db, "ph1")
	repo := NewProjectRepository(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testProject("p1", "ph1", project.StatusActive, now)))

	require.NoError(t, repo.AddMilestone(ctx, &project.Milestone{ID: "m2", ProjectID: "p1", Title: "Review", Sequence: 2}))
	require.NoError(t, repo.AddMilestone(ctx, &project.Milestone{ID: "m1", ProjectID: "p1", Title: "Draft", Sequence: 1}))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Milestones, 2)
	require.Equal(t, "m1", got.Milestones[0].ID, "milestones are ordered by sequence")
	require.Equal(t, "m2", got.Milestones[1].ID)
	require.False(t, got.Milestones[0].IsCompleted)

	done := now.Add(time.Hour)
	require.NoError(t, repo.UpdateMilestone(ctx, &project.Milestone{
		ID: "m1", ProjectID: "p1", Title: "Draft", Sequence: 1,
		IsCompleted: true, CompletedAt: &done,
	}))

	got, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.True(t, got.Milestones[0].IsCompleted)
	require.NotNil(t, got.Milestones[0].CompletedAt)

	err = repo.UpdateMilestone(ctx, &project.Milestone{ID: "ghost", ProjectID: "p1"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
