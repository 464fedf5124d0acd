package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/repository/mocks"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestActivityService_Record(t *testing.T) {
	ctx := context.Background()
	phaseID := "ph1"

	repo := &mocks.ActivityRepository{}
	repo.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.ActionType == activity.TypeProjectBlocked &&
			e.LinkedPhaseID != nil && *e.LinkedPhaseID == "ph1" &&
			e.CreatedAt.Equal(testNow) && e.ID != ""
	})).Return(nil)

	svc := activity.NewService(repo, nil, activity.WithClock(func() time.Time { return testNow }))
	entry, err := svc.Record(ctx, activity.TypeProjectBlocked, &phaseID, nil)
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)
	repo.AssertExpectations(t)
}

func TestActivityService_RecordValidation(t *testing.T) {
	ctx := context.Background()
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)

	_, err := svc.Record(ctx, "", nil, nil)
	require.ErrorIs(t, err, activity.ErrInvalidInput)

	_, err = svc.RecordMomentum(ctx, "", 3, "x")
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityService_WeeklyScore(t *testing.T) {
	ctx := context.Background()

	inWindow := testNow.Add(-2 * 24 * time.Hour)
	repo := &mocks.ActivityRepository{}
	repo.On("ListMomentum", ctx, mock.MatchedBy(func(opts activity.ListMomentumOptions) bool {
		return opts.Since != nil && opts.Since.Equal(testNow.Add(-activity.WeeklyWindow))
	})).Return([]activity.MomentumEntry{
		{ID: "m1", ActionType: activity.TypeProjectCompleted, Points: 8, CreatedAt: inWindow},
		{ID: "m2", ActionType: activity.TypeStallResolved, Points: 4, CreatedAt: inWindow},
		{ID: "m3", ActionType: activity.TypeCaptureAbsorbed, Points: 3, CreatedAt: inWindow},
	}, nil)

	svc := activity.NewService(repo, nil)
	score, err := svc.WeeklyScore(ctx, testNow)
	require.NoError(t, err)
	require.Equal(t, 15, score)
}

func TestSumPoints(t *testing.T) {
	since := testNow.Add(-activity.WeeklyWindow)
	entries := []activity.MomentumEntry{
		{Points: 8, CreatedAt: testNow.Add(-time.Hour)},
		{Points: 4, CreatedAt: since},                 // boundary counts
		{Points: 3, CreatedAt: since.Add(-time.Hour)}, // expired
	}
	require.Equal(t, 12, activity.SumPoints(entries, since))
}
