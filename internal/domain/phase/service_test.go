package phase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/repository"
	"github.com/atteev/continuum/internal/repository/mocks"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newService(repo *mocks.PhaseRepository, activities *mocks.ActivityRepository) *phase.Service {
	return phase.NewService(repo, activities, nil, phase.WithClock(func() time.Time { return testNow }))
}

func TestPhaseService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(&mocks.PhaseRepository{}, &mocks.ActivityRepository{})

	_, err := svc.Create(ctx, phase.CreateRequest{Name: "  "})
	require.ErrorIs(t, err, phase.ErrInvalidInput)
}

func TestPhaseService_CreateStartsPlanned(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := newService(repo, &mocks.ActivityRepository{})
	ph, err := svc.Create(ctx, phase.CreateRequest{Name: "Deep Work Spring", Theme: "craft"})
	require.NoError(t, err)
	require.Equal(t, phase.StatusPlanned, ph.Status)
	require.Equal(t, testNow, ph.StartDate)
	require.Zero(t, ph.Progress)
}

func TestPhaseService_CreateStartActivatesWhenNoneActive(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("GetActive", ctx).Return((*phase.Phase)(nil), repository.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := newService(repo, &mocks.ActivityRepository{})
	ph, err := svc.Create(ctx, phase.CreateRequest{Name: "Deep Work Spring", Start: true})
	require.NoError(t, err)
	require.Equal(t, phase.StatusActive, ph.Status)
}

func TestPhaseService_CreateStartDeferredWhenAnotherActive(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("GetActive", ctx).Return(&phase.Phase{ID: "ph0", Status: phase.StatusActive}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := newService(repo, &mocks.ActivityRepository{})
	ph, err := svc.Create(ctx, phase.CreateRequest{Name: "Deep Work Spring", Start: true})
	require.NoError(t, err)
	require.Equal(t, phase.StatusPlanned, ph.Status)
}

func TestPhaseService_ActiveNilWhenNone(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("GetActive", ctx).Return((*phase.Phase)(nil), repository.ErrNotFound)

	svc := newService(repo, &mocks.ActivityRepository{})
	ph, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Nil(t, ph)
}

func TestPhaseService_SetStatusDemotesCurrentActive(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("Get", ctx, "ph2").Return(&phase.Phase{ID: "ph2", Status: phase.StatusPlanned}, nil)
	repo.On("GetActive", ctx).Return(&phase.Phase{ID: "ph1", Status: phase.StatusActive}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(p *phase.Phase) bool {
		return p.ID == "ph1" && p.Status == phase.StatusClosing
	})).Return(nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(p *phase.Phase) bool {
		return p.ID == "ph2" && p.Status == phase.StatusActive
	})).Return(nil).Once()

	activities := &mocks.ActivityRepository{}
	activities.On("Append", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.ActionType == activity.TypePhaseStatusChange && e.LinkedPhaseID != nil && *e.LinkedPhaseID == "ph2"
	})).Return(nil)

	svc := newService(repo, activities)
	ph, err := svc.SetStatus(ctx, "ph2", phase.StatusActive)
	require.NoError(t, err)
	require.Equal(t, phase.StatusActive, ph.Status)
	repo.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestPhaseService_SetStatusSameNoOp(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("Get", ctx, "ph1").Return(&phase.Phase{ID: "ph1", Status: phase.StatusClosing}, nil)

	svc := newService(repo, &mocks.ActivityRepository{})
	ph, err := svc.SetStatus(ctx, "ph1", phase.StatusClosing)
	require.NoError(t, err)
	require.Equal(t, phase.StatusClosing, ph.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPhaseService_SetStatusInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newService(&mocks.PhaseRepository{}, &mocks.ActivityRepository{})

	_, err := svc.SetStatus(ctx, "ph1", phase.Status("paused"))
	require.ErrorIs(t, err, phase.ErrInvalidInput)
}

func TestPhaseService_UpdateProgressClamps(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("Get", ctx, "ph1").Return(&phase.Phase{ID: "ph1", Status: phase.StatusActive}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	svc := newService(repo, &mocks.ActivityRepository{})

	ph, err := svc.UpdateProgress(ctx, "ph1", 150)
	require.NoError(t, err)
	require.Equal(t, 100, ph.Progress)

	ph, err = svc.UpdateProgress(ctx, "ph1", -5)
	require.NoError(t, err)
	require.Equal(t, 0, ph.Progress)
}

func TestPhaseService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PhaseRepository{}
	repo.On("Get", ctx, "nope").Return((*phase.Phase)(nil), repository.ErrNotFound)

	svc := newService(repo, &mocks.ActivityRepository{})
	_, err := svc.Get(ctx, "nope")
	require.ErrorIs(t, err, phase.ErrPhaseNotFound)
}
