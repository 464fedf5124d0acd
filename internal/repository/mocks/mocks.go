package mocks

import (
	"context"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
	"github.com/stretchr/testify/mock"
)

// PhaseRepository is a mock for phase.Repository.
type PhaseRepository struct {
	mock.Mock
}

func (m *PhaseRepository) Create(ctx context.Context, ph *phase.Phase) error {
	args := m.Called(ctx, ph)
	return args.Error(0)
}

func (m *PhaseRepository) Get(ctx context.Context, id string) (*phase.Phase, error) {
	args := m.Called(ctx, id)
	if ph, ok := args.Get(0).(*phase.Phase); ok {
		return ph, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PhaseRepository) GetActive(ctx context.Context) (*phase.Phase, error) {
	args := m.Called(ctx)
	if ph, ok := args.Get(0).(*phase.Phase); ok {
		return ph, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PhaseRepository) List(ctx context.Context) ([]phase.Phase, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]phase.Phase); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PhaseRepository) Update(ctx context.Context, ph *phase.Phase) error {
	args := m.Called(ctx, ph)
	return args.Error(0)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) CountByStatus(ctx context.Context, status project.Status) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *ProjectRepository) AddMilestone(ctx context.Context, ms *project.Milestone) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *ProjectRepository) UpdateMilestone(ctx context.Context, ms *project.Milestone) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

// CaptureRepository is a mock for capture.Repository.
type CaptureRepository struct {
	mock.Mock
}

func (m *CaptureRepository) Create(ctx context.Context, c *capture.Capture) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CaptureRepository) Get(ctx context.Context, id string) (*capture.Capture, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*capture.Capture); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CaptureRepository) Update(ctx context.Context, c *capture.Capture) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CaptureRepository) List(ctx context.Context, opts capture.ListOptions) ([]capture.Capture, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]capture.Capture); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CaptureRepository) CountByStatus(ctx context.Context, status capture.TriageStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) AppendMomentum(ctx context.Context, entry *activity.MomentumEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListMomentum(ctx context.Context, opts activity.ListMomentumOptions) ([]activity.MomentumEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.MomentumEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ReflectionRepository is a mock for reflection.Repository.
type ReflectionRepository struct {
	mock.Mock
}

func (m *ReflectionRepository) CreateDecision(ctx context.Context, d *reflection.Decision) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *ReflectionRepository) CreateInsight(ctx context.Context, i *reflection.Insight) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *ReflectionRepository) ListDecisions(ctx context.Context, phaseID string) ([]reflection.Decision, error) {
	args := m.Called(ctx, phaseID)
	if list, ok := args.Get(0).([]reflection.Decision); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReflectionRepository) ListInsights(ctx context.Context, phaseID string) ([]reflection.Insight, error) {
	args := m.Called(ctx, phaseID)
	if list, ok := args.Get(0).([]reflection.Insight); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
