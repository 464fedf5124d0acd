package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/compass"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/testserver"
)

func seedActivePhase(t *testing.T, ts *testserver.TestServer) *phase.Phase {
	t.Helper()
	ph, err := ts.Phases.Create(context.Background(), phase.CreateRequest{
		Name:  "Foundation Year",
		Theme: "Build the base",
		Start: true,
	})
	require.NoError(t, err)
	require.Equal(t, phase.StatusActive, ph.Status)
	return ph
}

func createProject(t *testing.T, ts *testserver.TestServer, phaseID, name string, activate bool) *project.Project {
	t.Helper()
	proj, err := ts.Projects.Create(context.Background(), project.CreateRequest{
		PhaseID:  phaseID,
		Name:     name,
		Activate: activate,
	})
	require.NoError(t, err)
	return proj
}

func TestIntegration_FocusSlotCap(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	ph := seedActivePhase(t, ts)

	for i, name := range []string{"Book", "Garden", "Workshop"} {
		proj := createProject(t, ts, ph.ID, name, true)
		require.Equal(t, project.StatusActive, proj.Status, "slot %d should be free", i+1)
	}

	// The fourth activation request lands parked: all slots are taken.
	fourth := createProject(t, ts, ph.ID, "Newsletter", true)
	require.Equal(t, project.StatusParked, fourth.Status)

	require.ErrorIs(t, ts.Projects.CanActivate(ctx), project.ErrCapacityExceeded)

	// Toggling it to active is silently refused while the cap holds.
	got, err := ts.Projects.ToggleStatus(ctx, fourth.ID, nil)
	require.NoError(t, err)
	require.Equal(t, project.StatusParked, got.Status)

	count, err := ts.Projects.ActiveCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	// Parking one frees a slot and the toggle goes through.
	active, err := ts.Projects.List(ctx, project.ListOptions{Statuses: []project.Status{project.StatusActive}})
	require.NoError(t, err)
	_, err = ts.Projects.ToggleStatus(ctx, active[0].ID, nil)
	require.NoError(t, err)

	got, err = ts.Projects.ToggleStatus(ctx, fourth.ID, nil)
	require.NoError(t, err)
	require.Equal(t, project.StatusActive, got.Status)
}

func TestIntegration_StallCycle(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	ph := seedActivePhase(t, ts)
	proj := createProject(t, ts, ph.ID, "Book", true)

	blocked, err := ts.Projects.MarkBlocked(ctx, proj.ID, project.StallClarity)
	require.NoError(t, err)
	require.Equal(t, project.StatusBlocked, blocked.Status)
	require.NotNil(t, blocked.BlockedAt)
	require.True(t, blocked.BlockedAt.Equal(ts.Clock.Now()))

	// Blocking awards nothing.
	score, err := ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Zero(t, score)

	ts.Clock.Advance(48 * time.Hour)

	resolved, err := ts.Projects.ResolveStall(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, project.StatusActive, resolved.Status)
	require.Nil(t, resolved.StallReason)
	require.Nil(t, resolved.BlockedAt)

	score, err = ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Equal(t, project.PointsStallResolved, score)

	// Resolving again is a no-op: no double award.
	_, err = ts.Projects.ResolveStall(ctx, proj.ID)
	require.NoError(t, err)
	score, err = ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Equal(t, project.PointsStallResolved, score)

	entries, err := ts.Activity.Recent(ctx, activity.ListOptions{ProjectID: &proj.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeStallResolved, entries[0].ActionType)
	require.Equal(t, activity.TypeProjectBlocked, entries[1].ActionType)
}

func TestIntegration_ResolveStallRespectsCap(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	ph := seedActivePhase(t, ts)

	proj := createProject(t, ts, ph.ID, "Book", true)
	_, err := ts.Projects.MarkBlocked(ctx, proj.ID, project.StallWaiting)
	require.NoError(t, err)

	// Blocking released the slot; fill all three.
	for _, name := range []string{"Garden", "Workshop", "Newsletter"} {
		p := createProject(t, ts, ph.ID, name, true)
		require.Equal(t, project.StatusActive, p.Status)
	}

	got, err := ts.Projects.ResolveStall(ctx, proj.ID)
	require.NoError(t, err)
	require.Equal(t, project.StatusBlocked, got.Status, "no free slot keeps the project blocked")
	require.NotNil(t, got.StallReason)

	score, err := ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Zero(t, score, "a refused resolution awards nothing")
}

func TestIntegration_CaptureTriage(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	seedActivePhase(t, ts)

	c, err := ts.Captures.Add(ctx, "Idea: interview grandma about the farm", capture.SourceVoice)
	require.NoError(t, err)
	require.Equal(t, capture.StatusUnprocessed, c.Status)

	processed, err := ts.Captures.Process(ctx, c.ID, capture.ImportanceImportant)
	require.NoError(t, err)
	require.Equal(t, capture.StatusAbsorbed, processed.Status)

	score, err := ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Equal(t, capture.PointsAbsorbed, score)

	// A second verdict never lands and never re-awards.
	again, err := ts.Captures.Process(ctx, c.ID, capture.ImportanceInteresting)
	require.NoError(t, err)
	require.Equal(t, capture.ImportanceImportant, again.Importance)
	require.Equal(t, capture.StatusAbsorbed, again.Status)

	score, err = ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Equal(t, capture.PointsAbsorbed, score)

	pending, err := ts.Captures.UnprocessedCount(ctx)
	require.NoError(t, err)
	require.Zero(t, pending)
}

func TestIntegration_CompassDerivation(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	ph := seedActivePhase(t, ts)

	state, err := ts.Dashboard.Compass(ctx)
	require.NoError(t, err)
	require.Equal(t, compass.Aligned, state.Alignment, "no recent activity reads as aligned")
	require.Equal(t, compass.Stuck, state.Momentum)
	require.Equal(t, compass.Light, state.Chaos)
	require.Equal(t, compass.Cool, state.StallHeat)

	// Completing a project both moves momentum and logs on-phase activity.
	proj := createProject(t, ts, ph.ID, "Book", true)
	complete := project.StatusComplete
	_, err = ts.Projects.ToggleStatus(ctx, proj.ID, &complete)
	require.NoError(t, err)

	// An overflowing inbox tips chaos.
	for i := 0; i < 6; i++ {
		_, err := ts.Captures.Add(ctx, "something to sort later", capture.SourceText)
		require.NoError(t, err)
	}

	// Three aging blocks heat the stall indicator.
	for _, name := range []string{"Garden", "Workshop", "Newsletter"} {
		p := createProject(t, ts, ph.ID, name, true)
		_, err := ts.Projects.MarkBlocked(ctx, p.ID, project.StallEnergy)
		require.NoError(t, err)
	}

	state, err = ts.Dashboard.Compass(ctx)
	require.NoError(t, err)
	require.Equal(t, compass.Aligned, state.Alignment, "all recent activity is on-phase")
	require.Equal(t, compass.Heavy, state.Chaos)
	require.Equal(t, compass.Hot, state.StallHeat)
}

func TestIntegration_WeeklyWindowExpiry(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	ph := seedActivePhase(t, ts)

	proj := createProject(t, ts, ph.ID, "Book", true)
	complete := project.StatusComplete
	_, err := ts.Projects.ToggleStatus(ctx, proj.ID, &complete)
	require.NoError(t, err)

	score, err := ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Equal(t, project.PointsProjectCompleted, score)

	// The log keeps the entry; only the rolling window forgets it.
	ts.Clock.Advance(8 * 24 * time.Hour)

	score, err = ts.Dashboard.WeeklyMomentum(ctx)
	require.NoError(t, err)
	require.Zero(t, score)

	state, err := ts.Dashboard.Compass(ctx)
	require.NoError(t, err)
	require.Equal(t, compass.Stuck, state.Momentum)

	entries, err := ts.Activity.RecentMomentum(ctx, activity.ListMomentumOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1, "the log itself is never pruned")
}

func TestIntegration_PhaseHandoff(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t)
	first := seedActivePhase(t, ts)

	second, err := ts.Phases.Create(ctx, phase.CreateRequest{
		Name:  "Expansion Year",
		Theme: "Grow the reach",
		Start: true,
	})
	require.NoError(t, err)
	require.Equal(t, phase.StatusPlanned, second.Status, "a started phase defers while another is active")

	_, err = ts.Phases.SetStatus(ctx, second.ID, phase.StatusActive)
	require.NoError(t, err)

	demoted, err := ts.Phases.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, phase.StatusClosing, demoted.Status)

	active, err := ts.Phases.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)
}
