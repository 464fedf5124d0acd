package steward_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/steward"
)

func TestBuildContext(t *testing.T) {
	active := &phase.Phase{ID: "ph1", Name: "Deep Work Spring", Theme: "craft", Status: phase.StatusActive}
	projects := []project.Project{
		{Name: "Ship the essay", Status: project.StatusActive},
		{Name: "Garden redesign", Status: project.StatusParked},
		{Name: "Learn sourdough", Status: project.StatusActive},
	}

	c := steward.BuildContext(active, projects)
	require.Equal(t, "Deep Work Spring", c.PhaseName)
	require.Equal(t, "craft", c.PhaseTheme)
	require.Equal(t, []string{"Ship the essay", "Learn sourdough"}, c.ActiveProjects)
}

func TestBuildContextNoActivePhase(t *testing.T) {
	c := steward.BuildContext(nil, nil)
	require.Equal(t, "None", c.PhaseName)
	require.Equal(t, "None", c.PhaseTheme)
	require.Empty(t, c.ActiveProjects)
}

func TestRender(t *testing.T) {
	c := steward.Context{
		PhaseName:      "Deep Work Spring",
		PhaseTheme:     "craft",
		ActiveProjects: []string{"Ship the essay", "Learn sourdough"},
	}
	require.Equal(t,
		"CURRENT PHASE: Deep Work Spring\nTHEME: craft\nACTIVE PROJECTS: Ship the essay, Learn sourdough",
		c.Render())
}
