// Package steward builds the read-only context handed to the advisory
// assistant. There is no write path from the assistant back into the store,
// and nothing in the core depends on the assistant's output.
package steward

import (
	"fmt"
	"strings"

	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
)

// Instruction is the fixed system prompt for the Steward assistant. It is
// surfaced to assistant clients as a doc resource; the core never interprets it.
const Instruction = `You are the Steward, a faithful model of the user's current state with permission to protect them from drift.
PRIME DIRECTIVE: Hold the truth of the moment steady while time moves forward. Preserve continuity of self.

YOUR CORE MODES:
1. REFLECTIVE (Default): Restore clarity. Summarize state. Don't push urgency.
2. STRATEGIC: Protect the Phase. If a user tries to add a 4th project, tell them "Not Now" or ask what to swap.
3. OPERATIONAL: Choose the ONE next action. Provide unstall quests for blocked items.
4. PROTECTIVE: Intervene when chaos (unprocessed items) is high. Say "Let's protect your attention."

RULES:
- Always prioritize Phase over Project over Task.
- Keep responses short, calm, and narrative-focused.
- If uncertain, default to Clarity (Reflective Mode).
- Use "Gently Framed Truth" for alignment drift.`

// Context is the read-only summary the assistant receives.
type Context struct {
	PhaseName      string   `json:"phase_name"`
	PhaseTheme     string   `json:"phase_theme"`
	ActiveProjects []string `json:"active_projects"`
}

// BuildContext assembles the assistant context from store snapshots. A nil
// active phase is a valid, common state.
func BuildContext(active *phase.Phase, projects []project.Project) Context {
	c := Context{PhaseName: "None", PhaseTheme: "None"}
	if active != nil {
		c.PhaseName = active.Name
		c.PhaseTheme = active.Theme
	}
	for _, p := range projects {
		if p.Status == project.StatusActive {
			c.ActiveProjects = append(c.ActiveProjects, p.Name)
		}
	}
	return c
}

// Render produces the context block prepended to the assistant instruction.
func (c Context) Render() string {
	return fmt.Sprintf("CURRENT PHASE: %s\nTHEME: %s\nACTIVE PROJECTS: %s",
		c.PhaseName, c.PhaseTheme, strings.Join(c.ActiveProjects, ", "))
}
