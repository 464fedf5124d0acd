package mcp

import (
	"context"
	"strings"

	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/steward"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `continuum manages one person's life as Phases → Projects → Captures.

Core concepts (keep this mental model small):
- Phase: the current chapter of life with a theme. At most one is active.
- Project: a concrete commitment inside a phase. At most 3 projects are active
  at once; activation beyond that is silently refused, so always check the
  returned status.
- Capture: a raw inbound thought waiting for triage (important → absorbed,
  interesting → parked).
- Compass: a derived reading of alignment, momentum, chaos, and stall heat.
  It is computed from the last 7 days of activity; nothing stores it.
- Momentum: points for finishing things (complete project 8, resolve stall 4,
  absorb capture 3), summed over a rolling 7-day window.

Rules of engagement (default workflow):
1) Orient: call get_compass and get_weekly_momentum before advising.
2) Advise: call get_steward_context and follow its instructions verbatim.
3) Browse cheaply: list_projects / list_captures / get_recent_activity.
4) Unblock: when a project stalls, mark_blocked with an honest reason; the
   response includes an unstall quest (the smallest next step). resolve_stall
   when the quest is done.
5) Triage: process_capture promptly; a full inbox raises chaos.
6) Never suggest activating a fourth project. Suggest parking one instead.

Docs (progressive disclosure):
- continuum://docs/index (what to read when)
- continuum://docs/concepts (glossary + derivation rules)
- continuum://docs/stall-quests (reason → quest table)
- continuum://docs/steward (the full advisory instruction)
`

func stewardInstruction() string {
	return steward.Instruction
}

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

func docResources() []docResource {
	return []docResource{
		{
			URI:         "continuum://docs/index",
			Name:        "docs_index",
			Title:       "continuum docs index",
			Description: "Entry point for agent-facing docs: what exists and what to read when.",
			Content: `# continuum: Agent Docs Index

This server is designed for **progressive disclosure**: keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`get_compass`" + ` to read alignment, momentum, chaos, and stall heat.
2. ` + "`get_steward_context`" + ` before giving any prioritization advice.
3. ` + "`list_projects`" + ` / ` + "`list_captures`" + ` to browse state.
4. Mutate via ` + "`toggle_project_status`" + ` / ` + "`mark_blocked`" + ` / ` + "`resolve_stall`" + ` / ` + "`process_capture`" + `.

## Docs (read on demand)

- ` + "`continuum://docs/concepts`" + ` — glossary + compass derivation rules.
- ` + "`continuum://docs/stall-quests`" + ` — the stall reason → unstall quest table.
- ` + "`continuum://docs/steward`" + ` — the full advisory instruction text.

## Intentional limitations

- Activating a project when all 3 focus slots are taken is **silently refused**: the call succeeds and returns the unchanged project. Check the returned status.
- Compass readings are derived on demand from the last 7 days; there is no history endpoint for past readings.
`,
		},
		{
			URI:         "continuum://docs/concepts",
			Name:        "docs_concepts",
			Title:       "Concepts and derivation rules",
			Description: "Glossary plus the exact rules behind compass readings and momentum scoring.",
			Content: `# Concepts and derivation rules

## Glossary

- **Phase**: the current chapter of life (` + "`planned | active | closing | archived`" + `). At most one active.
- **Project**: a commitment inside a phase (` + "`active | parked | blocked | complete | archived`" + `). At most 3 active.
- **Focus slot**: one of the 3 active-project positions. Slots are never overcommitted.
- **Capture**: raw inbound material (` + "`unprocessed | absorbed | parked`" + `).
- **Activity log**: append-only record of every meaningful action. Entries are never edited or deleted.
- **Momentum log**: append-only record of awarded points.

## Compass derivation (rolling 7 days)

- **Alignment**: share of recent activity linked to the active phase. ≥70% Aligned, ≥40% Drifting, below Off-Track. An empty week reads Aligned.
- **Momentum**: Flowing with 3+ milestone completions or 2+ stall resolutions this week; Slow with any scoring activity; Stuck otherwise.
- **Chaos**: unprocessed captures plus active projects missing a next action. 6+ Heavy, 3+ Moderate, below Light.
- **Stall heat**: Hot with 3+ blocked projects or any block older than 14 days; Warm with any block; Cool otherwise.

## Momentum points

| Event | Points |
|---|---|
| Project completed | 8 |
| Stall resolved | 4 |
| Capture absorbed | 3 |

Milestone completions are logged but score no points on their own.
`,
		},
		{
			URI:         "continuum://docs/stall-quests",
			Name:        "docs_stall_quests",
			Title:       "Stall reasons and unstall quests",
			Description: "Each stall reason maps to a fixed quest: the smallest concrete step that unblocks the project.",
			Content:     stallQuestDoc(),
		},
		{
			URI:         "continuum://docs/steward",
			Name:        "docs_steward",
			Title:       "Steward instruction",
			Description: "The full advisory instruction the assistant follows when giving guidance.",
			Content:     steward.Instruction,
		},
	}
}

func stallQuestDoc() string {
	var b strings.Builder
	b.WriteString("# Stall reasons and unstall quests\n\n")
	b.WriteString("When a project is marked blocked, the chosen reason selects a quest:\n\n")
	b.WriteString("| Reason | Quest |\n|---|---|\n")
	for _, reason := range project.StallReasons() {
		b.WriteString("| `")
		b.WriteString(string(reason))
		b.WriteString("` | ")
		b.WriteString(reason.Quest())
		b.WriteString(" |\n")
	}
	b.WriteString("\nResolving any stall awards 4 momentum points.\n")
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources() {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
