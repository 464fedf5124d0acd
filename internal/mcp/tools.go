package mcp

import (
	"context"
	"time"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolHandlers struct {
	svc Services
}

func registerTools(server *sdkmcp.Server, svc Services) {
	h := &toolHandlers{svc: svc}

	// Orientation
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_compass",
		Description: "Get the current compass reading: alignment, momentum, chaos, and stall heat. START HERE to orient before suggesting what to work on.",
	}, h.getCompass)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_weekly_momentum",
		Description: "Get the rolling 7-day momentum score (project completions, stall resolutions, absorbed captures).",
	}, h.getWeeklyMomentum)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_steward_context",
		Description: "Get the advisory context: current phase, theme, and the active project names. Use this before giving prioritization advice.",
	}, h.getStewardContext)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Get recent activity log entries, optionally filtered by action type, phase, or project.",
	}, h.getRecentActivity)

	// Phases
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_phases",
		Description: "List all life phases, newest first.",
	}, h.listPhases)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_phase",
		Description: "Create a new life phase. Phases start planned unless start=true and no other phase is active.",
	}, h.createPhase)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_phase_status",
		Description: "Change a phase's status (planned, active, closing, archived). Activating a phase moves the current active phase to closing.",
	}, h.setPhaseStatus)

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, optionally filtered by phase or status. Sorted by last activity.",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its milestones by ID.",
	}, h.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project in a phase. Projects start parked unless activate=true and a focus slot (max 3 active) is free.",
	}, h.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_project_status",
		Description: "Toggle a project between active and parked, or move it to an explicit status. Activation is silently refused when all 3 focus slots are taken; check the returned status.",
	}, h.toggleProjectStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "mark_blocked",
		Description: "Mark a project as blocked with a stall reason. The reason selects an unstall quest (a concrete smallest next step).",
	}, h.markBlocked)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_stall",
		Description: "Resolve a blocked project back to active and award momentum. Refused silently when all focus slots are taken.",
	}, h.resolveStall)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_milestone",
		Description: "Mark a project milestone as completed. Idempotent.",
	}, h.completeMilestone)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_next_action",
		Description: "Set a project's next action. An empty next action on an active project raises chaos.",
	}, h.setNextAction)

	// Captures
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_capture",
		Description: "Add a raw capture to the inbox (thought, link, voice note). Captures wait unprocessed until triaged.",
	}, h.addCapture)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "process_capture",
		Description: "Triage a capture: important absorbs it (awards momentum), interesting parks it. Already-processed captures are returned unchanged.",
	}, h.processCapture)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_captures",
		Description: "List captures, optionally filtered by triage status.",
	}, h.listCaptures)

	// Reflection
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_decision",
		Description: "Log a decision with its context, tradeoffs, and reversibility for the current phase.",
	}, h.logDecision)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_insight",
		Description: "Log an insight and its implication for the current phase.",
	}, h.logInsight)
}

// EmptyArgs is used by tools that take no arguments.
type EmptyArgs struct{}

type compassResult struct {
	Alignment string `json:"alignment"`
	Momentum  string `json:"momentum"`
	Chaos     string `json:"chaos"`
	StallHeat string `json:"stall_heat"`
}

func (h *toolHandlers) getCompass(ctx context.Context, req *sdkmcp.CallToolRequest, args EmptyArgs) (*sdkmcp.CallToolResult, any, error) {
	state, err := h.svc.Dashboard.Compass(ctx)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, compassResult{
		Alignment: string(state.Alignment),
		Momentum:  string(state.Momentum),
		Chaos:     string(state.Chaos),
		StallHeat: string(state.StallHeat),
	}, nil
}

type weeklyMomentumResult struct {
	Score int `json:"score"`
}

func (h *toolHandlers) getWeeklyMomentum(ctx context.Context, req *sdkmcp.CallToolRequest, args EmptyArgs) (*sdkmcp.CallToolResult, any, error) {
	score, err := h.svc.Dashboard.WeeklyMomentum(ctx)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, weeklyMomentumResult{Score: score}, nil
}

type stewardContextResult struct {
	Instructions string   `json:"instructions"`
	Context      string   `json:"context"`
	PhaseName    string   `json:"phase_name"`
	PhaseTheme   string   `json:"phase_theme"`
	Projects     []string `json:"active_projects"`
}

func (h *toolHandlers) getStewardContext(ctx context.Context, req *sdkmcp.CallToolRequest, args EmptyArgs) (*sdkmcp.CallToolResult, any, error) {
	sc, err := h.svc.Dashboard.StewardContext(ctx)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, stewardContextResult{
		Instructions: stewardInstruction(),
		Context:      sc.Render(),
		PhaseName:    sc.PhaseName,
		PhaseTheme:   sc.PhaseTheme,
		Projects:     sc.ActiveProjects,
	}, nil
}

// RecentActivityArgs filters the activity query.
type RecentActivityArgs struct {
	ActionType string `json:"action_type,omitempty" jsonschema:"Filter by action type (e.g. project_completed, stall_resolved, capture_processed)"`
	PhaseID    string `json:"phase_id,omitempty" jsonschema:"Filter by linked phase ID"`
	ProjectID  string `json:"project_id,omitempty" jsonschema:"Filter by linked project ID"`
	Since      string `json:"since,omitempty" jsonschema:"Only entries at or after this RFC 3339 timestamp"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of entries (default 50)"`
}

type recentActivityResult struct {
	Entries []activity.Entry `json:"entries"`
}

func (h *toolHandlers) getRecentActivity(ctx context.Context, req *sdkmcp.CallToolRequest, args RecentActivityArgs) (*sdkmcp.CallToolResult, any, error) {
	opts := activity.ListOptions{Limit: args.Limit}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if args.ActionType != "" {
		at := activity.ActionType(args.ActionType)
		opts.ActionType = &at
	}
	if args.PhaseID != "" {
		opts.PhaseID = &args.PhaseID
	}
	if args.ProjectID != "" {
		opts.ProjectID = &args.ProjectID
	}
	if args.Since != "" {
		since, err := time.Parse(time.RFC3339, args.Since)
		if err != nil {
			return nil, nil, &APIError{Code: "INVALID_INPUT", Message: "since must be RFC 3339", RecoveryHint: "Example: 2026-08-23T00:00:00Z"}
		}
		opts.Since = &since
	}
	entries, err := h.svc.Activity.Recent(ctx, opts)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, recentActivityResult{Entries: entries}, nil
}

type phaseListResult struct {
	Phases []phase.Phase `json:"phases"`
}

func (h *toolHandlers) listPhases(ctx context.Context, req *sdkmcp.CallToolRequest, args EmptyArgs) (*sdkmcp.CallToolResult, any, error) {
	phases, err := h.svc.Phases.List(ctx)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, phaseListResult{Phases: phases}, nil
}

// CreatePhaseArgs describes a new life phase.
type CreatePhaseArgs struct {
	Name            string `json:"name" jsonschema:"Phase name (e.g. 'Deep Work Spring')"`
	Theme           string `json:"theme,omitempty" jsonschema:"The organizing theme of this phase"`
	SuccessCriteria string `json:"success_criteria,omitempty" jsonschema:"What finished looks like for this phase"`
	Description     string `json:"description,omitempty" jsonschema:"Longer free-form description"`
	TimeHorizon     string `json:"time_horizon,omitempty" jsonschema:"Rough duration (e.g. '3 months')"`
	Start           bool   `json:"start,omitempty" jsonschema:"Activate immediately if no other phase is active"`
}

func (h *toolHandlers) createPhase(ctx context.Context, req *sdkmcp.CallToolRequest, args CreatePhaseArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Phases.Create(ctx, phase.CreateRequest{
		Name:            args.Name,
		Theme:           args.Theme,
		SuccessCriteria: args.SuccessCriteria,
		Description:     args.Description,
		TimeHorizon:     args.TimeHorizon,
		Start:           args.Start,
	})
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// SetPhaseStatusArgs moves a phase through its lifecycle.
type SetPhaseStatusArgs struct {
	ID     string `json:"id" jsonschema:"Phase ID"`
	Status string `json:"status" jsonschema:"Target status: planned, active, closing, or archived"`
}

func (h *toolHandlers) setPhaseStatus(ctx context.Context, req *sdkmcp.CallToolRequest, args SetPhaseStatusArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Phases.SetStatus(ctx, args.ID, phase.Status(args.Status))
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// ListProjectsArgs filters the project list.
type ListProjectsArgs struct {
	PhaseID  string   `json:"phase_id,omitempty" jsonschema:"Filter by phase ID"`
	Statuses []string `json:"statuses,omitempty" jsonschema:"Filter by statuses: active, parked, blocked, complete, archived"`
	Limit    int      `json:"limit,omitempty" jsonschema:"Maximum number of projects"`
}

type projectListResult struct {
	Projects []project.Project `json:"projects"`
}

func (h *toolHandlers) listProjects(ctx context.Context, req *sdkmcp.CallToolRequest, args ListProjectsArgs) (*sdkmcp.CallToolResult, any, error) {
	opts := project.ListOptions{PhaseID: args.PhaseID, Limit: args.Limit}
	for _, s := range args.Statuses {
		opts.Statuses = append(opts.Statuses, project.Status(s))
	}
	projects, err := h.svc.Projects.List(ctx, opts)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, projectListResult{Projects: projects}, nil
}

// GetProjectArgs identifies a project.
type GetProjectArgs struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

func (h *toolHandlers) getProject(ctx context.Context, req *sdkmcp.CallToolRequest, args GetProjectArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Projects.Get(ctx, args.ID)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// CreateProjectArgs describes a new project.
type CreateProjectArgs struct {
	PhaseID    string   `json:"phase_id" jsonschema:"Phase this project belongs to"`
	Name       string   `json:"name" jsonschema:"Project name"`
	Purpose    string   `json:"purpose,omitempty" jsonschema:"Why this project matters"`
	NextAction string   `json:"next_action,omitempty" jsonschema:"The concrete next step"`
	AreaOfLife string   `json:"area_of_life,omitempty" jsonschema:"Life area (e.g. health, craft, relationships)"`
	Milestones []string `json:"milestones,omitempty" jsonschema:"Ordered milestone titles"`
	Activate   bool     `json:"activate,omitempty" jsonschema:"Claim a focus slot immediately if one is free"`
}

func (h *toolHandlers) createProject(ctx context.Context, req *sdkmcp.CallToolRequest, args CreateProjectArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Projects.Create(ctx, project.CreateRequest{
		PhaseID:    args.PhaseID,
		Name:       args.Name,
		Purpose:    args.Purpose,
		NextAction: args.NextAction,
		AreaOfLife: args.AreaOfLife,
		Milestones: args.Milestones,
		Activate:   args.Activate,
	})
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// ToggleProjectStatusArgs toggles or sets a project status.
type ToggleProjectStatusArgs struct {
	ID     string `json:"id" jsonschema:"Project ID"`
	Status string `json:"status,omitempty" jsonschema:"Explicit target status (omit to toggle between active and parked)"`
}

func (h *toolHandlers) toggleProjectStatus(ctx context.Context, req *sdkmcp.CallToolRequest, args ToggleProjectStatusArgs) (*sdkmcp.CallToolResult, any, error) {
	var target *project.Status
	if args.Status != "" {
		s := project.Status(args.Status)
		target = &s
	}
	p, err := h.svc.Projects.ToggleStatus(ctx, args.ID, target)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// MarkBlockedArgs records why a project stalled.
type MarkBlockedArgs struct {
	ID     string `json:"id" jsonschema:"Project ID"`
	Reason string `json:"reason" jsonschema:"Stall reason: waiting_on_someone, missing_clarity, needs_decision, too_big, energy_mismatch, tooling_dependency, or low_phase_relevance"`
}

type blockedResult struct {
	Project *project.Project `json:"project"`
	Quest   string           `json:"quest,omitempty"`
}

func (h *toolHandlers) markBlocked(ctx context.Context, req *sdkmcp.CallToolRequest, args MarkBlockedArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Projects.MarkBlocked(ctx, args.ID, project.StallReason(args.Reason))
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	out := blockedResult{Project: p}
	if p.StallReason != nil {
		out.Quest = p.StallReason.Quest()
	}
	return nil, out, nil
}

// ResolveStallArgs identifies the blocked project.
type ResolveStallArgs struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

func (h *toolHandlers) resolveStall(ctx context.Context, req *sdkmcp.CallToolRequest, args ResolveStallArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Projects.ResolveStall(ctx, args.ID)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// CompleteMilestoneArgs identifies the milestone.
type CompleteMilestoneArgs struct {
	ProjectID   string `json:"project_id" jsonschema:"Project ID"`
	MilestoneID string `json:"milestone_id" jsonschema:"Milestone ID"`
}

func (h *toolHandlers) completeMilestone(ctx context.Context, req *sdkmcp.CallToolRequest, args CompleteMilestoneArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Projects.CompleteMilestone(ctx, args.ProjectID, args.MilestoneID)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// SetNextActionArgs updates a project's next step.
type SetNextActionArgs struct {
	ID         string `json:"id" jsonschema:"Project ID"`
	NextAction string `json:"next_action" jsonschema:"The concrete next step (empty clears it)"`
}

func (h *toolHandlers) setNextAction(ctx context.Context, req *sdkmcp.CallToolRequest, args SetNextActionArgs) (*sdkmcp.CallToolResult, any, error) {
	p, err := h.svc.Projects.SetNextAction(ctx, args.ID, args.NextAction)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, p, nil
}

// AddCaptureArgs records a raw capture.
type AddCaptureArgs struct {
	Text   string `json:"text" jsonschema:"The captured thought, link, or note"`
	Source string `json:"source,omitempty" jsonschema:"Where it came from: text, voice, screenshot, or forwarded (default text)"`
}

func (h *toolHandlers) addCapture(ctx context.Context, req *sdkmcp.CallToolRequest, args AddCaptureArgs) (*sdkmcp.CallToolResult, any, error) {
	c, err := h.svc.Captures.Add(ctx, args.Text, capture.Source(args.Source))
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, c, nil
}

// ProcessCaptureArgs triages a capture.
type ProcessCaptureArgs struct {
	ID         string `json:"id" jsonschema:"Capture ID"`
	Importance string `json:"importance" jsonschema:"Triage verdict: important (absorb) or interesting (park)"`
}

func (h *toolHandlers) processCapture(ctx context.Context, req *sdkmcp.CallToolRequest, args ProcessCaptureArgs) (*sdkmcp.CallToolResult, any, error) {
	c, err := h.svc.Captures.Process(ctx, args.ID, capture.Importance(args.Importance))
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, c, nil
}

// ListCapturesArgs filters the capture inbox.
type ListCapturesArgs struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by triage status: unprocessed, absorbed, or parked"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of captures"`
}

type captureListResult struct {
	Captures []capture.Capture `json:"captures"`
}

func (h *toolHandlers) listCaptures(ctx context.Context, req *sdkmcp.CallToolRequest, args ListCapturesArgs) (*sdkmcp.CallToolResult, any, error) {
	opts := capture.ListOptions{Limit: args.Limit}
	if args.Status != "" {
		st := capture.TriageStatus(args.Status)
		opts.Status = &st
	}
	captures, err := h.svc.Captures.List(ctx, opts)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, captureListResult{Captures: captures}, nil
}

// LogDecisionArgs records a decision.
type LogDecisionArgs struct {
	Statement     string `json:"statement" jsonschema:"The decision made"`
	Context       string `json:"context,omitempty" jsonschema:"The situation that forced the decision"`
	Tradeoffs     string `json:"tradeoffs,omitempty" jsonschema:"What was given up"`
	ProjectID     string `json:"project_id,omitempty" jsonschema:"Related project ID"`
	PhaseID       string `json:"phase_id" jsonschema:"Phase this decision belongs to"`
	Reversibility string `json:"reversibility,omitempty" jsonschema:"easy or hard"`
}

func (h *toolHandlers) logDecision(ctx context.Context, req *sdkmcp.CallToolRequest, args LogDecisionArgs) (*sdkmcp.CallToolResult, any, error) {
	dr := reflection.DecisionRequest{
		Statement:     args.Statement,
		Context:       args.Context,
		Tradeoffs:     args.Tradeoffs,
		PhaseID:       args.PhaseID,
		Reversibility: reflection.Reversibility(args.Reversibility),
	}
	if args.ProjectID != "" {
		dr.ProjectID = &args.ProjectID
	}
	d, err := h.svc.Reflections.AddDecision(ctx, dr)
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, d, nil
}

// LogInsightArgs records an insight.
type LogInsightArgs struct {
	Statement   string `json:"statement" jsonschema:"The insight"`
	Source      string `json:"source,omitempty" jsonschema:"Where it came from: reflection, ai, or experience (default reflection)"`
	Implication string `json:"implication,omitempty" jsonschema:"What this changes going forward"`
	PhaseID     string `json:"phase_id" jsonschema:"Phase this insight belongs to"`
}

func (h *toolHandlers) logInsight(ctx context.Context, req *sdkmcp.CallToolRequest, args LogInsightArgs) (*sdkmcp.CallToolResult, any, error) {
	i, err := h.svc.Reflections.AddInsight(ctx, reflection.InsightRequest{
		Statement:   args.Statement,
		Source:      reflection.InsightSource(args.Source),
		Implication: args.Implication,
		PhaseID:     args.PhaseID,
	})
	if err != nil {
		return nil, nil, mapToolError(err)
	}
	return nil, i, nil
}
