// Package transport exposes the continuum core as a plain JSON API. It is
// the surface companion apps poll; the MCP server is the conversational one.
package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atteev/continuum/internal/domain/activity"
	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/dashboard"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
)

// Services contains the domain services the API dispatches to.
type Services struct {
	Phases      *phase.Service
	Projects    *project.Service
	Captures    *capture.Service
	Activity    *activity.Service
	Reflections *reflection.Service
	Dashboard   *dashboard.Service
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewRouter creates the API router.
func NewRouter(svc Services, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	srv := &Server{svc: svc, logger: logger}

	r.Get("/health", srv.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/snapshot", srv.handleSnapshot)
		r.Get("/compass", srv.handleCompass)
		r.Get("/momentum", srv.handleMomentum)
		r.Get("/steward", srv.handleSteward)
		r.Get("/activity", srv.handleActivity)

		r.Get("/phases", srv.handleListPhases)
		r.Post("/phases", srv.handleCreatePhase)
		r.Post("/phases/{id}/status", srv.handleSetPhaseStatus)
		r.Get("/phases/{id}/decisions", srv.handleListDecisions)
		r.Get("/phases/{id}/insights", srv.handleListInsights)

		r.Get("/projects", srv.handleListProjects)
		r.Post("/projects", srv.handleCreateProject)
		r.Get("/projects/{id}", srv.handleGetProject)
		r.Post("/projects/{id}/toggle", srv.handleToggleProject)
		r.Post("/projects/{id}/block", srv.handleBlockProject)
		r.Post("/projects/{id}/resolve", srv.handleResolveStall)
		r.Post("/projects/{id}/next-action", srv.handleSetNextAction)
		r.Post("/projects/{id}/milestones/{milestoneID}/complete", srv.handleCompleteMilestone)

		r.Get("/captures", srv.handleListCaptures)
		r.Post("/captures", srv.handleAddCapture)
		r.Post("/captures/{id}/process", srv.handleProcessCapture)

		r.Post("/decisions", srv.handleLogDecision)
		r.Post("/insights", srv.handleLogInsight)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Dashboard.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCompass(w http.ResponseWriter, r *http.Request) {
	state, err := s.svc.Dashboard.Compass(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleMomentum(w http.ResponseWriter, r *http.Request) {
	score, err := s.svc.Dashboard.WeeklyMomentum(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"score": score})
}

func (s *Server) handleSteward(w http.ResponseWriter, r *http.Request) {
	sc, err := s.svc.Dashboard.StewardContext(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	opts := activity.ListOptions{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("action_type"); v != "" {
		at := activity.ActionType(v)
		opts.ActionType = &at
	}
	if v := q.Get("phase_id"); v != "" {
		opts.PhaseID = &v
	}
	if v := q.Get("project_id"); v != "" {
		opts.ProjectID = &v
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "since must be RFC 3339"})
			return
		}
		opts.Since = &since
	}
	entries, err := s.svc.Activity.Recent(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleListPhases(w http.ResponseWriter, r *http.Request) {
	phases, err := s.svc.Phases.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"phases": phases})
}

type createPhaseBody struct {
	Name            string `json:"name"`
	Theme           string `json:"theme"`
	SuccessCriteria string `json:"success_criteria"`
	Description     string `json:"description"`
	TimeHorizon     string `json:"time_horizon"`
	Start           bool   `json:"start"`
}

func (s *Server) handleCreatePhase(w http.ResponseWriter, r *http.Request) {
	var body createPhaseBody
	if !s.decode(w, r, &body) {
		return
	}
	p, err := s.svc.Phases.Create(r.Context(), phase.CreateRequest{
		Name:            body.Name,
		Theme:           body.Theme,
		SuccessCriteria: body.SuccessCriteria,
		Description:     body.Description,
		TimeHorizon:     body.TimeHorizon,
		Start:           body.Start,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleSetPhaseStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	p, err := s.svc.Phases.SetStatus(r.Context(), chi.URLParam(r, "id"), phase.Status(body.Status))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := project.ListOptions{PhaseID: q.Get("phase_id")}
	for _, v := range q["status"] {
		opts.Statuses = append(opts.Statuses, project.Status(v))
	}
	projects, err := s.svc.Projects.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

type createProjectBody struct {
	PhaseID    string   `json:"phase_id"`
	Name       string   `json:"name"`
	Purpose    string   `json:"purpose"`
	NextAction string   `json:"next_action"`
	AreaOfLife string   `json:"area_of_life"`
	Milestones []string `json:"milestones"`
	Activate   bool     `json:"activate"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if !s.decode(w, r, &body) {
		return
	}
	p, err := s.svc.Projects.Create(r.Context(), project.CreateRequest{
		PhaseID:    body.PhaseID,
		Name:       body.Name,
		Purpose:    body.Purpose,
		NextAction: body.NextAction,
		AreaOfLife: body.AreaOfLife,
		Milestones: body.Milestones,
		Activate:   body.Activate,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleToggleProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	var target *project.Status
	if body.Status != "" {
		st := project.Status(body.Status)
		target = &st
	}
	p, err := s.svc.Projects.ToggleStatus(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleBlockProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	p, err := s.svc.Projects.MarkBlocked(r.Context(), chi.URLParam(r, "id"), project.StallReason(body.Reason))
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := map[string]any{"project": p}
	if p.StallReason != nil {
		resp["quest"] = p.StallReason.Quest()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveStall(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.ResolveStall(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetNextAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NextAction string `json:"next_action"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	p, err := s.svc.Projects.SetNextAction(r.Context(), chi.URLParam(r, "id"), body.NextAction)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCompleteMilestone(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.CompleteMilestone(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "milestoneID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	opts := capture.ListOptions{}
	if v := r.URL.Query().Get("status"); v != "" {
		st := capture.TriageStatus(v)
		opts.Status = &st
	}
	captures, err := s.svc.Captures.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"captures": captures})
}

func (s *Server) handleAddCapture(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string `json:"text"`
		Source string `json:"source"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	c, err := s.svc.Captures.Add(r.Context(), body.Text, capture.Source(body.Source))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleProcessCapture(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Importance string `json:"importance"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	c, err := s.svc.Captures.Process(r.Context(), chi.URLParam(r, "id"), capture.Importance(body.Importance))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

type decisionBody struct {
	Statement     string `json:"statement"`
	Context       string `json:"context"`
	Tradeoffs     string `json:"tradeoffs"`
	ProjectID     string `json:"project_id"`
	PhaseID       string `json:"phase_id"`
	Reversibility string `json:"reversibility"`
}

func (s *Server) handleLogDecision(w http.ResponseWriter, r *http.Request) {
	var body decisionBody
	if !s.decode(w, r, &body) {
		return
	}
	req := reflection.DecisionRequest{
		Statement:     body.Statement,
		Context:       body.Context,
		Tradeoffs:     body.Tradeoffs,
		PhaseID:       body.PhaseID,
		Reversibility: reflection.Reversibility(body.Reversibility),
	}
	if body.ProjectID != "" {
		req.ProjectID = &body.ProjectID
	}
	d, err := s.svc.Reflections.AddDecision(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d)
}

type insightBody struct {
	Statement   string `json:"statement"`
	Source      string `json:"source"`
	Implication string `json:"implication"`
	PhaseID     string `json:"phase_id"`
}

func (s *Server) handleLogInsight(w http.ResponseWriter, r *http.Request) {
	var body insightBody
	if !s.decode(w, r, &body) {
		return
	}
	i, err := s.svc.Reflections.AddInsight(r.Context(), reflection.InsightRequest{
		Statement:   body.Statement,
		Source:      reflection.InsightSource(body.Source),
		Implication: body.Implication,
		PhaseID:     body.PhaseID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, i)
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	decisions, err := s.svc.Reflections.Decisions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"decisions": decisions})
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.svc.Reflections.Insights(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, phase.ErrPhaseNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrMilestoneNotFound),
		errors.Is(err, capture.ErrCaptureNotFound):
		status = http.StatusNotFound
	case errors.Is(err, phase.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, capture.ErrInvalidInput),
		errors.Is(err, reflection.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}
