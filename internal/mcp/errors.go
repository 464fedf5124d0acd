package mcp

import (
	"errors"
	"fmt"

	"github.com/atteev/continuum/internal/domain/capture"
	"github.com/atteev/continuum/internal/domain/phase"
	"github.com/atteev/continuum/internal/domain/project"
	"github.com/atteev/continuum/internal/domain/reflection"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Returns nil for errors
// with no dedicated code; callers pass those through unchanged.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, phase.ErrPhaseNotFound):
		return &APIError{Code: "PHASE_NOT_FOUND", Message: "phase not found", RecoveryHint: "Call list_phases to see valid IDs"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to see valid IDs"}
	case errors.Is(err, project.ErrMilestoneNotFound):
		return &APIError{Code: "MILESTONE_NOT_FOUND", Message: "milestone not found", RecoveryHint: "Call get_project to see its milestones"}
	case errors.Is(err, capture.ErrCaptureNotFound):
		return &APIError{Code: "CAPTURE_NOT_FOUND", Message: "capture not found", RecoveryHint: "Call list_captures to see valid IDs"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, phase.ErrInvalidInput),
		errors.Is(err, capture.ErrInvalidInput), errors.Is(err, reflection.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check argument values"}
	default:
		return nil
	}
}

func mapToolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
