package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: []ErrorField{
				{Field: field, Issue: issue},
			},
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "CONFLICT", message, http.StatusConflict)
}

// InternalError sends a 500 Internal Server Error. Logs the error
// server-side but returns a generic message to the client.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "internal server error", "error", err)
	}

	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Validation errors (400)
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "required field missing")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", "must be 255 characters or less")
	case errors.Is(err, domain.ErrDescriptionRequired):
		ValidationError(w, "description", "required field missing")
	case errors.Is(err, domain.ErrClientRequired):
		ValidationError(w, "client_id", "required field missing")
	case errors.Is(err, domain.ErrFrequencyRequired):
		ValidationError(w, "frequency", "required field missing")
	case errors.Is(err, domain.ErrAssigneeRequired):
		ValidationError(w, "assigned_to", "required when accepting a request")
	case errors.Is(err, domain.ErrInvalidDecision):
		ValidationError(w, "decision", "must be accept or reject")
	case errors.Is(err, domain.ErrInvalidAssigneeType):
		ValidationError(w, "assignee_type", "invalid assignee type")
	case errors.Is(err, domain.ErrInvalidPriority):
		ValidationError(w, "priority", "invalid priority level")

	// Not found errors (404)
	case errors.Is(err, domain.ErrRequestNotFound):
		NotFound(w, "requested task")
	case errors.Is(err, domain.ErrTaskNotFound):
		NotFound(w, "task")
	case errors.Is(err, domain.ErrRecurringTaskNotFound):
		NotFound(w, "recurring task")
	case errors.Is(err, domain.ErrClientNotFound):
		NotFound(w, "client")
	case errors.Is(err, domain.ErrTeamLeaderHasNoClients):
		NotFound(w, "clients for team leader")

	// Conflict errors (409)
	case errors.Is(err, domain.ErrRequestAlreadyDecided):
		Conflict(w, "requested task already decided")
	case errors.Is(err, domain.ErrClientUnassigned):
		Conflict(w, "client has no team leader")

	// Unknown errors (500)
	default:
		InternalError(w, r, err)
	}
}
