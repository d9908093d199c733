package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewdesk/crewdesk/internal/application/scheduler"
	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/frequency"
	"github.com/crewdesk/crewdesk/internal/http/response"
)

type createRecurringBody struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ClientID    string      `json:"client_id"`
	Frequency   string      `json:"frequency"`
	AssignedTo  assigneeDTO `json:"assigned_to"`
	Priority    string      `json:"priority,omitempty"`
}

// CreateRecurringTask handles POST /v1/recurring-tasks. An unknown
// frequency label still creates the record; the response's scheduled
// flag tells the caller no timer is running for it.
func (s *Server) CreateRecurringTask(w http.ResponseWriter, r *http.Request) {
	var body createRecurringBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	created, scheduled, err := s.scheduler.CreateRecurringTask(r.Context(), scheduler.CreateParams{
		Title:       body.Title,
		Description: body.Description,
		ClientID:    body.ClientID,
		Frequency:   body.Frequency,
		Assignee: domain.Assignee{
			UserID:   body.AssignedTo.UserID,
			UserType: domain.AssigneeType(body.AssignedTo.UserType),
		},
		Priority: body.Priority,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, toRecurringTaskDTO(created, scheduled))
}

type updateFrequencyBody struct {
	Frequency string `json:"frequency"`
}

// UpdateRecurringFrequency handles PATCH /v1/recurring-tasks/{recurringTaskID}/frequency.
func (s *Server) UpdateRecurringFrequency(w http.ResponseWriter, r *http.Request) {
	recurringTaskID := chi.URLParam(r, "recurringTaskID")

	var body updateFrequencyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}
	if body.Frequency == "" {
		response.FromDomainError(w, r, domain.ErrFrequencyRequired)
		return
	}

	scheduled, err := s.scheduler.Reschedule(r.Context(), recurringTaskID, body.Frequency)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"recurring_task_id": recurringTaskID,
		"frequency":         body.Frequency,
		"scheduled":         scheduled,
	})
}

// DeactivateRecurringTask handles POST /v1/recurring-tasks/{recurringTaskID}/deactivate.
func (s *Server) DeactivateRecurringTask(w http.ResponseWriter, r *http.Request) {
	recurringTaskID := chi.URLParam(r, "recurringTaskID")

	if err := s.scheduler.Deactivate(r.Context(), recurringTaskID); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"recurring_task_id": recurringTaskID,
		"active":            false,
	})
}

// ReactivateRecurringTask handles POST /v1/recurring-tasks/{recurringTaskID}/reactivate.
func (s *Server) ReactivateRecurringTask(w http.ResponseWriter, r *http.Request) {
	recurringTaskID := chi.URLParam(r, "recurringTaskID")

	scheduled, err := s.scheduler.Reactivate(r.Context(), recurringTaskID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"recurring_task_id": recurringTaskID,
		"active":            true,
		"scheduled":         scheduled,
	})
}

// ListSchedules handles GET /v1/schedules: the live timer registry.
func (s *Server) ListSchedules(w http.ResponseWriter, r *http.Request) {
	statuses := s.scheduler.ListActive()

	dtos := make([]scheduleStatusDTO, 0, len(statuses))
	for _, status := range statuses {
		dtos = append(dtos, scheduleStatusDTO{
			RecurringTaskID: status.RecurringTaskID,
			Active:          status.Active,
			Spec:            status.Spec,
		})
	}

	response.OK(w, map[string]any{"schedules": dtos})
}

// ListFrequencies handles GET /v1/frequencies: the catalog of
// recognized frequency labels.
func (s *Server) ListFrequencies(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{"frequencies": frequency.Labels()})
}
