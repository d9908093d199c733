package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crewdesk/crewdesk/internal/application/task"
	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/http/response"
)

type createRequestBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ClientID    string     `json:"client_id"`
	Frequency   string     `json:"frequency,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Priority    string     `json:"priority,omitempty"`
}

// CreateTaskRequest handles POST /v1/task-requests.
func (s *Server) CreateTaskRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	created, err := s.taskService.Request(r.Context(), task.RequestParams{
		Title:       body.Title,
		Description: body.Description,
		ClientID:    body.ClientID,
		Frequency:   body.Frequency,
		DueAt:       body.DueAt,
		Priority:    body.Priority,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, toRequestedTaskDTO(created))
}

// ListTaskRequests handles GET /v1/team-leaders/{teamLeaderID}/task-requests.
func (s *Server) ListTaskRequests(w http.ResponseWriter, r *http.Request) {
	teamLeaderID := chi.URLParam(r, "teamLeaderID")

	requests, err := s.taskService.ListRequestedForTeamLeader(r.Context(), teamLeaderID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]requestedTaskDTO, 0, len(requests))
	for _, request := range requests {
		dtos = append(dtos, toRequestedTaskDTO(request))
	}

	response.OK(w, map[string]any{"task_requests": dtos})
}

type decideRequestBody struct {
	TeamLeaderID    string       `json:"team_leader_id"`
	Decision        string       `json:"decision"`
	AssignedTo      *assigneeDTO `json:"assigned_to,omitempty"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
}

// DecideTaskRequest handles POST /v1/task-requests/{requestID}/decision.
// Accepting returns 201 with the materialized task; rejecting returns
// 200 with the updated request status.
func (s *Server) DecideTaskRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	var body decideRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := task.DecideParams{
		RequestID:       requestID,
		TeamLeaderID:    body.TeamLeaderID,
		Decision:        domain.Decision(body.Decision),
		RejectionReason: body.RejectionReason,
	}
	if body.AssignedTo != nil {
		params.Assignee = &domain.Assignee{
			UserID:   body.AssignedTo.UserID,
			UserType: domain.AssigneeType(body.AssignedTo.UserType),
		}
	}

	created, err := s.taskService.Decide(r.Context(), params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	if created == nil {
		response.OK(w, map[string]any{"status": string(domain.RequestStatusRejected)})
		return
	}

	response.Created(w, toTaskDTO(created))
}
