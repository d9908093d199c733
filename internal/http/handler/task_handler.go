package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewdesk/crewdesk/internal/http/response"
)

// GetTask handles GET /v1/tasks/{taskID}.
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.taskService.Get(r.Context(), taskID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, toTaskDTO(task))
}

// DeleteTask handles DELETE /v1/tasks/{taskID}. The task and every
// reference to it disappear together.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	if err := s.taskService.Delete(r.Context(), taskID); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}
