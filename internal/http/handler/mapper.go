package handler

import (
	"time"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// DTOs returned by the handlers. Field names follow snake_case JSON
// conventions; timestamps are RFC 3339 in UTC.

type assigneeDTO struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
}

type requestedTaskDTO struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ClientID        string     `json:"client_id"`
	Category        string     `json:"category"`
	Frequency       string     `json:"frequency,omitempty"`
	DueAt           *time.Time `json:"due_at,omitempty"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

type taskDTO struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Status       string        `json:"status"`
	Category     string        `json:"category"`
	ClientID     string        `json:"client_id"`
	TeamLeaderID string        `json:"team_leader_id"`
	AssignedTo   []assigneeDTO `json:"assigned_to"`
	DueAt        *time.Time    `json:"due_at,omitempty"`
	Priority     string        `json:"priority"`
	ParentTaskID *string       `json:"parent_task_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type recurringTaskDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ClientID    string    `json:"client_id"`
	Frequency   string    `json:"frequency"`
	AssignedTo  assigneeDTO `json:"assigned_to"`
	Priority    string    `json:"priority"`
	Active      bool      `json:"active"`
	Scheduled   bool      `json:"scheduled"`
	CreatedAt   time.Time `json:"created_at"`
}

type scheduleStatusDTO struct {
	RecurringTaskID string `json:"recurring_task_id"`
	Active          bool   `json:"active"`
	Spec            string `json:"cron_spec"`
}

func toAssigneeDTO(a domain.Assignee) assigneeDTO {
	return assigneeDTO{
		UserID:   a.UserID,
		UserType: string(a.UserType),
	}
}

func toRequestedTaskDTO(r *domain.RequestedTask) requestedTaskDTO {
	return requestedTaskDTO{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		ClientID:        r.ClientID,
		Category:        string(r.Category),
		Frequency:       r.Frequency,
		DueAt:           r.DueAt,
		Priority:        string(r.Priority),
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		DecidedAt:       r.DecidedAt,
	}
}

func toTaskDTO(t *domain.Task) taskDTO {
	assignees := make([]assigneeDTO, 0, len(t.AssignedTo))
	for _, a := range t.AssignedTo {
		assignees = append(assignees, toAssigneeDTO(a))
	}

	return taskDTO{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Category:     string(t.Category),
		ClientID:     t.ClientID,
		TeamLeaderID: t.TeamLeaderID,
		AssignedTo:   assignees,
		DueAt:        t.DueAt,
		Priority:     string(t.Priority),
		ParentTaskID: t.ParentTaskID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toRecurringTaskDTO(rt *domain.RecurringTask, scheduled bool) recurringTaskDTO {
	return recurringTaskDTO{
		ID:          rt.ID,
		Title:       rt.Title,
		Description: rt.Description,
		ClientID:    rt.ClientID,
		Frequency:   rt.Frequency,
		AssignedTo:  toAssigneeDTO(rt.AssignedTo),
		Priority:    string(rt.Priority),
		Active:      rt.Active,
		Scheduled:   scheduled,
		CreatedAt:   rt.CreatedAt,
	}
}
