package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// Service provides the task assignment state machine: client requests,
// team-leader decisions, and task deletion. It orchestrates operations
// through the Repository interface; every mutation that touches more
// than one entity's reference list runs inside Repository.Atomic.
type Service struct {
	repo Repository
}

// NewService creates a new task service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RequestParams carries a client's task proposal.
type RequestParams struct {
	Title       string
	Description string
	ClientID    string

	// Frequency marks the request as recurring; DueAt marks it as a
	// one-off deadline. Frequency wins when both are set.
	Frequency string
	DueAt     *time.Time
	Priority  string
}

// Request creates a new RequestedTask in the Requested state.
func (s *Service) Request(ctx context.Context, params RequestParams) (*domain.RequestedTask, error) {
	title, err := domain.NewTitle(params.Title)
	if err != nil {
		return nil, err
	}
	if params.Description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if params.ClientID == "" {
		return nil, domain.ErrClientRequired
	}

	priority, err := domain.NewTaskPriority(params.Priority)
	if err != nil {
		return nil, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	category := domain.CategoryDeadline
	if params.Frequency != "" {
		category = domain.CategoryFrequency
	}

	request := &domain.RequestedTask{
		ID:          idObj.String(),
		Title:       title.String(),
		Description: params.Description,
		ClientID:    params.ClientID,
		Category:    category,
		Frequency:   params.Frequency,
		DueAt:       params.DueAt,
		Priority:    priority,
		Status:      domain.RequestStatusRequested,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.CreateRequest(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return created, nil
}

// ListRequestedForTeamLeader returns every request submitted by the
// clients a team leader owns, newest first. Returns
// domain.ErrTeamLeaderHasNoClients when the team leader owns none.
func (s *Service) ListRequestedForTeamLeader(ctx context.Context, teamLeaderID string) ([]*domain.RequestedTask, error) {
	if teamLeaderID == "" {
		return nil, domain.ErrTeamLeaderHasNoClients
	}

	clientIDs, err := s.repo.FindClientIDsByTeamLeader(ctx, teamLeaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve clients: %w", err)
	}
	if len(clientIDs) == 0 {
		return nil, domain.ErrTeamLeaderHasNoClients
	}

	requests, err := s.repo.FindRequestsByClientIDs(ctx, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, nil
}

// DecideParams carries a team leader's decision on a request.
type DecideParams struct {
	RequestID    string
	TeamLeaderID string
	Decision     domain.Decision

	// Assignee is required when accepting.
	Assignee *domain.Assignee

	// RejectionReason is recorded when rejecting.
	RejectionReason *string
}

// Decide applies a team leader's accept/reject decision to a request.
//
// Reject only records the terminal status. Accept materializes a Task
// from the request and mirrors it into the relevant task-reference
// lists; the new Task, the request's status change, and the list
// appends are one atomic unit, so a failure anywhere leaves the
// request in the Requested state with no partial writes visible.
//
// Returns the materialized Task on accept, nil on reject.
func (s *Service) Decide(ctx context.Context, params DecideParams) (*domain.Task, error) {
	if params.RequestID == "" {
		return nil, domain.ErrRequestNotFound
	}
	decision, err := domain.NewDecision(string(params.Decision))
	if err != nil {
		return nil, err
	}

	request, err := s.repo.FindRequestByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestStatusRequested {
		return nil, domain.ErrRequestAlreadyDecided
	}

	now := time.Now().UTC()

	if decision == domain.DecisionReject {
		if err := s.repo.UpdateRequestStatus(ctx, request.ID, domain.RequestStatusRejected, params.RejectionReason, now); err != nil {
			return nil, fmt.Errorf("failed to reject request: %w", err)
		}
		return nil, nil
	}

	// Accept path.
	if params.Assignee == nil || params.Assignee.UserID == "" {
		return nil, domain.ErrAssigneeRequired
	}
	if _, err := domain.NewAssigneeType(string(params.Assignee.UserType)); err != nil {
		return nil, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	task := &domain.Task{
		ID:           idObj.String(),
		Title:        request.Title,
		Description:  request.Description,
		Status:       domain.TaskStatusActive,
		Category:     request.Category,
		ClientID:     request.ClientID,
		TeamLeaderID: params.TeamLeaderID,
		AssignedTo:   []domain.Assignee{*params.Assignee},
		DueAt:        request.DueAt,
		Priority:     request.Priority,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created *domain.Task
	err = s.repo.Atomic(ctx, func(repo Repository) error {
		var err error
		created, err = repo.CreateTask(ctx, task)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		if err := repo.UpdateRequestStatus(ctx, request.ID, domain.RequestStatusAccepted, nil, now); err != nil {
			return fmt.Errorf("failed to accept request: %w", err)
		}

		// Mirror the task into the assignee's and the owning team
		// leader's lists. The append is idempotent, so a team leader
		// assigning to themselves results in a single entry.
		if err := repo.AppendTaskRef(ctx, domain.OwnerOf(*params.Assignee), task.ID); err != nil {
			return fmt.Errorf("failed to append assignee task ref: %w", err)
		}
		if err := repo.AppendTaskRef(ctx, domain.OwnerRef{Type: domain.OwnerTeamLeader, ID: params.TeamLeaderID}, task.ID); err != nil {
			return fmt.Errorf("failed to append team leader task ref: %w", err)
		}
		if err := repo.AppendTaskRef(ctx, domain.OwnerRef{Type: domain.OwnerClient, ID: request.ClientID}, task.ID); err != nil {
			return fmt.Errorf("failed to append client task ref: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get retrieves a task with its assignees.
func (s *Service) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	if taskID == "" {
		return nil, domain.ErrTaskNotFound
	}
	return s.repo.FindTaskByID(ctx, taskID)
}

// Delete removes a task and every reference to it. The task record,
// the owning team leader's list entry, each assignee's list entry, and
// the client's list entry go together as one atomic unit - a task is
// never deletable while a dangling reference to it would remain.
func (s *Service) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return domain.ErrTaskNotFound
	}

	task, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		return err
	}

	return s.repo.Atomic(ctx, func(repo Repository) error {
		if err := repo.RemoveTaskRef(ctx, domain.OwnerRef{Type: domain.OwnerTeamLeader, ID: task.TeamLeaderID}, task.ID); err != nil {
			return fmt.Errorf("failed to remove team leader task ref: %w", err)
		}
		for _, assignee := range task.AssignedTo {
			if err := repo.RemoveTaskRef(ctx, domain.OwnerOf(assignee), task.ID); err != nil {
				return fmt.Errorf("failed to remove assignee task ref: %w", err)
			}
		}
		if err := repo.RemoveTaskRef(ctx, domain.OwnerRef{Type: domain.OwnerClient, ID: task.ClientID}, task.ID); err != nil {
			return fmt.Errorf("failed to remove client task ref: %w", err)
		}

		if err := repo.DeleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		return nil
	})
}
