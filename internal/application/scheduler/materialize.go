package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/frequency"
	"github.com/crewdesk/crewdesk/internal/ptr"
)

// Materialize creates a concrete Task instance from a recurring task
// definition. The new task, tagged with the recurring task as parent,
// is mirrored into the client's, team leader's, and assignee's task
// lists as one atomic unit. After the unit commits, the assignee is
// notified best-effort.
func (s *Scheduler) Materialize(ctx context.Context, rt *domain.RecurringTask) (*domain.Task, error) {
	client, err := s.repo.FindClientByID(ctx, rt.ClientID)
	if err != nil {
		return nil, err
	}
	if client.TeamLeaderID == "" {
		return nil, domain.ErrClientUnassigned
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now().UTC()

	task := &domain.Task{
		ID:           idObj.String(),
		Title:        rt.Title,
		Description:  rt.Description,
		Status:       domain.TaskStatusActive,
		Category:     domain.CategoryFrequency,
		ClientID:     rt.ClientID,
		TeamLeaderID: client.TeamLeaderID,
		AssignedTo:   []domain.Assignee{rt.AssignedTo},
		DueAt:        ptr.To(frequency.NextDueDate(rt.Frequency, now)),
		Priority:     rt.Priority,
		ParentTaskID: ptr.To(rt.ID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created *domain.Task
	err = s.repo.AtomicRecurring(ctx, func(repo Repository) error {
		var err error
		created, err = repo.CreateTask(ctx, task)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		if err := repo.AppendTaskRef(ctx, domain.OwnerRef{Type: domain.OwnerClient, ID: rt.ClientID}, task.ID); err != nil {
			return fmt.Errorf("failed to append client task ref: %w", err)
		}
		if err := repo.AppendTaskRef(ctx, domain.OwnerRef{Type: domain.OwnerTeamLeader, ID: client.TeamLeaderID}, task.ID); err != nil {
			return fmt.Errorf("failed to append team leader task ref: %w", err)
		}
		// When the assignee is the team leader this append collapses
		// into the one above; appends are idempotent.
		if err := repo.AppendTaskRef(ctx, domain.OwnerOf(rt.AssignedTo), task.ID); err != nil {
			return fmt.Errorf("failed to append assignee task ref: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAssignee(ctx, rt, created)

	return created, nil
}

// notifyAssignee emits the fire-and-forget notification for a freshly
// materialized task. Failures are logged and swallowed; the
// materialization has already committed and stays committed.
func (s *Scheduler) notifyAssignee(ctx context.Context, rt *domain.RecurringTask, task *domain.Task) {
	if s.notifier == nil {
		return
	}

	notification := &domain.Notification{
		RecipientID:   rt.AssignedTo.UserID,
		RecipientType: rt.AssignedTo.UserType,
		Message:       fmt.Sprintf("New task %q generated from recurring schedule", task.Title),
		Metadata: map[string]any{
			"task_id":           task.ID,
			"recurring_task_id": rt.ID,
			"frequency":         rt.Frequency,
		},
	}

	if err := s.notifier.Notify(ctx, notification); err != nil {
		slog.ErrorContext(ctx, "failed to notify assignee",
			"recurring_task_id", rt.ID, "task_id", task.ID, "error", err)
	}
}
