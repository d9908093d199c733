package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// CreateParams carries a new recurring task definition.
type CreateParams struct {
	Title       string
	Description string
	ClientID    string
	Frequency   string
	Assignee    domain.Assignee
	Priority    string
}

// CreateRecurringTask persists a new recurring task definition and
// registers its timer. A frequency label outside the catalog still
// persists the record but leaves it without a timer; the returned
// scheduled flag reports which outcome occurred.
func (s *Scheduler) CreateRecurringTask(ctx context.Context, params CreateParams) (*domain.RecurringTask, bool, error) {
	title, err := domain.NewTitle(params.Title)
	if err != nil {
		return nil, false, err
	}
	if params.ClientID == "" {
		return nil, false, domain.ErrClientRequired
	}
	if params.Frequency == "" {
		return nil, false, domain.ErrFrequencyRequired
	}
	if params.Assignee.UserID == "" {
		return nil, false, domain.ErrAssigneeRequired
	}
	if _, err := domain.NewAssigneeType(string(params.Assignee.UserType)); err != nil {
		return nil, false, err
	}

	priority, err := domain.NewTaskPriority(params.Priority)
	if err != nil {
		return nil, false, err
	}

	if _, err := s.repo.FindClientByID(ctx, params.ClientID); err != nil {
		return nil, false, err
	}

	idObj, err := uuid.NewV7()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now().UTC()
	rt := &domain.RecurringTask{
		ID:          idObj.String(),
		Title:       title.String(),
		Description: params.Description,
		ClientID:    params.ClientID,
		Frequency:   params.Frequency,
		AssignedTo:  params.Assignee,
		Priority:    priority,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.CreateRecurringTask(ctx, rt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create recurring task: %w", err)
	}

	scheduled := s.Schedule(created)
	if !scheduled {
		slog.WarnContext(ctx, "recurring task created without a timer",
			"recurring_task_id", created.ID, "frequency", created.Frequency)
	}

	return created, scheduled, nil
}

// Deactivate stops a recurring task's timer and clears its active
// flag. The record survives; Reactivate can bring it back.
func (s *Scheduler) Deactivate(ctx context.Context, recurringTaskID string) error {
	if _, err := s.repo.FindRecurringTaskByID(ctx, recurringTaskID); err != nil {
		return err
	}

	s.Stop(recurringTaskID)

	if err := s.repo.SetRecurringActive(ctx, recurringTaskID, false); err != nil {
		return fmt.Errorf("failed to deactivate recurring task: %w", err)
	}

	slog.InfoContext(ctx, "recurring task deactivated", "recurring_task_id", recurringTaskID)
	return nil
}

// Reactivate sets the active flag and registers a timer again.
// The scheduled flag is false when the stored frequency label is no
// longer in the catalog.
func (s *Scheduler) Reactivate(ctx context.Context, recurringTaskID string) (bool, error) {
	rt, err := s.repo.FindRecurringTaskByID(ctx, recurringTaskID)
	if err != nil {
		return false, err
	}

	if err := s.repo.SetRecurringActive(ctx, recurringTaskID, true); err != nil {
		return false, fmt.Errorf("failed to reactivate recurring task: %w", err)
	}

	rt.Active = true
	return s.Schedule(rt), nil
}
