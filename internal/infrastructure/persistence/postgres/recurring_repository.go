package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// === Recurring Task Operations ===

// CreateRecurringTask persists a new recurring task definition.
func (s *Store) CreateRecurringTask(ctx context.Context, rt *domain.RecurringTask) (*domain.RecurringTask, error) {
	const query = `
		INSERT INTO recurring_tasks
			(id, title, description, client_id, frequency, assignee_id, assignee_type,
			 priority, active, create_time, update_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.Exec(ctx, query,
		rt.ID,
		rt.Title,
		rt.Description,
		rt.ClientID,
		rt.Frequency,
		rt.AssignedTo.UserID,
		string(rt.AssignedTo.UserType),
		string(rt.Priority),
		rt.Active,
		rt.CreatedAt,
		rt.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err, "client_id") {
			return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, rt.ClientID)
		}
		return nil, fmt.Errorf("failed to create recurring task: %w", err)
	}

	return rt, nil
}

// FindRecurringTaskByID retrieves a recurring task.
func (s *Store) FindRecurringTaskByID(ctx context.Context, id string) (*domain.RecurringTask, error) {
	const query = `
		SELECT id, title, description, client_id, frequency, assignee_id, assignee_type,
		       priority, active, create_time, update_time
		FROM recurring_tasks
		WHERE id = $1`

	rt, err := scanRecurringTask(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRecurringTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to find recurring task: %w", err)
	}

	return rt, nil
}

// FindActiveRecurringTasks returns every record with the active flag
// set, oldest first so reconciliation schedules in creation order.
func (s *Store) FindActiveRecurringTasks(ctx context.Context) ([]*domain.RecurringTask, error) {
	const query = `
		SELECT id, title, description, client_id, frequency, assignee_id, assignee_type,
		       priority, active, create_time, update_time
		FROM recurring_tasks
		WHERE active
		ORDER BY create_time`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recurring tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.RecurringTask
	for rows.Next() {
		rt, err := scanRecurringTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring task: %w", err)
		}
		tasks = append(tasks, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recurring tasks: %w", err)
	}

	return tasks, nil
}

// UpdateRecurringFrequency persists a new frequency label.
func (s *Store) UpdateRecurringFrequency(ctx context.Context, id, frequency string) error {
	const query = `
		UPDATE recurring_tasks
		SET frequency = $2, update_time = $3
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, frequency, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update recurring frequency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRecurringTaskNotFound, id)
	}

	return nil
}

// SetRecurringActive flips the active flag.
func (s *Store) SetRecurringActive(ctx context.Context, id string, active bool) error {
	const query = `
		UPDATE recurring_tasks
		SET active = $2, update_time = $3
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set recurring active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRecurringTaskNotFound, id)
	}

	return nil
}

func scanRecurringTask(row pgx.Row) (*domain.RecurringTask, error) {
	var (
		rt           domain.RecurringTask
		assigneeType string
		priority     string
	)

	err := row.Scan(
		&rt.ID,
		&rt.Title,
		&rt.Description,
		&rt.ClientID,
		&rt.Frequency,
		&rt.AssignedTo.UserID,
		&assigneeType,
		&priority,
		&rt.Active,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rt.AssignedTo.UserType = domain.AssigneeType(assigneeType)
	rt.Priority = domain.TaskPriority(priority)

	return &rt, nil
}
