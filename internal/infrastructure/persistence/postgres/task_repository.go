package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// isForeignKeyViolation checks if an error is a PostgreSQL FK
// violation, optionally on a specific column.
func isForeignKeyViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 is foreign_key_violation
		if pgErr.Code == "23503" {
			if column == "" {
				return true
			}
			return strings.Contains(pgErr.ConstraintName, column) ||
				strings.Contains(pgErr.Message, column)
		}
	}
	return false
}

// === Task Operations ===

// CreateTask persists a new task with its assignee references.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	const insertTask = `
		INSERT INTO tasks
			(id, title, description, status, category, client_id, team_leader_id,
			 due_at, priority, parent_task_id, create_time, update_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.Exec(ctx, insertTask,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Category),
		task.ClientID,
		task.TeamLeaderID,
		task.DueAt,
		string(task.Priority),
		task.ParentTaskID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err, "client_id") {
			return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, task.ClientID)
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	const insertAssignee = `
		INSERT INTO task_assignees (task_id, user_id, user_type, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`

	for i, assignee := range task.AssignedTo {
		_, err := s.db.Exec(ctx, insertAssignee, task.ID, assignee.UserID, string(assignee.UserType), i)
		if err != nil {
			return nil, fmt.Errorf("failed to create task assignee: %w", err)
		}
	}

	return task, nil
}

// FindTaskByID retrieves a task with its assignees.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
		SELECT id, title, description, status, category, client_id, team_leader_id,
		       due_at, priority, parent_task_id, create_time, update_time
		FROM tasks
		WHERE id = $1`

	var (
		task     domain.Task
		status   string
		category string
		priority string
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&category,
		&task.ClientID,
		&task.TeamLeaderID,
		&task.DueAt,
		&priority,
		&task.ParentTaskID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Status = domain.TaskStatus(status)
	task.Category = domain.TaskCategory(category)
	task.Priority = domain.TaskPriority(priority)

	assignees, err := s.findTaskAssignees(ctx, id)
	if err != nil {
		return nil, err
	}
	task.AssignedTo = assignees

	return &task, nil
}

// DeleteTask removes the task record. Assignee rows cascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	return nil
}

func (s *Store) findTaskAssignees(ctx context.Context, taskID string) ([]domain.Assignee, error) {
	const query = `
		SELECT user_id, user_type
		FROM task_assignees
		WHERE task_id = $1
		ORDER BY position`

	rows, err := s.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task assignees: %w", err)
	}
	defer rows.Close()

	var assignees []domain.Assignee
	for rows.Next() {
		var (
			assignee domain.Assignee
			userType string
		)
		if err := rows.Scan(&assignee.UserID, &userType); err != nil {
			return nil, fmt.Errorf("failed to scan task assignee: %w", err)
		}
		assignee.UserType = domain.AssigneeType(userType)
		assignees = append(assignees, assignee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task assignees: %w", err)
	}

	return assignees, nil
}
