package postgres

import (
	"context"
	"fmt"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// === Task Reference Operations ===
//
// Owner task lists are rows in task_refs keyed by (owner_type,
// owner_id, task_id). The composite primary key is what makes the
// list a set: appends conflict instead of duplicating, removes of
// absent ids affect zero rows, and both read as success.

// AppendTaskRef adds a task id to an owner's task-reference list.
func (s *Store) AppendTaskRef(ctx context.Context, owner domain.OwnerRef, taskID string) error {
	const query = `
		INSERT INTO task_refs (owner_type, owner_id, task_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_type, owner_id, task_id) DO NOTHING`

	_, err := s.db.Exec(ctx, query, string(owner.Type), owner.ID, taskID)
	if err != nil {
		if isForeignKeyViolation(err, "task_id") {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
		}
		return fmt.Errorf("failed to append task ref: %w", err)
	}

	return nil
}

// RemoveTaskRef pulls a task id out of an owner's task-reference list.
func (s *Store) RemoveTaskRef(ctx context.Context, owner domain.OwnerRef, taskID string) error {
	const query = `
		DELETE FROM task_refs
		WHERE owner_type = $1 AND owner_id = $2 AND task_id = $3`

	_, err := s.db.Exec(ctx, query, string(owner.Type), owner.ID, taskID)
	if err != nil {
		return fmt.Errorf("failed to remove task ref: %w", err)
	}

	return nil
}

// FindTaskRefs returns an owner's task-reference list in insertion
// order.
func (s *Store) FindTaskRefs(ctx context.Context, owner domain.OwnerRef) ([]string, error) {
	const query = `
		SELECT task_id
		FROM task_refs
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY position`

	rows, err := s.db.Query(ctx, query, string(owner.Type), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task refs: %w", err)
	}
	defer rows.Close()

	var taskIDs []string
	for rows.Next() {
		var taskID string
		if err := rows.Scan(&taskID); err != nil {
			return nil, fmt.Errorf("failed to scan task ref: %w", err)
		}
		taskIDs = append(taskIDs, taskID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task refs: %w", err)
	}

	return taskIDs, nil
}
