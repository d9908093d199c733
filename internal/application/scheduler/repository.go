package scheduler

import (
	"context"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// Repository defines the storage operations the scheduler needs.
// The recurring-task records it reads are the durable source of truth;
// the scheduler's timer registry is a derived cache of them.
type Repository interface {
	// === Recurring Task Operations ===

	// CreateRecurringTask persists a new recurring task definition.
	CreateRecurringTask(ctx context.Context, rt *domain.RecurringTask) (*domain.RecurringTask, error)

	// FindRecurringTaskByID retrieves a recurring task.
	// Returns domain.ErrRecurringTaskNotFound if it doesn't exist.
	FindRecurringTaskByID(ctx context.Context, id string) (*domain.RecurringTask, error)

	// FindActiveRecurringTasks returns every record with the active
	// flag set. Startup reconciliation schedules each of these.
	FindActiveRecurringTasks(ctx context.Context) ([]*domain.RecurringTask, error)

	// UpdateRecurringFrequency persists a new frequency label.
	// Returns domain.ErrRecurringTaskNotFound if it doesn't exist.
	UpdateRecurringFrequency(ctx context.Context, id, frequency string) error

	// SetRecurringActive flips the active flag.
	// Returns domain.ErrRecurringTaskNotFound if it doesn't exist.
	SetRecurringActive(ctx context.Context, id string, active bool) error

	// === Materialization Operations ===

	// FindClientByID resolves a client to its owning team leader.
	// Returns domain.ErrClientNotFound if it doesn't exist.
	FindClientByID(ctx context.Context, id string) (*domain.Client, error)

	// CreateTask persists a materialized task with its assignees.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// AppendTaskRef adds a task id to an owner's task-reference list.
	// Idempotent: appending an already-present id is a no-op success.
	AppendTaskRef(ctx context.Context, owner domain.OwnerRef, taskID string) error

	// AtomicRecurring executes the callback as a single atomic unit.
	// The callback receives a Repository bound to the unit.
	AtomicRecurring(ctx context.Context, fn func(repo Repository) error) error
}

// Notifier is the fire-and-forget side channel invoked after each
// materialization. Errors are logged by the scheduler and swallowed;
// they never fail or roll back the materialization.
type Notifier interface {
	Notify(ctx context.Context, notification *domain.Notification) error
}
