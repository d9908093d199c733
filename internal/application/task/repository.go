package task

import (
	"context"
	"time"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// Repository defines storage operations for the task assignment state
// machine. All create operations return the entity as persisted.
type Repository interface {
	// === Requested Task Operations ===

	// CreateRequest persists a new client task request.
	CreateRequest(ctx context.Context, request *domain.RequestedTask) (*domain.RequestedTask, error)

	// FindRequestByID retrieves a requested task by its ID.
	// Returns domain.ErrRequestNotFound if it doesn't exist.
	FindRequestByID(ctx context.Context, id string) (*domain.RequestedTask, error)

	// FindRequestsByClientIDs retrieves all requests whose owning
	// client is in the given set, newest first.
	FindRequestsByClientIDs(ctx context.Context, clientIDs []string) ([]*domain.RequestedTask, error)

	// UpdateRequestStatus records a decision on a request. Only rows
	// still in the Requested state are updated; returns
	// domain.ErrRequestAlreadyDecided otherwise.
	UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error

	// === Task Operations ===

	// CreateTask persists a new task with its assignee references.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// FindTaskByID retrieves a task with its assignees.
	// Returns domain.ErrTaskNotFound if it doesn't exist.
	FindTaskByID(ctx context.Context, id string) (*domain.Task, error)

	// DeleteTask removes the task record and its assignee rows.
	// Returns domain.ErrTaskNotFound if it doesn't exist.
	DeleteTask(ctx context.Context, id string) error

	// === Directory Operations ===

	// FindClientByID resolves a client to its owning team leader.
	// Returns domain.ErrClientNotFound if it doesn't exist.
	FindClientByID(ctx context.Context, id string) (*domain.Client, error)

	// FindClientIDsByTeamLeader lists the clients a team leader owns.
	FindClientIDsByTeamLeader(ctx context.Context, teamLeaderID string) ([]string, error)

	// AppendTaskRef adds a task id to an owner's task-reference list.
	// Idempotent: appending an already-present id is a no-op success.
	AppendTaskRef(ctx context.Context, owner domain.OwnerRef, taskID string) error

	// RemoveTaskRef pulls a task id out of an owner's task-reference
	// list. Idempotent: removing an absent id is a no-op success.
	RemoveTaskRef(ctx context.Context, owner domain.OwnerRef, taskID string) error

	// FindTaskRefs returns an owner's task-reference list in
	// insertion order, without duplicates.
	FindTaskRefs(ctx context.Context, owner domain.OwnerRef) ([]string, error)

	// === Atomicity ===

	// Atomic executes the callback as a single atomic unit: every
	// write inside it becomes visible together or not at all. The
	// callback receives a Repository bound to the unit.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}
