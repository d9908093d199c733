package domain

import "time"

// RequestedTask is a client-submitted task proposal awaiting a team
// leader's decision. Requests are append-only: the core never deletes
// them, so they double as an audit trail of what clients asked for.
//
// Status transitions exactly once, Requested -> Accepted or
// Requested -> Rejected, enforced by the task service.
type RequestedTask struct {
	ID          string
	Title       string
	Description string
	ClientID    string

	Category  TaskCategory
	Frequency string     // Present only when Category is Frequency
	DueAt     *time.Time // Present only when Category is Deadline
	Priority  TaskPriority

	Status          RequestStatus
	RejectionReason *string

	CreatedAt time.Time
	DecidedAt *time.Time
}

// Assignee is a reference into one of the people directories, tagged
// with which directory it points into.
type Assignee struct {
	UserID   string
	UserType AssigneeType
}

// Task is a concrete, actionable unit of work. A Task is referenced
// from the owning team leader's task list, each assignee's task list,
// and the owning client's task list; those lists must always mirror
// the owner and assignee fields held here. The persistence layer
// enforces the mirroring by applying every cross-entity mutation in a
// single transaction.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Category    TaskCategory

	ClientID     string
	TeamLeaderID string
	AssignedTo   []Assignee

	DueAt    *time.Time
	Priority TaskPriority

	// ParentTaskID links a materialized instance back to the
	// RecurringTask that spawned it. Nil for one-off tasks.
	ParentTaskID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecurringTask is a standing recurrence definition. The persisted
// record is the durable source of truth; the scheduler's in-memory
// timer for it is a derived, rebuildable cache.
type RecurringTask struct {
	ID          string
	Title       string
	Description string
	ClientID    string

	Frequency  string
	AssignedTo Assignee
	Priority   TaskPriority

	// Active governs whether a live timer should exist for this record.
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client is the directory view of a client the core needs: who owns it.
// Client CRUD itself lives outside the core.
type Client struct {
	ID           string
	Name         string
	TeamLeaderID string
}

// Notification is a persisted fire-and-forget message to a directory
// member. Delivery beyond persistence is out of the core's scope.
type Notification struct {
	ID            string
	RecipientID   string
	RecipientType AssigneeType
	Message       string
	Metadata      map[string]any
	CreatedAt     time.Time
}
