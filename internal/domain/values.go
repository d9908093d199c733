package domain

// TaskStatus represents the current state of a task.
// Value object - immutable string enum.
type TaskStatus string

const (
	TaskStatusActive     TaskStatus = "Active"
	TaskStatusInProgress TaskStatus = "Work in Progress"
	TaskStatusReview     TaskStatus = "Review"
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusResolved   TaskStatus = "Resolved"
)

// RequestStatus represents the lifecycle state of a client task request.
// A request transitions out of Requested exactly once.
type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "Requested"
	RequestStatusAccepted  RequestStatus = "Accepted"
	RequestStatusRejected  RequestStatus = "Rejected"
)

// TaskCategory distinguishes one-off deadline tasks from recurring ones.
// Value object - immutable string enum.
type TaskCategory string

const (
	CategoryDeadline  TaskCategory = "Deadline"
	CategoryFrequency TaskCategory = "Frequency"
)

// TaskPriority represents the priority level of a task.
// Value object - immutable string enum.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// AssigneeType identifies which directory an assignee reference points into.
type AssigneeType string

const (
	AssigneeEmployee   AssigneeType = "Employee"
	AssigneeTeamLeader AssigneeType = "TeamLeader"
)

// Decision is a team leader's verdict on a requested task.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// OwnerType identifies which kind of record holds a task-reference
// list. Clients, team leaders, and employees each carry one.
type OwnerType string

const (
	OwnerClient     OwnerType = "client"
	OwnerTeamLeader OwnerType = "team_leader"
	OwnerEmployee   OwnerType = "employee"
)

// OwnerRef addresses one task-reference list.
type OwnerRef struct {
	Type OwnerType
	ID   string
}

// OwnerOf maps an assignee to the owner of its task-reference list.
func OwnerOf(a Assignee) OwnerRef {
	if a.UserType == AssigneeTeamLeader {
		return OwnerRef{Type: OwnerTeamLeader, ID: a.UserID}
	}
	return OwnerRef{Type: OwnerEmployee, ID: a.UserID}
}
