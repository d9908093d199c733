package domain

import "strings"

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// NewTaskPriority validates and creates a TaskPriority.
// An empty string defaults to Medium.
func NewTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return PriorityMedium, nil
	}

	switch p := TaskPriority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", ErrInvalidPriority
	}
}

// NewAssigneeType validates and creates an AssigneeType.
func NewAssigneeType(s string) (AssigneeType, error) {
	switch t := AssigneeType(s); t {
	case AssigneeEmployee, AssigneeTeamLeader:
		return t, nil
	default:
		return "", ErrInvalidAssigneeType
	}
}

// NewDecision validates and creates a Decision.
func NewDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(s)); d {
	case DecisionAccept, DecisionReject:
		return d, nil
	default:
		return "", ErrInvalidDecision
	}
}
