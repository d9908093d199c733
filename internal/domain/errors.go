package domain

import "errors"

// Validation errors - missing or malformed caller input.
// Surfaced to the caller, never retried.
var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrClientRequired      = errors.New("client is required")
	ErrFrequencyRequired   = errors.New("frequency is required")
	ErrAssigneeRequired    = errors.New("assignee is required for acceptance")
	ErrInvalidDecision     = errors.New("decision must be accept or reject")
	ErrInvalidAssigneeType = errors.New("invalid assignee type")
	ErrInvalidPriority     = errors.New("invalid priority level")
	ErrTitleTooLong        = errors.New("title must be 255 characters or less")
)

// Not-found errors - a referenced entity id does not resolve.
var (
	ErrRequestNotFound       = errors.New("requested task not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrRecurringTaskNotFound = errors.New("recurring task not found")
	ErrClientNotFound        = errors.New("client not found")

	// ErrTeamLeaderHasNoClients indicates the team leader owns no clients,
	// so there is nothing to list requests for.
	ErrTeamLeaderHasNoClients = errors.New("team leader has no clients")

	// ErrClientUnassigned indicates the owning client has no team leader.
	// A recurring task whose client was un-onboarded must not silently
	// assign work to a nonexistent team leader.
	ErrClientUnassigned = errors.New("client has no team leader")
)

// Conflict errors.
var (
	// ErrRequestAlreadyDecided indicates a second accept/reject on a
	// request that already left the Requested state.
	ErrRequestAlreadyDecided = errors.New("requested task already decided")
)

// ErrUnknownFrequency indicates a frequency label outside the catalog.
// Callers degrade to "not scheduled" rather than failing the parent
// create or update.
var ErrUnknownFrequency = errors.New("unknown frequency label")
