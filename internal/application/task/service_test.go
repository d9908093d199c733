package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ptr"
)

type mockRepo struct {
	createRequestFn        func(ctx context.Context, request *domain.RequestedTask) (*domain.RequestedTask, error)
	findRequestFn          func(ctx context.Context, id string) (*domain.RequestedTask, error)
	findRequestsByClients  func(ctx context.Context, clientIDs []string) ([]*domain.RequestedTask, error)
	updateRequestStatusFn  func(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error
	createTaskFn           func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	findTaskFn             func(ctx context.Context, id string) (*domain.Task, error)
	deleteTaskFn           func(ctx context.Context, id string) error
	findClientFn           func(ctx context.Context, id string) (*domain.Client, error)
	findClientIDsForLeader func(ctx context.Context, teamLeaderID string) ([]string, error)
	appendTaskRefFn        func(ctx context.Context, owner domain.OwnerRef, taskID string) error
	removeTaskRefFn        func(ctx context.Context, owner domain.OwnerRef, taskID string) error
	findTaskRefsFn         func(ctx context.Context, owner domain.OwnerRef) ([]string, error)
	atomicFn               func(ctx context.Context, fn func(repo Repository) error) error
}

func (m *mockRepo) CreateRequest(ctx context.Context, request *domain.RequestedTask) (*domain.RequestedTask, error) {
	if m.createRequestFn != nil {
		return m.createRequestFn(ctx, request)
	}
	panic("CreateRequest not implemented")
}

func (m *mockRepo) FindRequestByID(ctx context.Context, id string) (*domain.RequestedTask, error) {
	if m.findRequestFn != nil {
		return m.findRequestFn(ctx, id)
	}
	panic("FindRequestByID not implemented")
}

func (m *mockRepo) FindRequestsByClientIDs(ctx context.Context, clientIDs []string) ([]*domain.RequestedTask, error) {
	if m.findRequestsByClients != nil {
		return m.findRequestsByClients(ctx, clientIDs)
	}
	panic("FindRequestsByClientIDs not implemented")
}

func (m *mockRepo) UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error {
	if m.updateRequestStatusFn != nil {
		return m.updateRequestStatusFn(ctx, id, status, reason, decidedAt)
	}
	panic("UpdateRequestStatus not implemented")
}

func (m *mockRepo) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, task)
	}
	panic("CreateTask not implemented")
}

func (m *mockRepo) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	if m.findTaskFn != nil {
		return m.findTaskFn(ctx, id)
	}
	panic("FindTaskByID not implemented")
}

func (m *mockRepo) DeleteTask(ctx context.Context, id string) error {
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, id)
	}
	panic("DeleteTask not implemented")
}

func (m *mockRepo) FindClientByID(ctx context.Context, id string) (*domain.Client, error) {
	if m.findClientFn != nil {
		return m.findClientFn(ctx, id)
	}
	panic("FindClientByID not implemented")
}

func (m *mockRepo) FindClientIDsByTeamLeader(ctx context.Context, teamLeaderID string) ([]string, error) {
	if m.findClientIDsForLeader != nil {
		return m.findClientIDsForLeader(ctx, teamLeaderID)
	}
	panic("FindClientIDsByTeamLeader not implemented")
}

func (m *mockRepo) AppendTaskRef(ctx context.Context, owner domain.OwnerRef, taskID string) error {
	if m.appendTaskRefFn != nil {
		return m.appendTaskRefFn(ctx, owner, taskID)
	}
	panic("AppendTaskRef not implemented")
}

func (m *mockRepo) RemoveTaskRef(ctx context.Context, owner domain.OwnerRef, taskID string) error {
	if m.removeTaskRefFn != nil {
		return m.removeTaskRefFn(ctx, owner, taskID)
	}
	panic("RemoveTaskRef not implemented")
}

func (m *mockRepo) FindTaskRefs(ctx context.Context, owner domain.OwnerRef) ([]string, error) {
	if m.findTaskRefsFn != nil {
		return m.findTaskRefsFn(ctx, owner)
	}
	panic("FindTaskRefs not implemented")
}

// Atomic executes the callback directly; tests that need to observe
// the transaction boundary override atomicFn.
func (m *mockRepo) Atomic(ctx context.Context, fn func(repo Repository) error) error {
	if m.atomicFn != nil {
		return m.atomicFn(ctx, fn)
	}
	return fn(m)
}

func TestRequestValidation(t *testing.T) {
	svc := NewService(&mockRepo{})
	ctx := context.Background()

	tests := []struct {
		name    string
		params  RequestParams
		wantErr error
	}{
		{
			name:    "missing title",
			params:  RequestParams{Description: "desc", ClientID: "c1"},
			wantErr: domain.ErrTitleRequired,
		},
		{
			name:    "whitespace title",
			params:  RequestParams{Title: "   ", Description: "desc", ClientID: "c1"},
			wantErr: domain.ErrTitleRequired,
		},
		{
			name:    "missing description",
			params:  RequestParams{Title: "Monthly report", ClientID: "c1"},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name:    "missing client",
			params:  RequestParams{Title: "Monthly report", Description: "desc"},
			wantErr: domain.ErrClientRequired,
		},
		{
			name:    "bad priority",
			params:  RequestParams{Title: "Monthly report", Description: "desc", ClientID: "c1", Priority: "Urgent"},
			wantErr: domain.ErrInvalidPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Request(ctx, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequestCreatesRequestedRecord(t *testing.T) {
	var captured *domain.RequestedTask
	repo := &mockRepo{
		createRequestFn: func(ctx context.Context, request *domain.RequestedTask) (*domain.RequestedTask, error) {
			captured = request
			return request, nil
		},
	}
	svc := NewService(repo)

	created, err := svc.Request(context.Background(), RequestParams{
		Title:       "  Weekly sync notes  ",
		Description: "Summarize the weekly sync",
		ClientID:    "client-1",
		Frequency:   "Weekly",
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Weekly sync notes", created.Title, "title should be trimmed")
	assert.Equal(t, domain.CategoryFrequency, created.Category)
	assert.Equal(t, "Weekly", created.Frequency)
	assert.Equal(t, domain.PriorityMedium, created.Priority, "priority defaults to medium")
	assert.Equal(t, domain.RequestStatusRequested, created.Status)
	assert.Nil(t, created.DecidedAt)
}

func TestRequestDeadlineCategory(t *testing.T) {
	repo := &mockRepo{
		createRequestFn: func(ctx context.Context, request *domain.RequestedTask) (*domain.RequestedTask, error) {
			return request, nil
		},
	}
	svc := NewService(repo)

	due := time.Now().UTC().Add(48 * time.Hour)
	created, err := svc.Request(context.Background(), RequestParams{
		Title:       "Prepare audit",
		Description: "Q3 audit prep",
		ClientID:    "client-1",
		DueAt:       &due,
		Priority:    "High",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDeadline, created.Category)
	assert.Equal(t, domain.PriorityHigh, created.Priority)
	require.NotNil(t, created.DueAt)
	assert.True(t, created.DueAt.Equal(due))
}

func TestListRequestedForTeamLeader(t *testing.T) {
	t.Run("no clients returns sentinel", func(t *testing.T) {
		repo := &mockRepo{
			findClientIDsForLeader: func(ctx context.Context, teamLeaderID string) ([]string, error) {
				return nil, nil
			},
		}
		svc := NewService(repo)

		_, err := svc.ListRequestedForTeamLeader(context.Background(), "tl-1")
		assert.ErrorIs(t, err, domain.ErrTeamLeaderHasNoClients)
	})

	t.Run("queries with owned client ids", func(t *testing.T) {
		var queried []string
		repo := &mockRepo{
			findClientIDsForLeader: func(ctx context.Context, teamLeaderID string) ([]string, error) {
				return []string{"c1", "c2"}, nil
			},
			findRequestsByClients: func(ctx context.Context, clientIDs []string) ([]*domain.RequestedTask, error) {
				queried = clientIDs
				return []*domain.RequestedTask{{ID: "r1"}, {ID: "r2"}}, nil
			},
		}
		svc := NewService(repo)

		requests, err := svc.ListRequestedForTeamLeader(context.Background(), "tl-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"c1", "c2"}, queried)
		assert.Len(t, requests, 2)
	})
}

func pendingRequest(id string) *domain.RequestedTask {
	return &domain.RequestedTask{
		ID:          id,
		Title:       "Monthly report",
		Description: "Compile the monthly report",
		ClientID:    "client-1",
		Category:    domain.CategoryDeadline,
		Priority:    domain.PriorityMedium,
		Status:      domain.RequestStatusRequested,
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
	}
}

func TestDecideAcceptMirrorsReferences(t *testing.T) {
	var createdTask *domain.Task
	var statusSet domain.RequestStatus
	appended := make(map[domain.OwnerRef]string)

	repo := &mockRepo{
		findRequestFn: func(ctx context.Context, id string) (*domain.RequestedTask, error) {
			return pendingRequest(id), nil
		},
		createTaskFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			createdTask = task
			return task, nil
		},
		updateRequestStatusFn: func(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error {
			statusSet = status
			return nil
		},
		appendTaskRefFn: func(ctx context.Context, owner domain.OwnerRef, taskID string) error {
			appended[owner] = taskID
			return nil
		},
	}
	svc := NewService(repo)

	task, err := svc.Decide(context.Background(), DecideParams{
		RequestID:    "req-1",
		TeamLeaderID: "tl-1",
		Decision:     domain.DecisionAccept,
		Assignee:     &domain.Assignee{UserID: "emp-1", UserType: domain.AssigneeEmployee},
	})
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.Equal(t, domain.TaskStatusActive, createdTask.Status)
	assert.Equal(t, "tl-1", createdTask.TeamLeaderID)
	assert.Equal(t, []domain.Assignee{{UserID: "emp-1", UserType: domain.AssigneeEmployee}}, createdTask.AssignedTo)
	assert.Equal(t, domain.RequestStatusAccepted, statusSet)

	// The new task must land in the assignee's, team leader's, and
	// client's lists.
	assert.Equal(t, task.ID, appended[domain.OwnerRef{Type: domain.OwnerEmployee, ID: "emp-1"}])
	assert.Equal(t, task.ID, appended[domain.OwnerRef{Type: domain.OwnerTeamLeader, ID: "tl-1"}])
	assert.Equal(t, task.ID, appended[domain.OwnerRef{Type: domain.OwnerClient, ID: "client-1"}])
}

func TestDecideAcceptRequiresAssignee(t *testing.T) {
	repo := &mockRepo{
		findRequestFn: func(ctx context.Context, id string) (*domain.RequestedTask, error) {
			return pendingRequest(id), nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Decide(context.Background(), DecideParams{
		RequestID:    "req-1",
		TeamLeaderID: "tl-1",
		Decision:     domain.DecisionAccept,
	})
	assert.ErrorIs(t, err, domain.ErrAssigneeRequired)
}

func TestDecideRejectRecordsReasonOnly(t *testing.T) {
	var recordedReason *string
	var statusSet domain.RequestStatus
	createTaskCalled := false

	repo := &mockRepo{
		findRequestFn: func(ctx context.Context, id string) (*domain.RequestedTask, error) {
			return pendingRequest(id), nil
		},
		updateRequestStatusFn: func(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error {
			statusSet = status
			recordedReason = reason
			return nil
		},
		createTaskFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			createTaskCalled = true
			return task, nil
		},
	}
	svc := NewService(repo)

	task, err := svc.Decide(context.Background(), DecideParams{
		RequestID:       "req-1",
		TeamLeaderID:    "tl-1",
		Decision:        domain.DecisionReject,
		RejectionReason: ptr.To("out of scope for this quarter"),
	})
	require.NoError(t, err)
	assert.Nil(t, task, "reject produces no task")
	assert.False(t, createTaskCalled)
	assert.Equal(t, domain.RequestStatusRejected, statusSet)
	assert.Equal(t, "out of scope for this quarter", ptr.Deref(recordedReason, ""))
}

func TestDecideRejectsSecondDecision(t *testing.T) {
	decided := pendingRequest("req-1")
	decided.Status = domain.RequestStatusAccepted

	repo := &mockRepo{
		findRequestFn: func(ctx context.Context, id string) (*domain.RequestedTask, error) {
			return decided, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Decide(context.Background(), DecideParams{
		RequestID:    "req-1",
		TeamLeaderID: "tl-1",
		Decision:     domain.DecisionReject,
	})
	assert.ErrorIs(t, err, domain.ErrRequestAlreadyDecided)
}

func TestDecideInvalidDecision(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.Decide(context.Background(), DecideParams{
		RequestID:    "req-1",
		TeamLeaderID: "tl-1",
		Decision:     domain.Decision("maybe"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDecision)
}

func TestDecideAcceptFailureLeavesRequestPending(t *testing.T) {
	boom := errors.New("storage unavailable")
	statusUpdated := false

	repo := &mockRepo{
		findRequestFn: func(ctx context.Context, id string) (*domain.RequestedTask, error) {
			return pendingRequest(id), nil
		},
		createTaskFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
			return nil, boom
		},
		updateRequestStatusFn: func(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error {
			statusUpdated = true
			return nil
		},
	}
	svc := NewService(repo)

	task, err := svc.Decide(context.Background(), DecideParams{
		RequestID:    "req-1",
		TeamLeaderID: "tl-1",
		Decision:     domain.DecisionAccept,
		Assignee:     &domain.Assignee{UserID: "emp-1", UserType: domain.AssigneeEmployee},
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, task)
	assert.False(t, statusUpdated, "status must not change when task creation fails inside the unit")
}

func TestDecideAcceptRunsInsideAtomic(t *testing.T) {
	insideAtomic := false
	entered := false

	repo := &mockRepo{
		findRequestFn: func(ctx context.Context, id string) (*domain.RequestedTask, error) {
			return pendingRequest(id), nil
		},
	}
	repo.atomicFn = func(ctx context.Context, fn func(repo Repository) error) error {
		entered = true
		inner := &mockRepo{
			createTaskFn: func(ctx context.Context, task *domain.Task) (*domain.Task, error) {
				insideAtomic = true
				return task, nil
			},
			updateRequestStatusFn: func(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error {
				return nil
			},
			appendTaskRefFn: func(ctx context.Context, owner domain.OwnerRef, taskID string) error {
				return nil
			},
		}
		return fn(inner)
	}
	svc := NewService(repo)

	_, err := svc.Decide(context.Background(), DecideParams{
		RequestID:    "req-1",
		TeamLeaderID: "tl-1",
		Decision:     domain.DecisionAccept,
		Assignee:     &domain.Assignee{UserID: "emp-1", UserType: domain.AssigneeEmployee},
	})
	require.NoError(t, err)
	assert.True(t, entered)
	assert.True(t, insideAtomic, "all accept writes must go through the atomic unit")
}

func TestDeleteRemovesAllReferences(t *testing.T) {
	stored := &domain.Task{
		ID:           "task-1",
		Title:        "Monthly report",
		ClientID:     "client-1",
		TeamLeaderID: "tl-1",
		AssignedTo: []domain.Assignee{
			{UserID: "emp-1", UserType: domain.AssigneeEmployee},
			{UserID: "emp-2", UserType: domain.AssigneeEmployee},
		},
	}

	removed := make([]domain.OwnerRef, 0, 4)
	deleted := false
	repo := &mockRepo{
		findTaskFn: func(ctx context.Context, id string) (*domain.Task, error) {
			return stored, nil
		},
		removeTaskRefFn: func(ctx context.Context, owner domain.OwnerRef, taskID string) error {
			assert.Equal(t, "task-1", taskID)
			removed = append(removed, owner)
			return nil
		},
		deleteTaskFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), "task-1"))
	assert.True(t, deleted)
	assert.ElementsMatch(t, []domain.OwnerRef{
		{Type: domain.OwnerTeamLeader, ID: "tl-1"},
		{Type: domain.OwnerEmployee, ID: "emp-1"},
		{Type: domain.OwnerEmployee, ID: "emp-2"},
		{Type: domain.OwnerClient, ID: "client-1"},
	}, removed)
}

func TestDeleteFailureKeepsTask(t *testing.T) {
	boom := errors.New("storage unavailable")
	deleted := false

	repo := &mockRepo{
		findTaskFn: func(ctx context.Context, id string) (*domain.Task, error) {
			return &domain.Task{
				ID:           id,
				ClientID:     "client-1",
				TeamLeaderID: "tl-1",
				AssignedTo:   []domain.Assignee{{UserID: "emp-1", UserType: domain.AssigneeEmployee}},
			}, nil
		},
		removeTaskRefFn: func(ctx context.Context, owner domain.OwnerRef, taskID string) error {
			if owner.Type == domain.OwnerClient {
				return boom
			}
			return nil
		},
		deleteTaskFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "task-1")
	assert.ErrorIs(t, err, boom)
	assert.False(t, deleted, "task record must survive when reference removal fails")
}

func TestDeleteUnknownTask(t *testing.T) {
	repo := &mockRepo{
		findTaskFn: func(ctx context.Context, id string) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	svc := NewService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), domain.ErrTaskNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), domain.ErrTaskNotFound)
}
