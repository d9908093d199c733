package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/application/task"
	"github.com/crewdesk/crewdesk/internal/domain"
)

// TestAtomic_RollsBackOnError verifies that an error inside Atomic
// leaves none of the callback's writes visible.
func TestAtomic_RollsBackOnError(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()
	teamLeaderID, clientID := seedDirectory(t, store)

	taskID := newID(t)
	boom := errors.New("forced failure")

	err := store.Atomic(ctx, func(repo task.Repository) error {
		now := time.Now().UTC()
		_, err := repo.CreateTask(ctx, &domain.Task{
			ID:           taskID,
			Title:        "Doomed task",
			Description:  "should never commit",
			Status:       domain.TaskStatusActive,
			Category:     domain.CategoryDeadline,
			ClientID:     clientID,
			TeamLeaderID: teamLeaderID,
			Priority:     domain.PriorityMedium,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		require.NoError(t, err)

		err = repo.AppendTaskRef(ctx, domain.OwnerRef{Type: domain.OwnerTeamLeader, ID: teamLeaderID}, taskID)
		require.NoError(t, err)

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.FindTaskByID(ctx, taskID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound, "task must not exist after rollback")

	refs, err := store.FindTaskRefs(ctx, domain.OwnerRef{Type: domain.OwnerTeamLeader, ID: teamLeaderID})
	require.NoError(t, err)
	assert.Empty(t, refs, "task ref must not exist after rollback")
}

// TestAtomic_RollsBackOnPanic verifies that a panicking callback rolls
// back and the panic is re-raised.
func TestAtomic_RollsBackOnPanic(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()
	teamLeaderID, clientID := seedDirectory(t, store)
	taskID := newID(t)

	assert.Panics(t, func() {
		_ = store.Atomic(ctx, func(repo task.Repository) error {
			now := time.Now().UTC()
			_, err := repo.CreateTask(ctx, &domain.Task{
				ID:           taskID,
				Title:        "Panicking task",
				Description:  "should never commit",
				Status:       domain.TaskStatusActive,
				Category:     domain.CategoryDeadline,
				ClientID:     clientID,
				TeamLeaderID: teamLeaderID,
				Priority:     domain.PriorityMedium,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			require.NoError(t, err)
			panic("simulated panic")
		})
	})

	_, err := store.FindTaskByID(ctx, taskID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound, "task must not exist after panic rollback")
}

// TestDecide_EndToEnd accepts a real request through the service and
// checks the mirrored reference lists.
func TestDecide_EndToEnd(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()
	teamLeaderID, clientID := seedDirectory(t, store)
	svc := task.NewService(store)

	request, err := svc.Request(ctx, task.RequestParams{
		Title:       "Quarterly report",
		Description: "Compile the quarterly report",
		ClientID:    clientID,
	})
	require.NoError(t, err)

	assigneeID := newID(t)
	created, err := svc.Decide(ctx, task.DecideParams{
		RequestID:    request.ID,
		TeamLeaderID: teamLeaderID,
		Decision:     domain.DecisionAccept,
		Assignee:     &domain.Assignee{UserID: assigneeID, UserType: domain.AssigneeEmployee},
	})
	require.NoError(t, err)

	for _, owner := range []domain.OwnerRef{
		{Type: domain.OwnerTeamLeader, ID: teamLeaderID},
		{Type: domain.OwnerClient, ID: clientID},
		{Type: domain.OwnerEmployee, ID: assigneeID},
	} {
		refs, err := store.FindTaskRefs(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, []string{created.ID}, refs, "owner %s/%s must reference the task", owner.Type, owner.ID)
	}

	updated, err := store.FindRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusAccepted, updated.Status)
	require.NotNil(t, updated.DecidedAt)

	// A second decision must lose.
	_, err = svc.Decide(ctx, task.DecideParams{
		RequestID:    request.ID,
		TeamLeaderID: teamLeaderID,
		Decision:     domain.DecisionReject,
	})
	assert.ErrorIs(t, err, domain.ErrRequestAlreadyDecided)

	// Deleting the task clears every list.
	require.NoError(t, svc.Delete(ctx, created.ID))
	for _, owner := range []domain.OwnerRef{
		{Type: domain.OwnerTeamLeader, ID: teamLeaderID},
		{Type: domain.OwnerClient, ID: clientID},
		{Type: domain.OwnerEmployee, ID: assigneeID},
	} {
		refs, err := store.FindTaskRefs(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, refs)
	}
	_, err = store.FindTaskByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
