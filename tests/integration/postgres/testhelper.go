package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/config"
	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/infrastructure/persistence/postgres"
)

// setupStore connects to the integration test database, running
// migrations on the way in. Tests skip when CREWDESK_TEST_DB_DSN is
// not set.
func setupStore(t *testing.T) (*postgres.Store, func()) {
	t.Helper()

	cfg, err := config.LoadTestConfig()
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}

	ctx := context.Background()
	store, err := postgres.NewPostgresStore(ctx, cfg.StorageDSN)
	require.NoError(t, err)

	cleanup := func() {
		store.Pool().Exec(ctx, "TRUNCATE TABLE notifications, task_refs, task_assignees, tasks, recurring_tasks, requested_tasks, clients, employees, team_leaders CASCADE")
		store.Close()
	}

	return store, cleanup
}

// seedDirectory inserts a team leader and a client owned by them,
// returning both ids.
func seedDirectory(t *testing.T, store *postgres.Store) (teamLeaderID, clientID string) {
	t.Helper()

	ctx := context.Background()
	teamLeaderID = newID(t)
	clientID = newID(t)

	_, err := store.Pool().Exec(ctx,
		`INSERT INTO team_leaders (id, name, email) VALUES ($1, $2, $3)`,
		teamLeaderID, "Lead", teamLeaderID+"@example.com")
	require.NoError(t, err)

	_, err = store.Pool().Exec(ctx,
		`INSERT INTO clients (id, name, team_leader_id) VALUES ($1, $2, $3)`,
		clientID, "Acme", teamLeaderID)
	require.NoError(t, err)

	return teamLeaderID, clientID
}

func newID(t *testing.T) string {
	t.Helper()
	return uuid.Must(uuid.NewV7()).String()
}

func seedTask(t *testing.T, store *postgres.Store, teamLeaderID, clientID string) *domain.Task {
	t.Helper()

	now := time.Now().UTC()
	task := &domain.Task{
		ID:           newID(t),
		Title:        "Seeded task",
		Description:  "integration fixture",
		Status:       domain.TaskStatusActive,
		Category:     domain.CategoryDeadline,
		ClientID:     clientID,
		TeamLeaderID: teamLeaderID,
		AssignedTo:   []domain.Assignee{{UserID: newID(t), UserType: domain.AssigneeEmployee}},
		Priority:     domain.PriorityMedium,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := store.CreateTask(context.Background(), task)
	require.NoError(t, err)

	return task
}
