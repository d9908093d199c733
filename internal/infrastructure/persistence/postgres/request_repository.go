package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// === Requested Task Operations ===

// CreateRequest persists a new client task request.
func (s *Store) CreateRequest(ctx context.Context, request *domain.RequestedTask) (*domain.RequestedTask, error) {
	const query = `
		INSERT INTO requested_tasks
			(id, title, description, client_id, category, frequency, due_at, priority, status, create_time)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)`

	_, err := s.db.Exec(ctx, query,
		request.ID,
		request.Title,
		request.Description,
		request.ClientID,
		string(request.Category),
		request.Frequency,
		request.DueAt,
		string(request.Priority),
		string(request.Status),
		request.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err, "client_id") {
			return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, request.ClientID)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return request, nil
}

// FindRequestByID retrieves a requested task by its ID.
func (s *Store) FindRequestByID(ctx context.Context, id string) (*domain.RequestedTask, error) {
	const query = `
		SELECT id, title, description, client_id, category, COALESCE(frequency, ''),
		       due_at, priority, status, rejection_reason, create_time, decided_time
		FROM requested_tasks
		WHERE id = $1`

	request, err := scanRequest(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRequestNotFound, id)
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}

	return request, nil
}

// FindRequestsByClientIDs retrieves all requests whose owning client
// is in the given set, newest first.
func (s *Store) FindRequestsByClientIDs(ctx context.Context, clientIDs []string) ([]*domain.RequestedTask, error) {
	const query = `
		SELECT id, title, description, client_id, category, COALESCE(frequency, ''),
		       due_at, priority, status, rejection_reason, create_time, decided_time
		FROM requested_tasks
		WHERE client_id = ANY($1)
		ORDER BY create_time DESC`

	rows, err := s.db.Query(ctx, query, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.RequestedTask
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read requests: %w", err)
	}

	return requests, nil
}

// UpdateRequestStatus records a decision on a request. The WHERE
// clause only matches rows still in the Requested state, so a
// concurrent second decision loses the race and gets
// domain.ErrRequestAlreadyDecided.
func (s *Store) UpdateRequestStatus(ctx context.Context, id string, status domain.RequestStatus, reason *string, decidedAt time.Time) error {
	const query = `
		UPDATE requested_tasks
		SET status = $2, rejection_reason = $3, decided_time = $4
		WHERE id = $1 AND status = $5`

	tag, err := s.db.Exec(ctx, query, id, string(status), reason, decidedAt, string(domain.RequestStatusRequested))
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.FindRequestByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", domain.ErrRequestAlreadyDecided, id)
	}

	return nil
}

// scanRequest reads one requested_tasks row. Works for both QueryRow
// and iterated Query results.
func scanRequest(row pgx.Row) (*domain.RequestedTask, error) {
	var (
		request  domain.RequestedTask
		category string
		priority string
		status   string
	)

	err := row.Scan(
		&request.ID,
		&request.Title,
		&request.Description,
		&request.ClientID,
		&category,
		&request.Frequency,
		&request.DueAt,
		&priority,
		&status,
		&request.RejectionReason,
		&request.CreatedAt,
		&request.DecidedAt,
	)
	if err != nil {
		return nil, err
	}

	request.Category = domain.TaskCategory(category)
	request.Priority = domain.TaskPriority(priority)
	request.Status = domain.RequestStatus(status)

	return &request, nil
}
