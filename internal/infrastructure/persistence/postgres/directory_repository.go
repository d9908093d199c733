package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// === Directory Operations ===

// FindClientByID resolves a client to its owning team leader.
func (s *Store) FindClientByID(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
		SELECT id, name, COALESCE(team_leader_id::text, '')
		FROM clients
		WHERE id = $1`

	var client domain.Client
	err := s.db.QueryRow(ctx, query, id).Scan(&client.ID, &client.Name, &client.TeamLeaderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, id)
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	return &client, nil
}

// FindClientIDsByTeamLeader lists the clients a team leader owns.
func (s *Store) FindClientIDsByTeamLeader(ctx context.Context, teamLeaderID string) ([]string, error) {
	const query = `
		SELECT id
		FROM clients
		WHERE team_leader_id = $1
		ORDER BY create_time`

	rows, err := s.db.Query(ctx, query, teamLeaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find clients for team leader: %w", err)
	}
	defer rows.Close()

	var clientIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan client id: %w", err)
		}
		clientIDs = append(clientIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read client ids: %w", err)
	}

	return clientIDs, nil
}
