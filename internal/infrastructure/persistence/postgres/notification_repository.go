package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// CreateNotification persists a notification row. Metadata is stored
// as JSONB.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	var metadata []byte
	if n.Metadata != nil {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification metadata: %w", err)
		}
	}

	const query = `
		INSERT INTO notifications (id, recipient_id, recipient_type, message, metadata, create_time)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query,
		n.ID,
		n.RecipientID,
		string(n.RecipientType),
		n.Message,
		metadata,
		n.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}
