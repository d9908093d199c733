// Package notification persists fire-and-forget notifications to
// directory members. Delivery beyond persistence (email, chat) hangs
// off the stored rows and lives outside this service.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// Repository defines the storage operation notifications need.
type Repository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

// Emitter stores notifications. It satisfies the scheduler's Notifier
// interface.
type Emitter struct {
	repo Repository
}

// NewEmitter creates a notification emitter.
func NewEmitter(repo Repository) *Emitter {
	return &Emitter{repo: repo}
}

// Notify persists the notification. The caller treats failures as
// non-fatal; this method still returns them so the caller can log.
func (e *Emitter) Notify(ctx context.Context, n *domain.Notification) error {
	if n.RecipientID == "" {
		return fmt.Errorf("notification has no recipient")
	}

	if n.ID == "" {
		idObj, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate id: %w", err)
		}
		n.ID = idObj.String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if _, err := e.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	slog.InfoContext(ctx, "notification stored",
		"recipient_id", n.RecipientID,
		"recipient_type", n.RecipientType)

	return nil
}
