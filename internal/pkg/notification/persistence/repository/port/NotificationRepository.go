package repository

import (
	"context"

	notification "healthmate/internal/pkg/notification/application/domain"
)

// NotificationRepository persists user notifications. All owner-scoped
// mutations filter by (id, userID); when nothing matches, whether the id is
// unknown or owned by someone else, implementations return pgx.ErrNoRows and
// callers answer not-found without distinguishing the two cases.
type NotificationRepository interface {
	// Create persists the notification, assigning ID and CreatedAt.
	Create(ctx context.Context, n *notification.Notification) (*notification.Notification, error)

	// FindByID returns the owner's notification, or (nil, nil) when absent.
	FindByID(ctx context.Context, id, userID string) (*notification.Notification, error)

	// ListByUser returns the newest non-deleted notifications, capped at limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error)

	CountUnread(ctx context.Context, userID string) (int64, error)

	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error

	// Delete soft-deletes the owner's notification.
	Delete(ctx context.Context, id, userID string) error
}
