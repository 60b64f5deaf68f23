package usecase

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/cache/port"
	"healthmate/internal/pkg/apperror"
	repository "healthmate/internal/pkg/notification/persistence/repository/port"
)

// MarkReadUseCase flips one owned notification to read. A notification that
// does not exist and a notification owned by someone else both answer
// not-found; the owner filter makes the two cases indistinguishable on
// purpose, so the API never confirms another user's notification ids.
type MarkReadUseCase struct {
	Notifications repository.NotificationRepository
	Cache         port.Cache
	Log           *logrus.Entry
}

func NewMarkReadUseCase(notifications repository.NotificationRepository, cache port.Cache, log *logrus.Entry) *MarkReadUseCase {
	return &MarkReadUseCase{Notifications: notifications, Cache: cache, Log: log}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, id, userID string) error {
	err := uc.Notifications.MarkRead(ctx, id, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("notification not found")
	}
	if err != nil {
		return apperror.Dependency("unable to mark notification read", err)
	}

	uc.invalidate(ctx, userID)
	return nil
}

func (uc *MarkReadUseCase) invalidate(ctx context.Context, userID string) {
	if _, err := uc.Cache.Del(ctx, unreadCountKey(userID)); err != nil {
		uc.Log.WithError(err).WithField("userId", userID).Warn("unable to invalidate unread count")
	}
}
