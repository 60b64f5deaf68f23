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

// DeleteNotificationUseCase soft-deletes one owned notification. Unknown ids
// and other users' ids both answer not-found, same as MarkReadUseCase.
type DeleteNotificationUseCase struct {
	Notifications repository.NotificationRepository
	Cache         port.Cache
	Log           *logrus.Entry
}

func NewDeleteNotificationUseCase(notifications repository.NotificationRepository, cache port.Cache, log *logrus.Entry) *DeleteNotificationUseCase {
	return &DeleteNotificationUseCase{Notifications: notifications, Cache: cache, Log: log}
}

func (uc *DeleteNotificationUseCase) Execute(ctx context.Context, id, userID string) error {
	err := uc.Notifications.Delete(ctx, id, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("notification not found")
	}
	if err != nil {
		return apperror.Dependency("unable to delete notification", err)
	}

	if _, err := uc.Cache.Del(ctx, unreadCountKey(userID)); err != nil {
		uc.Log.WithError(err).WithField("userId", userID).Warn("unable to invalidate unread count")
	}
	return nil
}
