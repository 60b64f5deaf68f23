package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/cache/port"
	"healthmate/internal/pkg/apperror"
	repository "healthmate/internal/pkg/notification/persistence/repository/port"
)

// MarkAllReadUseCase flips every unread notification of the owner to read.
// Idempotent; succeeds even when nothing was unread.
type MarkAllReadUseCase struct {
	Notifications repository.NotificationRepository
	Cache         port.Cache
	Log           *logrus.Entry
}

func NewMarkAllReadUseCase(notifications repository.NotificationRepository, cache port.Cache, log *logrus.Entry) *MarkAllReadUseCase {
	return &MarkAllReadUseCase{Notifications: notifications, Cache: cache, Log: log}
}

func (uc *MarkAllReadUseCase) Execute(ctx context.Context, userID string) error {
	if err := uc.Notifications.MarkAllRead(ctx, userID); err != nil {
		return apperror.Dependency("unable to mark notifications read", err)
	}

	if _, err := uc.Cache.Del(ctx, unreadCountKey(userID)); err != nil {
		uc.Log.WithError(err).WithField("userId", userID).Warn("unable to invalidate unread count")
	}
	return nil
}
