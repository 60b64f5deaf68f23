package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/cache/port"
	"healthmate/internal/pkg/apperror"
	repository "healthmate/internal/pkg/notification/persistence/repository/port"
)

// unreadCountTTL bounds staleness if an invalidation is ever missed.
const unreadCountTTL = 5 * time.Minute

func unreadCountKey(userID string) string {
	return "notifications:unread:" + userID
}

// UnreadCountUseCase serves the badge counter: cache first, store on miss.
// Cache trouble degrades to the store, never to an error.
type UnreadCountUseCase struct {
	Notifications repository.NotificationRepository
	Cache         port.Cache
	Log           *logrus.Entry
}

func NewUnreadCountUseCase(notifications repository.NotificationRepository, cache port.Cache, log *logrus.Entry) *UnreadCountUseCase {
	return &UnreadCountUseCase{Notifications: notifications, Cache: cache, Log: log}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, userID string) (int64, error) {
	key := unreadCountKey(userID)

	if cached, err := uc.Cache.Get(ctx, key); err == nil {
		if total, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return total, nil
		}
	} else if !errors.Is(err, port.ErrMiss) {
		uc.Log.WithError(err).WithField("userId", userID).Warn("unread count cache read failed")
	}

	total, err := uc.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperror.Dependency("unable to count unread notifications", err)
	}

	if err := uc.Cache.Set(ctx, key, strconv.FormatInt(total, 10), unreadCountTTL); err != nil {
		uc.Log.WithError(err).WithField("userId", userID).Warn("unread count cache write failed")
	}
	return total, nil
}
