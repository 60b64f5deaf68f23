package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/cache/port"
	"healthmate/internal/infrastructure/realtime"
	"healthmate/internal/pkg/apperror"
	notification "healthmate/internal/pkg/notification/application/domain"
	repository "healthmate/internal/pkg/notification/persistence/repository/port"
)

// TaskReminderDue is the queue task type for a reminder whose realtime push
// comes due. The reminder row itself is persisted up front; only the push is
// deferred.
const TaskReminderDue = "notification:reminder_due"

// ReminderDuePayload is the queue payload for TaskReminderDue.
type ReminderDuePayload struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
}

// WireEvent converts a persisted notification into its notification:new push.
func WireEvent(n *notification.Notification) realtime.NotificationNew {
	p := realtime.NotificationPayload{
		ID:          n.ID,
		Type:        string(n.Type),
		Title:       n.Title,
		Description: n.Description,
		IsRead:      n.IsRead,
		Role:        n.Role,
		Meta:        n.Meta,
		CreatedAt:   n.CreatedAt,
	}
	if n.DeepLink != nil {
		p.DeepLink = &realtime.DeepLinkPayload{
			Pathname: n.DeepLink.Pathname,
			Query:    n.DeepLink.Query,
		}
	}
	return realtime.NotificationNew{Notification: p}
}

// CreateNotificationUseCase validates and persists a notification, then pushes
// notification:new to every session in the owner's personal room. Persistence
// failures are returned to the caller; push failures are logged and swallowed.
type CreateNotificationUseCase struct {
	Notifications repository.NotificationRepository
	Cache         port.Cache
	Gateway       *realtime.Gateway
	Log           *logrus.Entry
}

func NewCreateNotificationUseCase(
	notifications repository.NotificationRepository,
	cache port.Cache,
	gateway *realtime.Gateway,
	log *logrus.Entry,
) *CreateNotificationUseCase {
	return &CreateNotificationUseCase{
		Notifications: notifications,
		Cache:         cache,
		Gateway:       gateway,
		Log:           log,
	}
}

func (uc *CreateNotificationUseCase) Execute(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	saved, err := uc.Persist(ctx, n)
	if err != nil {
		return nil, err
	}

	if uc.Gateway != nil {
		delivered := uc.Gateway.ToUser(saved.UserID, WireEvent(saved))
		uc.Log.WithFields(logrus.Fields{
			"notificationId": saved.ID,
			"userId":         saved.UserID,
			"type":           saved.Type,
			"delivered":      delivered,
		}).Debug("notification pushed")
	}
	return saved, nil
}

// Persist validates and stores the notification without pushing it. Used for
// reminders, whose push is deferred through the queue.
func (uc *CreateNotificationUseCase) Persist(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	if err := n.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	saved, err := uc.Notifications.Create(ctx, n)
	if err != nil {
		return nil, apperror.Dependency("unable to save notification", err)
	}

	if _, err := uc.Cache.Del(ctx, unreadCountKey(saved.UserID)); err != nil {
		uc.Log.WithError(err).WithField("userId", saved.UserID).
			Warn("unable to invalidate unread count")
	}
	return saved, nil
}
