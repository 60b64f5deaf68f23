package usecase

import (
	"context"

	"healthmate/internal/pkg/apperror"
	notification "healthmate/internal/pkg/notification/application/domain"
	repository "healthmate/internal/pkg/notification/persistence/repository/port"
)

// listCap bounds every notification listing. Older entries stay stored but are
// not served; the drawer only shows the newest page.
const listCap = 50

// ListNotificationsUseCase returns the owner's newest notifications.
type ListNotificationsUseCase struct {
	Notifications repository.NotificationRepository
}

func NewListNotificationsUseCase(notifications repository.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{Notifications: notifications}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	if limit <= 0 || limit > listCap {
		limit = listCap
	}

	out, err := uc.Notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperror.Dependency("unable to list notifications", err)
	}
	return out, nil
}
