package task

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/queue/port"
	"healthmate/internal/infrastructure/realtime"
	"healthmate/internal/pkg/notification/application/usecase"
	repository "healthmate/internal/pkg/notification/persistence/repository/port"
)

// ReminderTask pushes a previously persisted reminder to its owner when the
// scheduled delay elapses. The row is the durable truth; this handler only
// performs the realtime delivery, so a recipient with no open sessions simply
// finds the reminder in their list.
type ReminderTask struct {
	Notifications repository.NotificationRepository
	Gateway       *realtime.Gateway
	Log           *logrus.Entry
}

// Register binds the reminder handler to the queue server.
func Register(srv port.Server, notifications repository.NotificationRepository, gateway *realtime.Gateway, log *logrus.Entry) {
	t := &ReminderTask{Notifications: notifications, Gateway: gateway, Log: log}
	srv.Register(usecase.TaskReminderDue, t.Handle)
}

func (t *ReminderTask) Handle(ctx context.Context, task port.Task) error {
	var payload usecase.ReminderDuePayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		// Malformed payloads never become valid; drop instead of retrying.
		t.Log.WithError(err).Error("discarding malformed reminder task")
		return nil
	}

	n, err := t.Notifications.FindByID(ctx, payload.NotificationID, payload.UserID)
	if err != nil {
		return err
	}
	if n == nil {
		// Deleted by the owner before the reminder came due.
		t.Log.WithField("notificationId", payload.NotificationID).Debug("reminder gone, skipping push")
		return nil
	}

	delivered := t.Gateway.ToUser(n.UserID, usecase.WireEvent(n))
	t.Log.WithFields(logrus.Fields{
		"notificationId": n.ID,
		"userId":         n.UserID,
		"delivered":      delivered,
	}).Info("reminder pushed")
	return nil
}
