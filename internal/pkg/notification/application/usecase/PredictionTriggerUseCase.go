package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/queue/port"
	"healthmate/internal/pkg/apperror"
	notification "healthmate/internal/pkg/notification/application/domain"
)

// Risk tiers reported by the prediction collaborator.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Follow-up delays per tier. The reminder row is persisted immediately; the
// delay only gates its realtime push.
const (
	reminderDelayMedium = 7 * 24 * time.Hour
	reminderDelayLow    = 30 * 24 * time.Hour
)

// PredictionNotice is posted by the prediction service after computing a
// patient's risk assessment.
type PredictionNotice struct {
	UserID       string  `json:"userId"`
	PredictionID string  `json:"predictionId"`
	RiskLevel    string  `json:"riskLevel"`
	Probability  float64 `json:"probability"`
}

// PredictionTriggerUseCase fans a prediction result into notifications: always
// one prediction notification, plus an alert for high risk or a follow-up
// reminder for medium/low risk. The reminder is stored right away and its
// notification:new push is scheduled on the queue for the tier's delay.
type PredictionTriggerUseCase struct {
	Create *CreateNotificationUseCase
	Queue  port.Client
	Log    *logrus.Entry
}

func NewPredictionTriggerUseCase(create *CreateNotificationUseCase, queue port.Client, log *logrus.Entry) *PredictionTriggerUseCase {
	return &PredictionTriggerUseCase{Create: create, Queue: queue, Log: log}
}

func (uc *PredictionTriggerUseCase) Execute(ctx context.Context, in PredictionNotice) ([]notification.Notification, error) {
	if in.UserID == "" || in.PredictionID == "" {
		return nil, apperror.Validation("userId and predictionId are required")
	}
	if in.RiskLevel != RiskLow && in.RiskLevel != RiskMedium && in.RiskLevel != RiskHigh {
		return nil, apperror.Validation("riskLevel must be one of low, medium, high")
	}

	deepLink := &notification.DeepLink{Pathname: "/prediction/" + in.PredictionID}
	meta := map[string]string{
		"predictionId": in.PredictionID,
		"riskLevel":    in.RiskLevel,
	}
	percent := int(math.Round(in.Probability * 100))

	created := make([]notification.Notification, 0, 2)

	result, err := uc.Create.Execute(ctx, &notification.Notification{
		UserID: in.UserID,
		Type:   notification.TypePrediction,
		Title:  "New prediction result",
		Description: fmt.Sprintf("Your diabetes risk assessment is ready. Risk level: %s (%d%%).",
			riskLabel(in.RiskLevel), percent),
		Role:     "patient",
		DeepLink: deepLink,
		Meta:     meta,
	})
	if err != nil {
		return nil, err
	}
	created = append(created, *result)

	if in.RiskLevel == RiskHigh {
		alert, err := uc.Create.Execute(ctx, &notification.Notification{
			UserID:      in.UserID,
			Type:        notification.TypeAlert,
			Title:       "High diabetes risk detected",
			Description: "Your latest assessment shows a high risk level. Please contact your doctor as soon as possible.",
			Role:        "patient",
			DeepLink:    deepLink,
			Meta:        meta,
		})
		if err != nil {
			return nil, err
		}
		return append(created, *alert), nil
	}

	delay := reminderDelayMedium
	days := 7
	if in.RiskLevel == RiskLow {
		delay = reminderDelayLow
		days = 30
	}
	reminder, err := uc.Create.Persist(ctx, &notification.Notification{
		UserID:      in.UserID,
		Type:        notification.TypeReminder,
		Title:       "Follow-up screening reminder",
		Description: fmt.Sprintf("Based on your last assessment, schedule a follow-up screening in %d days.", days),
		Role:        "patient",
		DeepLink:    deepLink,
		Meta:        meta,
	})
	if err != nil {
		return nil, err
	}
	created = append(created, *reminder)

	uc.schedulePush(ctx, reminder, delay)
	return created, nil
}

// schedulePush enqueues the deferred notification:new push for a reminder.
// The row is already durable, so an enqueue failure is logged and swallowed.
func (uc *PredictionTriggerUseCase) schedulePush(ctx context.Context, n *notification.Notification, delay time.Duration) {
	if uc.Queue == nil {
		return
	}

	payload, err := json.Marshal(ReminderDuePayload{NotificationID: n.ID, UserID: n.UserID})
	if err != nil {
		uc.Log.WithError(err).WithField("notificationId", n.ID).Warn("unable to encode reminder task")
		return
	}

	id, err := uc.Queue.Enqueue(ctx, port.Task{Type: TaskReminderDue, Payload: payload}, port.EnqueueOption{
		Queue:     "notifications",
		ProcessIn: delay,
		MaxRetry:  3,
	})
	if err != nil {
		uc.Log.WithError(err).WithField("notificationId", n.ID).Warn("unable to schedule reminder push")
		return
	}
	uc.Log.WithFields(logrus.Fields{
		"notificationId": n.ID,
		"taskId":         id,
		"delay":          delay.String(),
	}).Debug("reminder push scheduled")
}

func riskLabel(riskLevel string) string {
	switch riskLevel {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}
