package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	chatusecase "healthmate/internal/pkg/chat/application/usecase"
	notification "healthmate/internal/pkg/notification/application/domain"
)

// ChatTriggerUseCase turns delivered chat messages into chat notifications,
// one per recipient. It sits behind the chat side's notifier contract, so a
// notification failure can never fail a message send.
type ChatTriggerUseCase struct {
	Create *CreateNotificationUseCase
	Log    *logrus.Entry
}

func NewChatTriggerUseCase(create *CreateNotificationUseCase, log *logrus.Entry) *ChatTriggerUseCase {
	return &ChatTriggerUseCase{Create: create, Log: log}
}

var _ chatusecase.MessageNotifier = (*ChatTriggerUseCase)(nil)

func (uc *ChatTriggerUseCase) MessageReceived(ctx context.Context, notice chatusecase.MessageNotice) {
	preview := notice.Content
	if preview == "" {
		preview = "[Attachment]"
	}

	n := &notification.Notification{
		UserID:      notice.RecipientID,
		Type:        notification.TypeChat,
		Title:       "New message from " + notice.SenderName,
		Description: notification.Truncate(preview, notification.PreviewLimit),
		DeepLink: &notification.DeepLink{
			Pathname: "/chat",
			Query:    map[string]string{"conversationId": notice.ConversationID},
		},
		Meta: map[string]string{
			"conversationId": notice.ConversationID,
			"senderId":       notice.SenderID,
			"senderName":     notice.SenderName,
		},
	}

	if _, err := uc.Create.Execute(ctx, n); err != nil {
		uc.Log.WithError(err).WithFields(logrus.Fields{
			"recipientId":    notice.RecipientID,
			"conversationId": notice.ConversationID,
		}).Warn("unable to create chat notification")
	}
}
