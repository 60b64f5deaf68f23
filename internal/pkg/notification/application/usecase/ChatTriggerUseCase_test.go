package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatusecase "healthmate/internal/pkg/chat/application/usecase"
	notification "healthmate/internal/pkg/notification/application/domain"
)

func chatTrigger(t *testing.T) (*ChatTriggerUseCase, *fakeSession) {
	t.Helper()
	gateway := newTestGateway()
	session := &fakeSession{id: "s1", userID: "recipient"}
	gateway.Attach(session)

	create := NewCreateNotificationUseCase(newFakeNotificationRepo(), newFakeCache(), gateway, testLog())
	return NewChatTriggerUseCase(create, testLog()), session
}

func TestChatTrigger_BuildsNotificationFromNotice(t *testing.T) {
	uc, session := chatTrigger(t)

	uc.MessageReceived(context.Background(), chatusecase.MessageNotice{
		RecipientID:    "recipient",
		ConversationID: "c1",
		SenderID:       "sender",
		SenderName:     "Dr. Chen",
		Content:        "your results look good",
	})

	pushes := session.pushed(t)
	require.Len(t, pushes, 1)
	assert.Equal(t, "chat", pushes[0].Type)
	assert.Equal(t, "New message from Dr. Chen", pushes[0].Title)
	assert.Equal(t, "your results look good", pushes[0].Description)
	require.NotNil(t, pushes[0].DeepLink)
	assert.Equal(t, "/chat", pushes[0].DeepLink.Pathname)
	assert.Equal(t, "c1", pushes[0].DeepLink.Query["conversationId"])
	assert.Equal(t, "c1", pushes[0].Meta["conversationId"])
}

func TestChatTrigger_TruncatesLongContent(t *testing.T) {
	uc, session := chatTrigger(t)

	uc.MessageReceived(context.Background(), chatusecase.MessageNotice{
		RecipientID:    "recipient",
		ConversationID: "c1",
		SenderID:       "sender",
		SenderName:     "Dr. Chen",
		Content:        strings.Repeat("a", 240),
	})

	pushes := session.pushed(t)
	require.Len(t, pushes, 1)
	assert.Equal(t, strings.Repeat("a", notification.PreviewLimit)+"...", pushes[0].Description)
}

func TestChatTrigger_AttachmentOnlyMessage(t *testing.T) {
	uc, session := chatTrigger(t)

	uc.MessageReceived(context.Background(), chatusecase.MessageNotice{
		RecipientID:    "recipient",
		ConversationID: "c1",
		SenderID:       "sender",
		SenderName:     "Dr. Chen",
	})

	pushes := session.pushed(t)
	require.Len(t, pushes, 1)
	assert.Equal(t, "[Attachment]", pushes[0].Description)
}
