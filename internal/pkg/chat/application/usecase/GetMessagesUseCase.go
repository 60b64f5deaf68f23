package usecase

import (
	"context"

	"healthmate/internal/pkg/apperror"
	chat "healthmate/internal/pkg/chat/application/domain"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
	dirport "healthmate/internal/pkg/directory/port"
)

// GetMessagesInput fetches the message log of a conversation for one caller.
type GetMessagesInput struct {
	ConversationID string
	UserID         string
}

// MessageView is a message enriched with sender display data for the client.
type MessageView struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversationId"`
	SenderID       string             `json:"senderId"`
	SenderName     string             `json:"senderName"`
	SenderRole     chat.Role          `json:"senderRole"`
	Content        string             `json:"content"`
	Attachments    []chat.Attachment  `json:"attachments"`
	Status         chat.MessageStatus `json:"status"`
	Read           bool               `json:"read"`
	CreatedAt      int64              `json:"createdAt"`
	IsOwn          bool               `json:"isOwn"`
}

// GetMessagesUseCase returns the conversation's messages in log order and
// marks them read for the caller, mirroring a client opening the thread.
type GetMessagesUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Directory     dirport.Directory
}

func NewGetMessagesUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory dirport.Directory,
) *GetMessagesUseCase {
	return &GetMessagesUseCase{Conversations: conversations, Messages: messages, Directory: directory}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]MessageView, error) {
	conv, err := uc.Conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return nil, apperror.Dependency("unable to look up conversation", err)
	}
	if conv == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, apperror.Authorization("you are not authorized to view this conversation")
	}

	msgs, err := uc.Messages.ListByConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, apperror.Dependency("unable to list messages", err)
	}

	if err := uc.Messages.MarkRead(ctx, in.ConversationID, in.UserID); err != nil {
		return nil, apperror.Dependency("unable to mark messages read", err)
	}

	// Resolve each sender once per conversation, not per message.
	names := make(map[string]string)
	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		name, ok := names[m.SenderID]
		if !ok {
			name = displayName(ctx, uc.Directory, m.SenderID)
			names[m.SenderID] = name
		}
		views = append(views, MessageView{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			SenderName:     name,
			SenderRole:     m.SenderRole,
			Content:        m.Content,
			Attachments:    m.Attachments,
			Status:         m.Status,
			Read:           m.Read,
			CreatedAt:      m.CreatedAt.UnixMilli(),
			IsOwn:          m.SenderID == in.UserID,
		})
	}
	return views, nil
}
