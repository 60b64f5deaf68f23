package usecase

import (
	"context"

	"github.com/samber/lo"

	"healthmate/internal/infrastructure/realtime"
	"healthmate/internal/pkg/apperror"
	chat "healthmate/internal/pkg/chat/application/domain"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
)

// MarkSeenInput transitions every pending message from other senders to seen.
type MarkSeenInput struct {
	ConversationID string
	UserID         string
}

// MarkSeenUseCase applies the sent->seen transition and, when anything
// changed, emits one message:status_update batch to the conversation room:
// the changed set grouped by original sender, never one event per message.
// Calling it again is a no-op.
type MarkSeenUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Gateway       *realtime.Gateway
}

func NewMarkSeenUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	gateway *realtime.Gateway,
) *MarkSeenUseCase {
	return &MarkSeenUseCase{Conversations: conversations, Messages: messages, Gateway: gateway}
}

func (uc *MarkSeenUseCase) Execute(ctx context.Context, in MarkSeenInput) ([]chat.Message, error) {
	conv, err := uc.Conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return nil, apperror.Dependency("unable to look up conversation", err)
	}
	if conv == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, apperror.Authorization("you are not authorized to access this conversation")
	}

	changed, err := uc.Messages.MarkSeen(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, apperror.Dependency("unable to mark messages seen", err)
	}
	if len(changed) == 0 || uc.Gateway == nil {
		return changed, nil
	}

	bySender := lo.GroupBy(changed, func(m chat.Message) string { return m.SenderID })
	updates := make([]realtime.StatusUpdate, 0, len(bySender))
	for senderID, msgs := range bySender {
		updates = append(updates, realtime.StatusUpdate{
			SenderID:   senderID,
			MessageIDs: lo.Map(msgs, func(m chat.Message, _ int) string { return m.ID }),
			Status:     string(chat.StatusSeen),
		})
	}

	uc.Gateway.ToRoom(in.ConversationID, realtime.MessageStatusUpdate{
		ConversationID: in.ConversationID,
		Updates:        updates,
		SeenBy:         in.UserID,
	})
	return changed, nil
}
