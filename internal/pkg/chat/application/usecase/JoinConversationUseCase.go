package usecase

import (
	"context"

	"healthmate/internal/pkg/apperror"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
)

// JoinConversationInput validates a request to attach a live session to a
// conversation room.
type JoinConversationInput struct {
	ConversationID string
	UserID         string
}

// JoinConversationUseCase ensures the user belongs to the conversation before
// the gateway adds the session to the room. Room membership is never inferred
// from participant lists; clients join explicitly.
type JoinConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func NewJoinConversationUseCase(conversations repository.ConversationRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Conversations: conversations}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return apperror.Validation("conversation id and user id are required")
	}

	conv, err := uc.Conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return apperror.Dependency("unable to look up conversation", err)
	}
	if conv == nil {
		return apperror.NotFound("conversation not found")
	}
	if !conv.HasParticipant(in.UserID) {
		return apperror.Authorization("you are not a participant in this conversation")
	}
	return nil
}
