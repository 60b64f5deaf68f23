package usecase

import (
	"context"

	"healthmate/internal/pkg/apperror"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput flags every message not authored by the caller as read.
type MarkReadInput struct {
	ConversationID string
	UserID         string
}

type MarkReadUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
}

func NewMarkReadUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
) *MarkReadUseCase {
	return &MarkReadUseCase{Conversations: conversations, Messages: messages}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
	conv, err := uc.Conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return apperror.Dependency("unable to look up conversation", err)
	}
	if conv == nil {
		return apperror.NotFound("conversation not found")
	}
	if !conv.HasParticipant(in.UserID) {
		return apperror.Authorization("you are not authorized to access this conversation")
	}

	if err := uc.Messages.MarkRead(ctx, in.ConversationID, in.UserID); err != nil {
		return apperror.Dependency("unable to mark messages read", err)
	}
	return nil
}
