package usecase

import (
	"context"
	"time"

	"healthmate/internal/infrastructure/realtime"
	"healthmate/internal/pkg/apperror"
	chat "healthmate/internal/pkg/chat/application/domain"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
	dirport "healthmate/internal/pkg/directory/port"
)

// CreateGroupInput opens a group conversation: a doctor plus at least two
// patients.
type CreateGroupInput struct {
	DoctorID   string
	Role       chat.Role
	GroupName  string
	PatientIDs []string
}

// CreateGroupUseCase validates the group invariant, persists the conversation
// and announces it to each participant's personal room.
type CreateGroupUseCase struct {
	Conversations repository.ConversationRepository
	Directory     dirport.Directory
	Gateway       *realtime.Gateway
}

func NewCreateGroupUseCase(
	conversations repository.ConversationRepository,
	directory dirport.Directory,
	gateway *realtime.Gateway,
) *CreateGroupUseCase {
	return &CreateGroupUseCase{Conversations: conversations, Directory: directory, Gateway: gateway}
}

func (uc *CreateGroupUseCase) Execute(ctx context.Context, in CreateGroupInput) (*chat.Conversation, error) {
	if in.Role != chat.RoleDoctor {
		return nil, apperror.Authorization("only doctors can create group conversations")
	}

	conv, err := chat.NewGroup(in.DoctorID, in.GroupName, in.PatientIDs)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	id, err := uc.Conversations.CreateGroup(ctx, conv)
	if err != nil {
		return nil, apperror.Dependency("unable to create group conversation", err)
	}
	conv.ID = id

	uc.announce(ctx, conv)
	return conv, nil
}

func (uc *CreateGroupUseCase) announce(ctx context.Context, conv *chat.Conversation) {
	if uc.Gateway == nil {
		return
	}

	participants := make([]realtime.ParticipantPayload, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		participants = append(participants, realtime.ParticipantPayload{
			UserID: p.UserID,
			Role:   string(p.Role),
			Name:   displayName(ctx, uc.Directory, p.UserID),
		})
	}

	ev := realtime.ConversationCreated{
		ConversationID:   conv.ID,
		Type:             string(chat.KindGroup),
		GroupName:        conv.GroupName,
		Participants:     participants,
		ParticipantCount: len(participants),
		CreatedAt:        time.Now().UTC(),
	}
	for _, p := range conv.Participants {
		uc.Gateway.ToUser(p.UserID, ev)
	}
}
