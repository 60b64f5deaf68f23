package usecase

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"healthmate/internal/infrastructure/realtime"
	"healthmate/internal/pkg/apperror"
	chat "healthmate/internal/pkg/chat/application/domain"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
	dirport "healthmate/internal/pkg/directory/port"
)

// LeaveGroupInput removes a user from a group conversation.
type LeaveGroupInput struct {
	ConversationID string
	UserID         string
}

// LeaveGroupResult carries the remaining participant list for the
// group:member_left broadcast and the HTTP response.
type LeaveGroupResult struct {
	GroupName    string
	Participants []chat.Participant
}

// LeaveGroupUseCase drops the participant and notifies the conversation room.
// No minimum group size is re-enforced after removal.
type LeaveGroupUseCase struct {
	Conversations repository.ConversationRepository
	Directory     dirport.Directory
	Gateway       *realtime.Gateway
}

func NewLeaveGroupUseCase(
	conversations repository.ConversationRepository,
	directory dirport.Directory,
	gateway *realtime.Gateway,
) *LeaveGroupUseCase {
	return &LeaveGroupUseCase{Conversations: conversations, Directory: directory, Gateway: gateway}
}

func (uc *LeaveGroupUseCase) Execute(ctx context.Context, in LeaveGroupInput) (*LeaveGroupResult, error) {
	conv, err := uc.Conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return nil, apperror.Dependency("unable to look up conversation", err)
	}
	if conv == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	if conv.Kind != chat.KindGroup {
		return nil, apperror.Validation("only group conversations can be left")
	}
	if !conv.HasParticipant(in.UserID) {
		return nil, apperror.Authorization("you are not a participant in this conversation")
	}

	if err := uc.Conversations.RemoveParticipant(ctx, in.ConversationID, in.UserID); err != nil {
		// The membership check above is not transactional with the delete;
		// a concurrent removal surfaces here as zero rows.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("participant not found")
		}
		return nil, apperror.Dependency("unable to leave group", err)
	}

	remaining := conv.ParticipantOthers(in.UserID)

	if uc.Gateway != nil {
		participants := make([]realtime.ParticipantPayload, 0, len(remaining))
		for _, p := range remaining {
			participants = append(participants, realtime.ParticipantPayload{
				UserID: p.UserID,
				Role:   string(p.Role),
				Name:   displayName(ctx, uc.Directory, p.UserID),
			})
		}
		uc.Gateway.ToRoom(in.ConversationID, realtime.GroupMemberLeft{
			ConversationID: in.ConversationID,
			UserID:         in.UserID,
			Participants:   participants,
			GroupName:      conv.GroupName,
		})
	}

	return &LeaveGroupResult{GroupName: conv.GroupName, Participants: remaining}, nil
}
