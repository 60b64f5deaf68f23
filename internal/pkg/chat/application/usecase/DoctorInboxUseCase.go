package usecase

import (
	"context"

	"healthmate/internal/pkg/apperror"
	chat "healthmate/internal/pkg/chat/application/domain"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
	dirport "healthmate/internal/pkg/directory/port"
)

// InboxEntry is one conversation in a doctor's inbox, enriched with the peer's
// display data and the caller's unread count.
type InboxEntry struct {
	ConversationID string                `json:"conversationId"`
	Kind           chat.ConversationKind `json:"type"`
	PeerID         string                `json:"peerId,omitempty"`
	PeerName       string                `json:"peerName,omitempty"`
	PeerAvatar     string                `json:"peerAvatar,omitempty"`
	GroupName      string                `json:"groupName,omitempty"`
	Participants   int                   `json:"participantCount"`
	LastMessage    string                `json:"lastMessage"`
	LastMessageAt  int64                 `json:"lastMessageAt"`
	UnreadCount    int64                 `json:"unreadCount"`
	UpdatedAt      int64                 `json:"updatedAt"`
}

// DoctorInboxUseCase lists a doctor's conversations (direct and group),
// newest activity first.
type DoctorInboxUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Directory     dirport.Directory
}

func NewDoctorInboxUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory dirport.Directory,
) *DoctorInboxUseCase {
	return &DoctorInboxUseCase{Conversations: conversations, Messages: messages, Directory: directory}
}

func (uc *DoctorInboxUseCase) Execute(ctx context.Context, doctorID string) ([]InboxEntry, error) {
	convs, err := uc.Conversations.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperror.Dependency("unable to list conversations", err)
	}

	inbox := make([]InboxEntry, 0, len(convs))
	for _, conv := range convs {
		entry := InboxEntry{
			ConversationID: conv.ID,
			Kind:           conv.Kind,
			GroupName:      conv.GroupName,
			Participants:   len(conv.Participants),
			LastMessage:    conv.LastMessage,
			LastMessageAt:  conv.LastMessageAt.UnixMilli(),
			UpdatedAt:      conv.UpdatedAt.UnixMilli(),
		}

		if conv.Kind == chat.KindDirect {
			entry.PeerID = conv.PatientID
			if info, err := uc.Directory.Lookup(ctx, conv.PatientID); err == nil && info != nil {
				entry.PeerName = info.Name
				entry.PeerAvatar = info.Avatar
			} else {
				entry.PeerName = "Unknown"
			}
		}

		unread, err := uc.Messages.CountUnread(ctx, conv.ID, doctorID)
		if err != nil {
			return nil, apperror.Dependency("unable to count unread messages", err)
		}
		entry.UnreadCount = unread

		inbox = append(inbox, entry)
	}
	return inbox, nil
}
