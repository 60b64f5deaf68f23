package usecase

import (
	"context"

	"healthmate/internal/pkg/apperror"
	chat "healthmate/internal/pkg/chat/application/domain"
	repository "healthmate/internal/pkg/chat/persistence/repository/port"
	dirport "healthmate/internal/pkg/directory/port"
)

// PatientConversation is one entry in a patient's conversation list. When the
// patient has an assigned doctor but no conversation yet, a placeholder entry
// with HasConversation=false carries the doctor's display data so the client
// can still render the contact.
type PatientConversation struct {
	ConversationID  string                `json:"conversationId,omitempty"`
	Kind            chat.ConversationKind `json:"type,omitempty"`
	DoctorID        string                `json:"doctorId,omitempty"`
	DoctorName      string                `json:"doctorName,omitempty"`
	DoctorAvatar    string                `json:"doctorAvatar,omitempty"`
	DoctorSpecialty string                `json:"doctorSpecialty,omitempty"`
	GroupName       string                `json:"groupName,omitempty"`
	LastMessage     string                `json:"lastMessage,omitempty"`
	LastMessageAt   int64                 `json:"lastMessageAt,omitempty"`
	UnreadCount     int64                 `json:"unreadCount"`
	HasConversation bool                  `json:"hasConversation"`
}

// PatientConversationsUseCase lists a patient's conversations: the direct
// thread with the assigned doctor (or its placeholder) plus any groups.
type PatientConversationsUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Directory     dirport.Directory
}

func NewPatientConversationsUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory dirport.Directory,
) *PatientConversationsUseCase {
	return &PatientConversationsUseCase{Conversations: conversations, Messages: messages, Directory: directory}
}

func (uc *PatientConversationsUseCase) Execute(ctx context.Context, patientID string) ([]PatientConversation, error) {
	convs, err := uc.Conversations.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, apperror.Dependency("unable to list conversations", err)
	}

	out := make([]PatientConversation, 0, len(convs)+1)
	haveDirect := false
	for _, conv := range convs {
		entry := PatientConversation{
			ConversationID:  conv.ID,
			Kind:            conv.Kind,
			GroupName:       conv.GroupName,
			LastMessage:     conv.LastMessage,
			LastMessageAt:   conv.LastMessageAt.UnixMilli(),
			HasConversation: true,
		}
		if conv.Kind == chat.KindDirect {
			haveDirect = true
			entry.DoctorID = conv.DoctorID
			uc.fillDoctor(ctx, &entry, conv.DoctorID)
		}

		unread, err := uc.Messages.CountUnread(ctx, conv.ID, patientID)
		if err != nil {
			return nil, apperror.Dependency("unable to count unread messages", err)
		}
		entry.UnreadCount = unread
		out = append(out, entry)
	}

	// Assigned doctor without a first message yet: surface a placeholder so
	// the patient can still see who to contact.
	if !haveDirect {
		doctorID, err := uc.Directory.AssignedDoctor(ctx, patientID)
		if err != nil {
			return nil, apperror.Dependency("unable to resolve assigned doctor", err)
		}
		if doctorID != "" {
			entry := PatientConversation{DoctorID: doctorID, HasConversation: false}
			uc.fillDoctor(ctx, &entry, doctorID)
			out = append(out, entry)
		}
	}
	return out, nil
}

func (uc *PatientConversationsUseCase) fillDoctor(ctx context.Context, entry *PatientConversation, doctorID string) {
	info, err := uc.Directory.Lookup(ctx, doctorID)
	if err != nil || info == nil {
		entry.DoctorName = "Doctor"
		entry.DoctorSpecialty = "General"
		return
	}
	entry.DoctorName = info.Name
	entry.DoctorAvatar = info.Avatar
	entry.DoctorSpecialty = info.Specialty
	if entry.DoctorSpecialty == "" {
		entry.DoctorSpecialty = "General"
	}
}
