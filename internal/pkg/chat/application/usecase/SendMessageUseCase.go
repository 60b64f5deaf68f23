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

// SendMessageInput carries the data needed to deliver a new message. An empty
// ConversationID is only valid for patients: the direct conversation with the
// assigned doctor is created lazily on the first message.
type SendMessageInput struct {
	SenderID       string
	SenderRole     chat.Role
	ConversationID string
	Content        string
	Attachments    []chat.Attachment
}

// SendMessageResult is the delivered message plus its conversation context.
type SendMessageResult struct {
	Message             *chat.Message
	Conversation        *chat.Conversation
	SenderName          string
	CreatedConversation bool
}

// SendMessageUseCase persists a message and fans it out: message:new to the
// conversation room, conversation:updated to every other participant's
// personal room, and a best-effort chat notification per recipient.
// Message delivery must succeed; notification delivery is best-effort.
type SendMessageUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Directory     dirport.Directory
	Gateway       *realtime.Gateway
	Notifier      MessageNotifier
}

func NewSendMessageUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory dirport.Directory,
	gateway *realtime.Gateway,
	notifier MessageNotifier,
) *SendMessageUseCase {
	return &SendMessageUseCase{
		Conversations: conversations,
		Messages:      messages,
		Directory:     directory,
		Gateway:       gateway,
		Notifier:      notifier,
	}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageResult, error) {
	if in.SenderID == "" {
		return nil, apperror.Validation("sender id is required")
	}

	conv, created, err := uc.resolveConversation(ctx, in)
	if err != nil {
		return nil, err
	}

	msg, err := chat.NewMessage(conv.ID, in.SenderID, in.SenderRole, in.Content, in.Attachments)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	saved, err := uc.Messages.Append(ctx, msg)
	if err != nil {
		// Zero rows means the conversation was destroyed after the lookup
		// above; the append transaction found no live row to lock.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("conversation not found")
		}
		return nil, apperror.Dependency("unable to deliver message", err)
	}

	senderName := displayName(ctx, uc.Directory, in.SenderID)
	uc.fanOut(conv, saved, senderName)

	if uc.Notifier != nil {
		for _, p := range conv.ParticipantOthers(in.SenderID) {
			uc.Notifier.MessageReceived(ctx, MessageNotice{
				RecipientID:    p.UserID,
				ConversationID: conv.ID,
				SenderID:       in.SenderID,
				SenderName:     senderName,
				SenderRole:     in.SenderRole,
				Content:        saved.Content,
			})
		}
	}

	return &SendMessageResult{
		Message:             saved,
		Conversation:        conv,
		SenderName:          senderName,
		CreatedConversation: created,
	}, nil
}

func (uc *SendMessageUseCase) resolveConversation(ctx context.Context, in SendMessageInput) (*chat.Conversation, bool, error) {
	if in.ConversationID == "" {
		if in.SenderRole != chat.RolePatient {
			return nil, false, apperror.Validation("conversation id is required for doctor messages")
		}
		doctorID, err := uc.Directory.AssignedDoctor(ctx, in.SenderID)
		if err != nil {
			return nil, false, apperror.Dependency("unable to resolve assigned doctor", err)
		}
		if doctorID == "" {
			return nil, false, apperror.Validation("you do not have an assigned doctor yet")
		}
		conv, created, err := uc.Conversations.FindOrCreateDirect(ctx, in.SenderID, doctorID)
		if err != nil {
			return nil, false, apperror.Dependency("unable to open conversation", err)
		}
		return conv, created, nil
	}

	conv, err := uc.Conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return nil, false, apperror.Dependency("unable to look up conversation", err)
	}
	if conv == nil {
		return nil, false, apperror.NotFound("conversation not found")
	}
	if !conv.HasParticipant(in.SenderID) {
		return nil, false, apperror.Authorization("you are not a participant in this conversation")
	}
	return conv, false, nil
}

// fanOut emits the realtime events for a delivered message. The sender is
// excluded from the personal-room path on both the direct and group variants.
func (uc *SendMessageUseCase) fanOut(conv *chat.Conversation, msg *chat.Message, senderName string) {
	if uc.Gateway == nil {
		return
	}

	attachments := make([]realtime.AttachmentPayload, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, realtime.AttachmentPayload{
			Type:     a.Type,
			URL:      a.URL,
			Filename: a.Filename,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}

	uc.Gateway.ToRoom(conv.ID, realtime.MessageNew{
		MessageID:      msg.ID,
		ConversationID: conv.ID,
		SenderID:       msg.SenderID,
		SenderName:     senderName,
		SenderRole:     string(msg.SenderRole),
		Content:        msg.Content,
		Attachments:    attachments,
		CreatedAt:      msg.CreatedAt,
	})

	updated := realtime.ConversationUpdated{
		ConversationID: conv.ID,
		LastMessage:    msg.Preview(),
		LastMessageAt:  msg.CreatedAt,
	}
	for _, p := range conv.ParticipantOthers(msg.SenderID) {
		uc.Gateway.ToUser(p.UserID, updated)
	}
}
