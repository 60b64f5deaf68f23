package repository

import (
	"context"

	chat "healthmate/internal/pkg/chat/application/domain"
)

// ConversationRepository defines persistence for conversation records.
// Lookups return (nil, nil) when no matching record exists; transport layers
// translate that into not-found responses.
type ConversationRepository interface {
	// FindOrCreateDirect atomically finds the non-destroyed direct
	// conversation for the pair or inserts it, and reports whether a row was
	// created. The uniqueness of (patientID, doctorID) is a store constraint,
	// not a read-then-write check.
	FindOrCreateDirect(ctx context.Context, patientID, doctorID string) (conv *chat.Conversation, created bool, err error)

	// CreateGroup persists a group conversation and its participant list and
	// returns the store-assigned ID.
	CreateGroup(ctx context.Context, c *chat.Conversation) (string, error)

	FindByID(ctx context.Context, conversationID string) (*chat.Conversation, error)

	// ListForDoctor and ListForPatient return the union of direct
	// conversations and groups the user participates in, newest activity
	// first. Participant lists are populated.
	ListForDoctor(ctx context.Context, doctorID string) ([]chat.Conversation, error)
	ListForPatient(ctx context.Context, patientID string) ([]chat.Conversation, error)

	RemoveParticipant(ctx context.Context, conversationID, userID string) error
}

// MessageRepository defines persistence for the per-conversation message log.
type MessageRepository interface {
	// Append persists the message, assigning ID, Seq and CreatedAt, and
	// advances the conversation's last-message preview in the same
	// transaction under the conversation row lock.
	Append(ctx context.Context, m *chat.Message) (*chat.Message, error)

	// ListByConversation returns messages in ascending sequence order.
	ListByConversation(ctx context.Context, conversationID string) ([]chat.Message, error)

	// MarkRead flags every message not authored by userID as read.
	MarkRead(ctx context.Context, conversationID, userID string) error

	// MarkSeen transitions every 'sent' message not authored by userID to
	// 'seen' (and read) and returns exactly the messages that changed.
	// A repeat call returns an empty set.
	MarkSeen(ctx context.Context, conversationID, userID string) ([]chat.Message, error)

	// CountUnread counts messages not authored by userID and not yet read.
	CountUnread(ctx context.Context, conversationID, userID string) (int64, error)
}
