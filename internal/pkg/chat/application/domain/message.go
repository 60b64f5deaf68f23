package chat

import (
	"strings"
	"time"
)

// MessageStatus is the recipient-visible delivery stage. It is monotonic:
// sent -> seen, never back.
type MessageStatus string

const (
	StatusSent MessageStatus = "sent"
	StatusSeen MessageStatus = "seen"
)

// Attachment describes one file attached to a message.
type Attachment struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// Message is an immutable log entry in a conversation. Seq is the
// per-conversation ordering key assigned by the store at append time; Read is
// an independent flag flipped by any recipient-side mark-as-read action.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	SenderRole     Role
	Content        string
	Attachments    []Attachment
	Status         MessageStatus
	Read           bool
	Seq            int64
	CreatedAt      time.Time
	Destroyed      bool
}

// NewMessage validates and shapes a message ready to persist. Content is
// trimmed; a message must carry content or at least one attachment.
func NewMessage(conversationID, senderID string, role Role, content string, attachments []Attachment) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderRole:     role,
		Content:        content,
		Attachments:    attachments,
		Status:         StatusSent,
		Read:           false,
	}, nil
}

// Preview is the conversation-list summary of the message.
func (m *Message) Preview() string {
	if m.Content != "" {
		return m.Content
	}
	return "[Attachment]"
}
