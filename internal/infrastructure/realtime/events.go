package realtime

import "time"

// Wire names for every server->client and relayed client event. The set is
// closed: each name pairs with exactly one payload type below, and the Gateway
// only accepts values implementing Event, so payload drift fails at compile time.
const (
	EventMessageNew          = "message:new"
	EventConversationUpdated = "conversation:updated"
	EventConversationCreated = "conversation:created"
	EventGroupMemberLeft     = "group:member_left"
	EventMessageStatusUpdate = "message:status_update"
	EventNotificationNew     = "notification:new"
	EventTypingStart         = "typing:start"
	EventTypingStop          = "typing:stop"
)

// Event is implemented by every outbound payload type.
type Event interface {
	EventName() string
}

// envelope is the frame written to the socket.
type envelope struct {
	Event string `json:"event"`
	Data  Event  `json:"data"`
}

// AttachmentPayload mirrors a stored message attachment on the wire.
type AttachmentPayload struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// ParticipantPayload identifies one conversation member.
type ParticipantPayload struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Name   string `json:"name,omitempty"`
}

// MessageNew is delivered to the conversation room after a successful append.
type MessageNew struct {
	MessageID      string              `json:"messageId"`
	ConversationID string              `json:"conversationId"`
	SenderID       string              `json:"senderId"`
	SenderName     string              `json:"senderName"`
	SenderRole     string              `json:"senderRole"`
	Content        string              `json:"content"`
	Attachments    []AttachmentPayload `json:"attachments"`
	CreatedAt      time.Time           `json:"createdAt"`
}

func (MessageNew) EventName() string { return EventMessageNew }

// ConversationUpdated keeps inbox/list views live for participants who do not
// have the conversation room open. Delivered to personal rooms.
type ConversationUpdated struct {
	ConversationID string    `json:"conversationId"`
	LastMessage    string    `json:"lastMessage"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
}

func (ConversationUpdated) EventName() string { return EventConversationUpdated }

// ConversationCreated announces a new group to each participant's personal room.
type ConversationCreated struct {
	ConversationID   string               `json:"conversationId"`
	Type             string               `json:"type"`
	GroupName        string               `json:"groupName"`
	Participants     []ParticipantPayload `json:"participants"`
	ParticipantCount int                  `json:"participantCount"`
	CreatedAt        time.Time            `json:"createdAt"`
}

func (ConversationCreated) EventName() string { return EventConversationCreated }

// GroupMemberLeft is broadcast to the conversation room after a removal.
type GroupMemberLeft struct {
	ConversationID string               `json:"conversationId"`
	UserID         string               `json:"userId"`
	Participants   []ParticipantPayload `json:"participants"`
	GroupName      string               `json:"groupName"`
}

func (GroupMemberLeft) EventName() string { return EventGroupMemberLeft }

// StatusUpdate batches the messages of one original sender that changed state.
type StatusUpdate struct {
	SenderID   string   `json:"senderId"`
	MessageIDs []string `json:"messageIds"`
	Status     string   `json:"status"`
}

// MessageStatusUpdate carries one mark-seen batch per conversation room.
type MessageStatusUpdate struct {
	ConversationID string         `json:"conversationId"`
	Updates        []StatusUpdate `json:"updates"`
	SeenBy         string         `json:"seenBy"`
}

func (MessageStatusUpdate) EventName() string { return EventMessageStatusUpdate }

// DeepLinkPayload is a structured client navigation target.
type DeepLinkPayload struct {
	Pathname string            `json:"pathname"`
	Query    map[string]string `json:"query,omitempty"`
}

// NotificationPayload is the pushed form of a persisted notification.
type NotificationPayload struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	IsRead      bool              `json:"isRead"`
	Role        string            `json:"role,omitempty"`
	DeepLink    *DeepLinkPayload  `json:"deepLink,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NotificationNew is delivered to the recipient's personal room.
type NotificationNew struct {
	Notification NotificationPayload `json:"notification"`
}

func (NotificationNew) EventName() string { return EventNotificationNew }

// Typing is relayed verbatim to the conversation room, excluding the sender's
// own session. TypingStart/TypingStop only differ in the event name.
type TypingStart struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
}

func (TypingStart) EventName() string { return EventTypingStart }

type TypingStop struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
}

func (TypingStop) EventName() string { return EventTypingStop }
