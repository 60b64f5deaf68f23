package usecase

import (
	"context"

	chat "healthmate/internal/pkg/chat/application/domain"
	dirport "healthmate/internal/pkg/directory/port"
)

// MessageNotice describes one delivered message for the notification side.
// The chat use cases only know this narrow contract; the notification
// dispatcher implements it.
type MessageNotice struct {
	RecipientID    string
	ConversationID string
	SenderID       string
	SenderName     string
	SenderRole     chat.Role
	Content        string
}

// MessageNotifier receives best-effort notices after message delivery.
// Implementations must never fail the send path; errors are theirs to log.
type MessageNotifier interface {
	MessageReceived(ctx context.Context, n MessageNotice)
}

// displayName resolves a user's display name, falling back to "Unknown" so a
// directory outage never blocks message delivery.
func displayName(ctx context.Context, dir dirport.Directory, userID string) string {
	info, err := dir.Lookup(ctx, userID)
	if err != nil || info == nil || info.Name == "" {
		return "Unknown"
	}
	return info.Name
}
