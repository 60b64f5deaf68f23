package notification

import (
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Type enumerates the notification categories surfaced by the platform.
type Type string

const (
	TypeChat       Type = "chat"
	TypePrediction Type = "prediction"
	TypeReminder   Type = "reminder"
	TypeAlert      Type = "alert"
	TypeArticle    Type = "article"
)

// DeepLink is a structured client navigation target embedded in a
// notification.
type DeepLink struct {
	Pathname string            `json:"pathname" validate:"required"`
	Query    map[string]string `json:"query,omitempty"`
}

// Notification is a persisted, user-addressed event independent of any
// conversation. Meta holds weak references only (lookup keys, no ownership).
// Notifications are soft-deleted by their owner, never hard-deleted.
type Notification struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId" validate:"required"`
	Type        Type              `json:"type" validate:"required,oneof=chat prediction reminder alert article"`
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"required,max=500"`
	IsRead      bool              `json:"isRead"`
	Role        string            `json:"role,omitempty" validate:"omitempty,oneof=doctor patient"`
	DeepLink    *DeepLink         `json:"deepLink,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	Destroyed   bool              `json:"-"`
}

var validate = validator.New()

// Validate checks the notification against the fixed schema (type enum, title
// and description length caps, optional role/deep link).
func (n *Notification) Validate() error {
	return validate.Struct(n)
}

// PreviewLimit is the character budget for chat notification descriptions.
const PreviewLimit = 100

// Truncate cuts s to at most limit runes, appending an ellipsis marker when
// anything was cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
