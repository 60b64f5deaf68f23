package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_TrimsContent(t *testing.T) {
	msg, err := NewMessage("c1", "u1", RolePatient, "  hello  ", nil)
	require.NoError(t, err)

	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, StatusSent, msg.Status)
	assert.False(t, msg.Read)
}

func TestNewMessage_RejectsEmpty(t *testing.T) {
	_, err := NewMessage("c1", "u1", RolePatient, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNewMessage_AttachmentOnlyIsValid(t *testing.T) {
	msg, err := NewMessage("c1", "u1", RolePatient, "", []Attachment{{URL: "https://cdn/x.png"}})
	require.NoError(t, err)

	assert.Empty(t, msg.Content)
	assert.Equal(t, "[Attachment]", msg.Preview())
}

func TestPreview_PrefersContent(t *testing.T) {
	msg := Message{Content: "hi", Attachments: []Attachment{{URL: "https://cdn/x.png"}}}
	assert.Equal(t, "hi", msg.Preview())
}
