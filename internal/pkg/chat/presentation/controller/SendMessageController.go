package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	chat "healthmate/internal/pkg/chat/application/domain"
	"healthmate/internal/pkg/chat/application/usecase"
	"healthmate/internal/pkg/httperr"
	"healthmate/internal/pkg/identity"
)

// SendMessageController handles the send-message endpoint only (one
// controller per endpoint).
type SendMessageController struct {
	UC  *usecase.SendMessageUseCase
	Log *logrus.Entry
}

func NewSendMessageController(uc *usecase.SendMessageUseCase, log *logrus.Entry) *SendMessageController {
	return &SendMessageController{UC: uc, Log: log}
}

type attachmentRequest struct {
	Type     string `json:"type"`
	URL      string `json:"url" binding:"required"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// sendMessageRequest is the DTO for the HTTP request body. ConversationID is
// optional for patients: their direct thread is opened lazily.
type sendMessageRequest struct {
	ConversationID string              `json:"conversationId"`
	Content        string              `json:"content"`
	Attachments    []attachmentRequest `json:"attachments"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"statusCode": http.StatusBadRequest, "message": err.Error()})
			return
		}

		attachments := make([]chat.Attachment, 0, len(req.Attachments))
		for _, a := range req.Attachments {
			attachments = append(attachments, chat.Attachment{
				Type:     a.Type,
				URL:      a.URL,
				Filename: a.Filename,
				MimeType: a.MimeType,
				Size:     a.Size,
			})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			SenderID:       principal.UserID,
			SenderRole:     chat.Role(principal.Role),
			ConversationID: req.ConversationID,
			Content:        req.Content,
			Attachments:    attachments,
		})
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":             result.Message,
			"conversationId":      result.Conversation.ID,
			"createdConversation": result.CreatedConversation,
		})
	}
}
