package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthmate/internal/pkg/chat/application/usecase"
	"healthmate/internal/pkg/httperr"
	"healthmate/internal/pkg/identity"
)

// GetMessagesController serves a conversation's message log. Fetching the log
// also marks it read for the caller, mirroring a client opening the thread.
type GetMessagesController struct {
	UC  *usecase.GetMessagesUseCase
	Log *logrus.Entry
}

func NewGetMessagesController(uc *usecase.GetMessagesUseCase, log *logrus.Entry) *GetMessagesController {
	return &GetMessagesController{UC: uc, Log: log}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		messages, err := h.UC.Execute(ctx, usecase.GetMessagesInput{
			ConversationID: c.Param("conversationId"),
			UserID:         principal.UserID,
		})
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
	}
}
