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

// MarkSeenController applies the sent->seen transition for the caller and
// reports how many messages changed.
type MarkSeenController struct {
	UC  *usecase.MarkSeenUseCase
	Log *logrus.Entry
}

func NewMarkSeenController(uc *usecase.MarkSeenUseCase, log *logrus.Entry) *MarkSeenController {
	return &MarkSeenController{UC: uc, Log: log}
}

func (h *MarkSeenController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		changed, err := h.UC.Execute(ctx, usecase.MarkSeenInput{
			ConversationID: c.Param("conversationId"),
			UserID:         principal.UserID,
		})
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "updated": len(changed)})
	}
}
