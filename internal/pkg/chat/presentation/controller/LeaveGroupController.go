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

// LeaveGroupController removes the caller from a group conversation.
type LeaveGroupController struct {
	UC  *usecase.LeaveGroupUseCase
	Log *logrus.Entry
}

func NewLeaveGroupController(uc *usecase.LeaveGroupUseCase, log *logrus.Entry) *LeaveGroupController {
	return &LeaveGroupController{UC: uc, Log: log}
}

func (h *LeaveGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := h.UC.Execute(ctx, usecase.LeaveGroupInput{
			ConversationID: c.Param("conversationId"),
			UserID:         principal.UserID,
		})
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"groupName":        result.GroupName,
			"participantCount": len(result.Participants),
		})
	}
}
