package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthmate/internal/pkg/httperr"
	"healthmate/internal/pkg/identity"
	"healthmate/internal/pkg/notification/application/usecase"
)

// UnreadCountController serves the caller's unread badge counter.
type UnreadCountController struct {
	UC  *usecase.UnreadCountUseCase
	Log *logrus.Entry
}

func NewUnreadCountController(uc *usecase.UnreadCountUseCase, log *logrus.Entry) *UnreadCountController {
	return &UnreadCountController{UC: uc, Log: log}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := h.UC.Execute(ctx, principal.UserID)
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"unreadCount": total})
	}
}
