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

// DeleteNotificationController soft-deletes one owned notification.
type DeleteNotificationController struct {
	UC  *usecase.DeleteNotificationUseCase
	Log *logrus.Entry
}

func NewDeleteNotificationController(uc *usecase.DeleteNotificationUseCase, log *logrus.Entry) *DeleteNotificationController {
	return &DeleteNotificationController{UC: uc, Log: log}
}

func (h *DeleteNotificationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, c.Param("id"), principal.UserID); err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
