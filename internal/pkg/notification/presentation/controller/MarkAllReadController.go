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

// MarkAllReadController clears the caller's unread notifications.
type MarkAllReadController struct {
	UC  *usecase.MarkAllReadUseCase
	Log *logrus.Entry
}

func NewMarkAllReadController(uc *usecase.MarkAllReadUseCase, log *logrus.Entry) *MarkAllReadController {
	return &MarkAllReadController{UC: uc, Log: log}
}

func (h *MarkAllReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, principal.UserID); err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
