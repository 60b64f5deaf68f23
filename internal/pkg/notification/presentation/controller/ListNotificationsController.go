package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthmate/internal/pkg/httperr"
	"healthmate/internal/pkg/identity"
	"healthmate/internal/pkg/notification/application/usecase"
)

// ListNotificationsController serves the caller's notification drawer.
type ListNotificationsController struct {
	UC  *usecase.ListNotificationsUseCase
	Log *logrus.Entry
}

func NewListNotificationsController(uc *usecase.ListNotificationsUseCase, log *logrus.Entry) *ListNotificationsController {
	return &ListNotificationsController{UC: uc, Log: log}
}

func (h *ListNotificationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		limit := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		notifications, err := h.UC.Execute(ctx, principal.UserID, limit)
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"notifications": notifications, "count": len(notifications)})
	}
}
