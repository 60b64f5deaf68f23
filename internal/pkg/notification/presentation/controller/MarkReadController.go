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

// MarkReadController flips one owned notification to read.
type MarkReadController struct {
	UC  *usecase.MarkReadUseCase
	Log *logrus.Entry
}

func NewMarkReadController(uc *usecase.MarkReadUseCase, log *logrus.Entry) *MarkReadController {
	return &MarkReadController{UC: uc, Log: log}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
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
