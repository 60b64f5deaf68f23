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

// DoctorInboxController serves a doctor's conversation inbox.
type DoctorInboxController struct {
	UC  *usecase.DoctorInboxUseCase
	Log *logrus.Entry
}

func NewDoctorInboxController(uc *usecase.DoctorInboxUseCase, log *logrus.Entry) *DoctorInboxController {
	return &DoctorInboxController{UC: uc, Log: log}
}

func (h *DoctorInboxController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		entries, err := h.UC.Execute(ctx, principal.UserID)
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"conversations": entries, "count": len(entries)})
	}
}
