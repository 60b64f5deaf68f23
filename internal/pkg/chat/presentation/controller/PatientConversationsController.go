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

// PatientConversationsController serves a patient's conversation list,
// including the assigned-doctor placeholder when no thread exists yet.
type PatientConversationsController struct {
	UC  *usecase.PatientConversationsUseCase
	Log *logrus.Entry
}

func NewPatientConversationsController(uc *usecase.PatientConversationsUseCase, log *logrus.Entry) *PatientConversationsController {
	return &PatientConversationsController{UC: uc, Log: log}
}

func (h *PatientConversationsController) Handle() gin.HandlerFunc {
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
