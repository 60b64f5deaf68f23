package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthmate/internal/pkg/httperr"
	"healthmate/internal/pkg/notification/application/usecase"
)

// PredictionTriggerController is the collaborator-facing hook the prediction
// service posts to after computing a risk assessment. It sits on the internal
// route group, not behind user identity.
type PredictionTriggerController struct {
	UC  *usecase.PredictionTriggerUseCase
	Log *logrus.Entry
}

func NewPredictionTriggerController(uc *usecase.PredictionTriggerUseCase, log *logrus.Entry) *PredictionTriggerController {
	return &PredictionTriggerController{UC: uc, Log: log}
}

func (h *PredictionTriggerController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var notice usecase.PredictionNotice
		if err := c.ShouldBindJSON(&notice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"statusCode": http.StatusBadRequest, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		created, err := h.UC.Execute(ctx, notice)
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"notifications": created, "count": len(created)})
	}
}
