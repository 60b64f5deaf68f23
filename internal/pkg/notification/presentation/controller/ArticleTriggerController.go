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

// ArticleTriggerController is the internal hook the articles feature posts to
// when publishing content for a user.
type ArticleTriggerController struct {
	UC  *usecase.ArticleTriggerUseCase
	Log *logrus.Entry
}

func NewArticleTriggerController(uc *usecase.ArticleTriggerUseCase, log *logrus.Entry) *ArticleTriggerController {
	return &ArticleTriggerController{UC: uc, Log: log}
}

func (h *ArticleTriggerController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var notice usecase.ArticleNotice
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

		c.JSON(http.StatusCreated, gin.H{"notification": created})
	}
}
