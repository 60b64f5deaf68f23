package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	chat "healthmate/internal/pkg/chat/application/domain"
	"healthmate/internal/pkg/chat/application/usecase"
	"healthmate/internal/pkg/httperr"
	"healthmate/internal/pkg/identity"
)

// CreateGroupController opens a group conversation. Doctors only.
type CreateGroupController struct {
	UC  *usecase.CreateGroupUseCase
	Log *logrus.Entry
}

func NewCreateGroupController(uc *usecase.CreateGroupUseCase, log *logrus.Entry) *CreateGroupController {
	return &CreateGroupController{UC: uc, Log: log}
}

type createGroupRequest struct {
	GroupName  string   `json:"groupName" binding:"required"`
	PatientIDs []string `json:"patientIds" binding:"required"`
}

func (h *CreateGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := identity.FromContext(c)

		var req createGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"statusCode": http.StatusBadRequest, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.CreateGroupInput{
			DoctorID:   principal.UserID,
			Role:       chat.Role(principal.Role),
			GroupName:  req.GroupName,
			PatientIDs: req.PatientIDs,
		})
		if err != nil {
			httperr.Respond(c, h.Log, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"conversationId":   conv.ID,
			"groupName":        conv.GroupName,
			"participantCount": len(conv.Participants),
		})
	}
}
