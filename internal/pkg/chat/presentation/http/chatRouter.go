package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthmate/internal/infrastructure/realtime"
	"healthmate/internal/pkg/chat/application/usecase"
	"healthmate/internal/pkg/chat/presentation/controller"
	"healthmate/internal/pkg/identity"
)

// Deps carries the wired use cases for the chat endpoints.
type Deps struct {
	Send        *usecase.SendMessageUseCase
	Inbox       *usecase.DoctorInboxUseCase
	Convos      *usecase.PatientConversationsUseCase
	Messages    *usecase.GetMessagesUseCase
	MarkRead    *usecase.MarkReadUseCase
	MarkSeen    *usecase.MarkSeenUseCase
	CreateGroup *usecase.CreateGroupUseCase
	LeaveGroup  *usecase.LeaveGroupUseCase
	JoinConvo   *usecase.JoinConversationUseCase
	Gateway     *realtime.Gateway
	Log         *logrus.Entry
}

// RegisterRoutes binds the chat endpoints under the given router group. It
// constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	sendCtl := controller.NewSendMessageController(d.Send, d.Log)
	inboxCtl := controller.NewDoctorInboxController(d.Inbox, d.Log)
	convosCtl := controller.NewPatientConversationsController(d.Convos, d.Log)
	messagesCtl := controller.NewGetMessagesController(d.Messages, d.Log)
	readCtl := controller.NewMarkReadController(d.MarkRead, d.Log)
	seenCtl := controller.NewMarkSeenController(d.MarkSeen, d.Log)
	groupCtl := controller.NewCreateGroupController(d.CreateGroup, d.Log)
	leaveCtl := controller.NewLeaveGroupController(d.LeaveGroup, d.Log)
	socketCtl := controller.NewChatSocketController(d.Gateway, d.JoinConvo, d.Log)

	// The websocket handshake authenticates from the query string because
	// browsers cannot set headers on ws upgrades.
	g.GET("/chat/ws", socketCtl.Handle())

	authed := g.Group("", identity.Middleware())
	authed.POST("/chat/messages", sendCtl.Handle())
	authed.GET("/chat/inbox", inboxCtl.Handle())
	authed.GET("/chat/conversations", convosCtl.Handle())
	authed.GET("/chat/conversations/:conversationId/messages", messagesCtl.Handle())
	authed.POST("/chat/conversations/:conversationId/read", readCtl.Handle())
	authed.POST("/chat/conversations/:conversationId/seen", seenCtl.Handle())
	authed.POST("/chat/conversations/:conversationId/leave", leaveCtl.Handle())
	authed.POST("/chat/groups", groupCtl.Handle())
}
