package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthmate/internal/pkg/identity"
	"healthmate/internal/pkg/notification/application/usecase"
	"healthmate/internal/pkg/notification/presentation/controller"
)

// Deps carries the wired use cases for the notification endpoints.
type Deps struct {
	List              *usecase.ListNotificationsUseCase
	UnreadCount       *usecase.UnreadCountUseCase
	MarkRead          *usecase.MarkReadUseCase
	MarkAllRead       *usecase.MarkAllReadUseCase
	Delete            *usecase.DeleteNotificationUseCase
	PredictionTrigger *usecase.PredictionTriggerUseCase
	ArticleTrigger    *usecase.ArticleTriggerUseCase
	Log               *logrus.Entry
}

// RegisterRoutes binds the notification endpoints under the given router
// group. Trigger endpoints are collaborator-facing and live under /internal.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	listCtl := controller.NewListNotificationsController(d.List, d.Log)
	unreadCtl := controller.NewUnreadCountController(d.UnreadCount, d.Log)
	readCtl := controller.NewMarkReadController(d.MarkRead, d.Log)
	readAllCtl := controller.NewMarkAllReadController(d.MarkAllRead, d.Log)
	deleteCtl := controller.NewDeleteNotificationController(d.Delete, d.Log)
	predictionCtl := controller.NewPredictionTriggerController(d.PredictionTrigger, d.Log)
	articleCtl := controller.NewArticleTriggerController(d.ArticleTrigger, d.Log)

	authed := g.Group("", identity.Middleware())
	authed.GET("/notifications", listCtl.Handle())
	authed.GET("/notifications/unread-count", unreadCtl.Handle())
	authed.PATCH("/notifications/read-all", readAllCtl.Handle())
	authed.PATCH("/notifications/:id/read", readCtl.Handle())
	authed.DELETE("/notifications/:id", deleteCtl.Handle())

	g.POST("/internal/notifications/prediction", predictionCtl.Handle())
	g.POST("/internal/notifications/article", articleCtl.Handle())
}
