package v1

import (
	"github.com/gin-gonic/gin"

	chathttp "healthmate/internal/pkg/chat/presentation/http"
	notifhttp "healthmate/internal/pkg/notification/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, chat chathttp.Deps, notif notifhttp.Deps) {
	v1 := r.Group("/api/v1")
	chathttp.RegisterRoutes(v1, chat)
	notifhttp.RegisterRoutes(v1, notif)
}
