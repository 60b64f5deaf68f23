package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthmate/internal/pkg/apperror"
)

// Respond renders an error as {statusCode, message}. Application errors carry
// their own status; anything else becomes an opaque 500. Underlying causes go
// to the log only, never to the client.
func Respond(c *gin.Context, log *logrus.Entry, err error) {
	if e, ok := apperror.As(err); ok {
		if e.Cause != nil {
			log.WithError(e.Cause).WithField("path", c.FullPath()).Error(e.Message)
		}
		c.JSON(e.StatusCode(), gin.H{"statusCode": e.StatusCode(), "message": e.Message})
		return
	}

	log.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"statusCode": http.StatusInternalServerError,
		"message":    "internal server error",
	})
}
