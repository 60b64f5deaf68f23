package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Principal is the verified caller identity. Verification happens upstream
// (API gateway); this service trusts the forwarded headers verbatim.
type Principal struct {
	UserID string
	Role   string
}

const (
	headerUserID = "X-User-Id"
	headerRole   = "X-User-Role"

	contextKey = "identity.principal"
)

// Middleware extracts the caller identity from the forwarded headers and
// stores it in the request context. Requests without a user id are refused.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "missing user identity",
			})
			return
		}
		c.Set(contextKey, Principal{UserID: userID, Role: c.GetHeader(headerRole)})
		c.Next()
	}
}

// FromContext returns the principal placed by Middleware.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
