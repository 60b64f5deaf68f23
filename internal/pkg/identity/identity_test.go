package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter(captured *Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", Middleware(), func(c *gin.Context) {
		p, ok := FromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		*captured = p
		c.Status(http.StatusOK)
	})
	return r
}

func TestMiddleware_ForwardsHeaders(t *testing.T) {
	var p Principal
	r := testRouter(&p)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("X-User-Role", "doctor")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Principal{UserID: "u1", Role: "doctor"}, p)
}

func TestMiddleware_RefusesAnonymousRequests(t *testing.T) {
	var p Principal
	r := testRouter(&p)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, p.UserID)
}
