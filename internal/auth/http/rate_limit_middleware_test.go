package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimitMiddleware(t *testing.T) {
	newRouter := func(rps float64, burst int) *gin.Engine {
		router := gin.New()
		router.POST("/auth/login", LoginRateLimitMiddleware(rps, burst, testLogger()), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	doLogin := func(router *gin.Engine, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":12345"
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("allows within burst", func(t *testing.T) {
		router := newRouter(1, 3)

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doLogin(router, "10.0.0.1").Code)
		}
	})

	t.Run("blocks above burst with retry-after", func(t *testing.T) {
		router := newRouter(0.001, 1)

		assert.Equal(t, http.StatusOK, doLogin(router, "10.0.0.2").Code)

		blocked := doLogin(router, "10.0.0.2")
		assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
		assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	})

	t.Run("limits are per ip", func(t *testing.T) {
		router := newRouter(0.001, 1)

		assert.Equal(t, http.StatusOK, doLogin(router, "10.0.0.3").Code)
		assert.Equal(t, http.StatusTooManyRequests, doLogin(router, "10.0.0.3").Code)
		assert.Equal(t, http.StatusOK, doLogin(router, "10.0.0.4").Code)
	})
}
