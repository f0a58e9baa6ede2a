package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// suspicionRouter records whether the suspicion flag was set for the
// request that reached the handler.
func suspicionRouter(flagged *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Suspicion())
	handle := func(c *gin.Context) {
		*flagged = c.GetBool(SuspiciousKey)
		c.Status(http.StatusOK)
	}
	router.GET("/ping", handle)
	router.POST("/ping", handle)
	return router
}

func TestSuspicionFlagsOddRequests(t *testing.T) {
	t.Run("missing user agent is flagged but still served", func(t *testing.T) {
		var flagged bool
		router := suspicionRouter(&flagged)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "suspicion is advisory, never a rejection")
		assert.True(t, flagged)
	})

	t.Run("mutation without accept header is flagged", func(t *testing.T) {
		var flagged bool
		router := suspicionRouter(&flagged)

		req := httptest.NewRequest(http.MethodPost, "/ping", nil)
		req.Header.Set("User-Agent", "tourbook-test/1.0")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, flagged)
	})

	t.Run("overlong forwarding chain is flagged", func(t *testing.T) {
		var flagged bool
		router := suspicionRouter(&flagged)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("User-Agent", "tourbook-test/1.0")
		req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2, 3.3.3.3, 4.4.4.4, 5.5.5.5")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, flagged)
	})

	t.Run("ordinary request is not flagged", func(t *testing.T) {
		var flagged bool
		router := suspicionRouter(&flagged)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("User-Agent", "Mozilla/5.0")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, flagged)
	})
}
