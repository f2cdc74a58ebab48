package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerIncludesIdentityFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/api/markers", func(c *gin.Context) {
		c.Set(ContextKeyUserID, "user-7")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/markers?api_key=qk_secret", nil)
	req.Header.Set("X-Session-Key", "sess-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/markers", fields["path"])
	assert.Equal(t, "user-7", fields["user"])
	assert.Equal(t, "sess-42", fields["session"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestLoggerNeverLogsQueryString(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/api/markers", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/markers?api_key=qk_secret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	for _, v := range logs.All()[0].ContextMap() {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "qk_secret")
		}
	}
}
