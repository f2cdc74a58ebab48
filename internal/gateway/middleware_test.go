package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aghamazing/quest-core/internal/config"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memIntegrationStore is an in-memory IntegrationStore for tests.
type memIntegrationStore struct {
	byKey map[string]*models.IntegrationModel
}

func (m *memIntegrationStore) FindByKey(ctx context.Context, key string) (*models.IntegrationModel, error) {
	return m.byKey[key], nil
}

// memLogStore collects appended rows and signals each append.
type memLogStore struct {
	mu       sync.Mutex
	rows     []*models.IntegrationLogModel
	appended chan struct{}
}

func newMemLogStore() *memLogStore {
	return &memLogStore{appended: make(chan struct{}, 16)}
}

func (m *memLogStore) Append(ctx context.Context, row *models.IntegrationLogModel) error {
	m.mu.Lock()
	m.rows = append(m.rows, row)
	m.mu.Unlock()
	m.appended <- struct{}{}
	return nil
}

func (m *memLogStore) waitOne(t *testing.T) *models.IntegrationLogModel {
	t.Helper()
	select {
	case <-m.appended:
	case <-time.After(2 * time.Second):
		t.Fatal("no log row appended")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[len(m.rows)-1]
}

func gatewayConfig() config.GatewayConfig {
	return config.GatewayConfig{
		APIPrefix:        "/api",
		PublicReadRoutes: []string{"/markers", "/challenges"},
	}
}

func newTestRouter(store IntegrationStore, logs LogStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := gatewayConfig()
	limiter := NewLimiter(newMemCounter(), zap.NewNop())

	r := gin.New()
	r.Use(RequestLog(logs, cfg, zap.NewNop()))
	r.Use(Gate(store, limiter, cfg, zap.NewNop()))
	r.Use(EndpointFilter(cfg))

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "ok"}) }
	r.GET("/api/markers", ok)
	r.GET("/api/challenges", ok)
	r.GET("/api/content/:id/", ok)
	r.GET("/api/users/", ok)
	r.GET("/api/feedback", ok)
	r.GET("/admin/api/whoami", ok)
	return r
}

func seededStore(itg *models.IntegrationModel) *memIntegrationStore {
	return &memIntegrationStore{byKey: map[string]*models.IntegrationModel{itg.APIKey: itg}}
}

func activeIntegration() *models.IntegrationModel {
	m := &models.IntegrationModel{
		Name:      "AR Mobile App",
		APIKey:    "qk_test000000000000000000000000000000000000000",
		IsActive:  true,
		RateLimit: 1000,
	}
	m.ID = "itg-mobile"
	return m
}

func do(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGateMissingKey(t *testing.T) {
	r := newTestRouter(seededStore(activeIntegration()), newMemLogStore())
	w := do(r, http.MethodGet, "/api/feedback", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key is required")
}

func TestGatePublicReadRoutesNeedNoKey(t *testing.T) {
	r := newTestRouter(seededStore(activeIntegration()), newMemLogStore())
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/markers", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/challenges", nil).Code)
}

func TestGateInvalidKey(t *testing.T) {
	r := newTestRouter(seededStore(activeIntegration()), newMemLogStore())
	w := do(r, http.MethodGet, "/api/feedback", map[string]string{"Authorization": "Api-Key qk_wrong00000000000000000000000000000000000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestGateInvalidKeyOnPublicRouteStillRejected(t *testing.T) {
	// the read-only bypass applies only when no key is presented at all
	r := newTestRouter(seededStore(activeIntegration()), newMemLogStore())
	w := do(r, http.MethodGet, "/api/markers", map[string]string{"Authorization": "Api-Key qk_wrong00000000000000000000000000000000000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// countingStore tallies registry lookups on top of the fake store.
type countingStore struct {
	memIntegrationStore
	lookups int
}

func (c *countingStore) FindByKey(ctx context.Context, key string) (*models.IntegrationModel, error) {
	c.lookups++
	return c.memIntegrationStore.FindByKey(ctx, key)
}

func TestGateMalformedKeyRejectedBeforeLookup(t *testing.T) {
	store := &countingStore{memIntegrationStore: *seededStore(activeIntegration())}
	r := newTestRouter(store, newMemLogStore())

	for _, key := range []string{"not-a-key", "qk_tooshort", "qk_" + strings.Repeat("!", 43)} {
		w := do(r, http.MethodGet, "/api/feedback", map[string]string{"Authorization": "Api-Key " + key})
		assert.Equal(t, http.StatusUnauthorized, w.Code, key)
		assert.Contains(t, w.Body.String(), "Invalid API key")
	}
	assert.Zero(t, store.lookups)
}

func TestGateInactiveKey(t *testing.T) {
	itg := activeIntegration()
	itg.IsActive = false
	r := newTestRouter(seededStore(itg), newMemLogStore())
	w := do(r, http.MethodGet, "/api/feedback", map[string]string{"Authorization": "Api-Key qk_test000000000000000000000000000000000000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "inactive")
}

func TestGateQueryParamFallback(t *testing.T) {
	r := newTestRouter(seededStore(activeIntegration()), newMemLogStore())
	w := do(r, http.MethodGet, "/api/feedback?api_key=qk_test000000000000000000000000000000000000000", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateIPWhitelist(t *testing.T) {
	itg := activeIntegration()
	itg.IPWhitelist = models.StringSlice{"203.0.113.7"}
	r := newTestRouter(seededStore(itg), newMemLogStore())

	w := do(r, http.MethodGet, "/api/feedback", map[string]string{"Authorization": "Api-Key qk_test000000000000000000000000000000000000000"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "IP address not allowed")

	w = do(r, http.MethodGet, "/api/feedback", map[string]string{
		"Authorization":   "Api-Key qk_test000000000000000000000000000000000000000",
		"X-Forwarded-For": "203.0.113.7",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateRateLimitStrictBoundary(t *testing.T) {
	itg := activeIntegration()
	itg.RateLimit = 3
	gin.SetMode(gin.TestMode)
	cfg := gatewayConfig()
	limiter := NewLimiter(newMemCounter(), zap.NewNop())

	r := gin.New()
	r.Use(Gate(seededStore(itg), limiter, cfg, zap.NewNop()))
	r.GET("/api/feedback", func(c *gin.Context) { c.Status(http.StatusOK) })

	header := map[string]string{"Authorization": "Api-Key qk_test000000000000000000000000000000000000000"}
	for i := 1; i <= 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/feedback", header).Code, "attempt %d", i)
	}
	w := do(r, http.MethodGet, "/api/feedback", header)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestEndpointFilter(t *testing.T) {
	itg := activeIntegration()
	itg.AllowedEndpoints = models.StringSlice{"/content/*"}
	r := newTestRouter(seededStore(itg), newMemLogStore())
	header := map[string]string{"Authorization": "Api-Key qk_test000000000000000000000000000000000000000"}

	w := do(r, http.MethodGet, "/api/users/", header)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not allowed for this API key")

	w = do(r, http.MethodGet, "/api/content/42/", header)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateBypassesAdminSurface(t *testing.T) {
	r := newTestRouter(seededStore(activeIntegration()), newMemLogStore())
	w := do(r, http.MethodGet, "/admin/api/whoami", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogCapturesAdmittedCall(t *testing.T) {
	logs := newMemLogStore()
	r := newTestRouter(seededStore(activeIntegration()), logs)

	w := do(r, http.MethodGet, "/api/feedback", map[string]string{
		"Authorization": "Api-Key qk_test000000000000000000000000000000000000000",
		"User-Agent":    "quest-mobile/2.1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	row := logs.waitOne(t)
	assert.Equal(t, "itg-mobile", row.IntegrationID)
	assert.Equal(t, "/api/feedback", row.Endpoint)
	assert.Equal(t, http.MethodGet, row.Method)
	assert.Equal(t, http.StatusOK, row.Status)
	assert.Equal(t, "quest-mobile/2.1", row.UserAgent)
	assert.GreaterOrEqual(t, row.ResponseTime, 0.0)
}

func TestRequestLogSkipsAnonymousRequests(t *testing.T) {
	logs := newMemLogStore()
	r := newTestRouter(seededStore(activeIntegration()), logs)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/markers", nil).Code)

	select {
	case <-logs.appended:
		t.Fatal("anonymous request must not be logged")
	case <-time.After(100 * time.Millisecond):
	}
}
