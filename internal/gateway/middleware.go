package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/aghamazing/quest-core/internal/config"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apikey"
	"github.com/aghamazing/quest-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextKeyIntegration holds the resolved *models.IntegrationModel for
	// downstream handlers and the request logger.
	ContextKeyIntegration = "api_integration"
	// ContextKeyAPIKey holds the presented key value.
	ContextKeyAPIKey = "api_key"
	// ContextKeyAdmittedAt marks the moment the gate admitted the request;
	// response time is measured from here.
	ContextKeyAdmittedAt = "gateway_admitted_at"

	headerPrefix = "Api-Key "
)

// bypassPrefixes are never gatewayed: the staff admin surface and served
// files have their own protection.
var bypassPrefixes = []string{"/admin/", "/static/", "/media/"}

// Gate returns the API-key authentication middleware. Per request it walks
// the admission sequence: key extraction, registry lookup, active flag, IP
// whitelist, rate limit; any failure short-circuits with the matching error
// before handler logic runs.
func Gate(store IntegrationStore, limiter *Limiter, cfg config.GatewayConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range bypassPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if !strings.HasPrefix(path, cfg.APIPrefix+"/") && path != cfg.APIPrefix {
			c.Next()
			return
		}

		key := extractKey(c)
		if key == "" {
			if isPublicReadRoute(cfg, path) {
				c.Next()
				return
			}
			response.Unauthorized(c, "API key is required. Use header: Authorization: Api-Key <your-key>")
			return
		}

		// reject garbage before it costs a registry lookup
		if !apikey.Looks(key) {
			response.Unauthorized(c, "Invalid API key")
			return
		}

		integration, err := store.FindByKey(c.Request.Context(), key)
		if err != nil {
			log.Error("integration lookup failed", zap.Error(err))
			response.InternalError(c, err)
			return
		}
		if integration == nil {
			response.Unauthorized(c, "Invalid API key")
			return
		}
		if !integration.IsActive {
			response.Unauthorized(c, "API key is inactive")
			return
		}

		// The IP gate is checked independently of key validity: a valid key
		// from a foreign address is forbidden, not unauthenticated.
		ip := c.ClientIP()
		if !integration.AllowsIP(ip) {
			response.Forbidden(c, "IP address not allowed")
			return
		}

		if err := limiter.Allow(c.Request.Context(), integration, ip, time.Now()); err != nil {
			response.TooManyRequests(c, "Rate limit exceeded")
			return
		}

		c.Set(ContextKeyIntegration, integration)
		c.Set(ContextKeyAPIKey, key)
		c.Set(ContextKeyAdmittedAt, time.Now())
		c.Next()
	}
}

// EndpointFilter enforces the integration's endpoint allow-list. It runs as
// a separate phase after admission, mirroring the original lifecycle where
// the allow-list was checked once the route had resolved.
func EndpointFilter(cfg config.GatewayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		integration := CurrentIntegration(c)
		if integration == nil || len(integration.AllowedEndpoints) == 0 {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		if !MatchEndpoint(cfg.APIPrefix, path, integration.AllowedEndpoints) {
			response.Forbidden(c, "Access to "+path+" is not allowed for this API key")
			return
		}
		c.Next()
	}
}

// RequestLog persists one IntegrationLog row per gatewayed request after the
// response is produced. The write is asynchronous and best-effort: a logging
// failure never affects the primary response.
func RequestLog(logs LogStore, cfg config.GatewayConfig, log *zap.Logger) gin.HandlerFunc {
	integrationAdminPrefix := cfg.APIPrefix + "/integrations"
	return func(c *gin.Context) {
		c.Next()

		integration := CurrentIntegration(c)
		if integration == nil {
			return
		}
		path := c.Request.URL.Path
		if strings.HasPrefix(path, integrationAdminPrefix) {
			return
		}

		row := &models.IntegrationLogModel{
			IntegrationID: integration.ID,
			Endpoint:      path,
			Method:        c.Request.Method,
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			Status:        c.Writer.Status(),
			ResponseTime:  time.Since(admittedAt(c)).Seconds(),
			RequestedAt:   time.Now(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := logs.Append(ctx, row); err != nil && log != nil {
				log.Warn("gateway request log dropped", zap.Error(err))
			}
		}()
	}
}

// CurrentIntegration extracts the admitted integration from context, or nil
// for non-gatewayed requests.
func CurrentIntegration(c *gin.Context) *models.IntegrationModel {
	v, ok := c.Get(ContextKeyIntegration)
	if !ok {
		return nil
	}
	m, _ := v.(*models.IntegrationModel)
	return m
}

func admittedAt(c *gin.Context) time.Time {
	v, ok := c.Get(ContextKeyAdmittedAt)
	if !ok {
		return time.Now()
	}
	t, _ := v.(time.Time)
	return t
}

func extractKey(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, headerPrefix) {
		return strings.TrimSpace(auth[len(headerPrefix):])
	}
	// query parameter fallback kept for older mobile builds
	return strings.TrimSpace(c.Query("api_key"))
}

func isPublicReadRoute(cfg config.GatewayConfig, path string) bool {
	rel := strings.TrimPrefix(path, cfg.APIPrefix)
	for _, route := range cfg.PublicReadRoutes {
		r := strings.TrimSpace(route)
		if r == "" {
			continue
		}
		if !strings.HasPrefix(r, "/") {
			r = "/" + r
		}
		if rel == r || strings.HasPrefix(rel, r+"/") {
			return true
		}
	}
	return false
}
