package middleware

import (
	"strings"

	"github.com/aghamazing/quest-core/internal/pkg/jwt"
	"github.com/aghamazing/quest-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "claims"
)

// Actor is the authenticated principal a transition policy evaluates.
type Actor struct {
	UserID      string
	Role        string
	IsStaff     bool
	IsSuperuser bool
}

// Auth returns a middleware that enforces JWT authentication for staff routes.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.Parse(extractToken(c))
		if err != nil {
			response.Unauthorized(c, "authentication required")
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// OptionalAuth sets the actor if a valid token is present, but does not
// block the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := jwt.Parse(extractToken(c)); err == nil && claims.UserID != "" {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyClaims, claims)
		}
		c.Next()
	}
}

// RequireStaff blocks authenticated but non-staff accounts. It must run
// after Auth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if !actor.IsStaff && !actor.IsSuperuser {
			response.Forbidden(c, "staff access required")
			return
		}
		c.Next()
	}
}

// CurrentActor extracts the authenticated principal from context. The zero
// Actor means the request is anonymous.
func CurrentActor(c *gin.Context) Actor {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return Actor{}
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		return Actor{}
	}
	return Actor{
		UserID:      claims.UserID,
		Role:        claims.Role,
		IsStaff:     claims.IsStaff,
		IsSuperuser: claims.IsSuperuser,
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

func extractToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if auth != "" {
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			return strings.TrimSpace(auth[7:])
		}
		return auth
	}
	return strings.TrimSpace(c.Query("token"))
}
