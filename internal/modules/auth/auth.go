package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aghamazing/quest-core/internal/modules/user"
	"github.com/aghamazing/quest-core/internal/pkg/jwt"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

const tokenTTL = 24 * time.Hour

type Handler struct {
	users *user.Service
	log   *zap.Logger
}

func NewHandler(users *user.Service, log *zap.Logger) *Handler {
	return &Handler{users: users, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

type loginDTO struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

func (h *Handler) Login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	u, err := h.users.FindByLogin(c.Request.Context(), dto.Login)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)) != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := jwt.Sign(u.ID, u.RoleName(), u.IsStaff, u.IsSuperuser, tokenTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := h.users.TouchLogin(c.Request.Context(), u.ID, c.ClientIP()); err != nil {
		h.log.Warn("failed to record login", zap.String("user_id", u.ID), zap.Error(err))
	}
	response.OK(c, loginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(tokenTTL),
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.RoleName(),
	})
}
