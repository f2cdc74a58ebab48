package integration

import (
	"github.com/gin-gonic/gin"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/pkg/pagination"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the integration admin surface. Only staff accounts
// may manage keys.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	g := r.Group("/integrations")
	g.Use(auth, middleware.RequireStaff())
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PATCH("/:id", h.Update)
		g.POST("/:id/revoke", h.Revoke)
		g.DELETE("/:id", h.Delete)
		g.GET("/:id/logs", h.Logs)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	created, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Created(c, created)
}

func (h *Handler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) List(c *gin.Context) {
	pq := pagination.FromContext(c)
	rows, total, err := h.service.List(c.Request.Context(), pq)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Paged(c, rows, pq.Page, pq.Size, total)
}

func (h *Handler) Update(c *gin.Context) {
	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.Update(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) Revoke(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Logs(c *gin.Context) {
	pq := pagination.FromContext(c)
	rows, total, err := h.service.Logs(c.Request.Context(), c.Param("id"), pq)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Paged(c, rows, pq.Page, pq.Size, total)
}
