package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the dashboard under the staff surface and the
// interaction endpoints under the gatewayed API.
func (h *Handler) RegisterRoutes(staff *gin.RouterGroup, api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := staff.Group("/analytics")
	g.Use(auth, middleware.RequireStaff())
	{
		g.GET("/dashboard", h.Dashboard)
		g.GET("/content/:id", h.ContentStats)
	}

	api.POST("/content/:id/view", h.TrackView)
	api.POST("/interactions", h.RecordInteraction)
}

func (h *Handler) Dashboard(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, snap)
}

func (h *Handler) ContentStats(c *gin.Context) {
	stats, err := h.service.ContentStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) TrackView(c *gin.Context) {
	err := h.service.TrackView(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), c.ClientIP())
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

type interactionDTO struct {
	ContentID       string `json:"content_id"`
	InteractionType string `json:"interaction_type" binding:"required"`
}

func (h *Handler) RecordInteraction(c *gin.Context) {
	var dto interactionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	h.service.events.Interaction(dto.ContentID, middleware.CurrentUserID(c), dto.InteractionType, c.ClientIP())
	response.NoContent(c)
}
