package game

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

// RegisterRoutes mounts the tour/game surface. Marker and challenge reads
// are public on the gatewayed API; writes require a staff account.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	markers := r.Group("/markers")
	{
		markers.GET("", h.ListMarkers)
		markers.GET("/:id", h.GetMarker)
		markers.GET("/:id/challenges", h.MarkerChallenges)
		markers.GET("/code/:code", h.GetMarkerByCode)

		staff := markers.Group("", auth, middleware.RequireStaff())
		staff.POST("", h.CreateMarker)
		staff.PATCH("/:id", h.UpdateMarker)
		staff.DELETE("/:id", h.DeleteMarker)
	}

	challenges := r.Group("/challenges")
	{
		challenges.GET("", h.ListChallenges)
		challenges.GET("/:id", h.GetChallenge)
		challenges.GET("/leaderboard", h.Leaderboard)

		staff := challenges.Group("", auth, middleware.RequireStaff())
		staff.POST("", h.CreateChallenge)
		staff.DELETE("/:id", h.DeleteChallenge)
	}

	progress := r.Group("/progress", auth)
	{
		progress.GET("", h.UserProgress)
		progress.POST("", h.RecordProgress)
	}
}

func (h *Handler) CreateMarker(c *gin.Context) {
	var dto MarkerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.CreateMarker(c.Request.Context(), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Handler) GetMarker(c *gin.Context) {
	m, err := h.service.GetMarker(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) GetMarkerByCode(c *gin.Context) {
	m, err := h.service.GetMarkerByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) ListMarkers(c *gin.Context) {
	pq := pagination.FromContext(c)
	rows, total, err := h.service.ListMarkers(c.Request.Context(), pq)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Paged(c, rows, pq.Page, pq.Size, total)
}

func (h *Handler) UpdateMarker(c *gin.Context) {
	var dto MarkerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.UpdateMarker(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) DeleteMarker(c *gin.Context) {
	if err := h.service.DeleteMarker(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) MarkerChallenges(c *gin.Context) {
	rows, err := h.service.MarkerChallenges(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) CreateChallenge(c *gin.Context) {
	var dto ChallengeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.CreateChallenge(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Handler) GetChallenge(c *gin.Context) {
	m, err := h.service.GetChallenge(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) ListChallenges(c *gin.Context) {
	pq := pagination.FromContext(c)
	rows, total, err := h.service.ListChallenges(c.Request.Context(), pq)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Paged(c, rows, pq.Page, pq.Size, total)
}

func (h *Handler) DeleteChallenge(c *gin.Context) {
	if err := h.service.DeleteChallenge(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) RecordProgress(c *gin.Context) {
	var dto ProgressDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.RecordProgress(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) UserProgress(c *gin.Context) {
	rows, err := h.service.UserProgress(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	rows, err := h.service.Leaderboard(c.Request.Context(), pagination.FromContext(c).Size)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, rows)
}
