package workflow

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/pagination"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	content := r.Group("/content")
	content.Use(auth)
	{
		content.GET("", h.List)
		content.POST("", h.Create)
		content.GET("/:id", h.Get)
		content.PATCH("/:id", h.Update)
		content.DELETE("/:id", h.Delete)
		content.POST("/:id/submit", h.Submit)
		content.POST("/:id/review", h.Review)
		content.POST("/:id/approve", h.Approve)
		content.POST("/:id/deny", h.Deny)
		content.POST("/:id/publish", h.Publish)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var dto CreateContentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	content, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Created(c, content)
}

func (h *Handler) Get(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "1"
	content, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), includeDeleted)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, content)
}

func (h *Handler) List(c *gin.Context) {
	pq := pagination.FromContext(c)
	q := ListQuery{
		Status: models.ContentStatus(c.Query("status")),
		Page:   pq.Page,
		Size:   pq.Size,
	}
	rows, total, err := h.service.List(c.Request.Context(), middleware.CurrentActor(c), q)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Paged(c, rows, pq.Page, pq.Size, total)
}

func (h *Handler) Update(c *gin.Context) {
	var dto UpdateContentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	content, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, content)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Submit(c *gin.Context) {
	h.lifecycle(c, h.service.Submit)
}

func (h *Handler) Review(c *gin.Context) {
	h.lifecycle(c, h.service.Review)
}

func (h *Handler) Publish(c *gin.Context) {
	h.lifecycle(c, h.service.Publish)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decision(c, h.service.Approve)
}

func (h *Handler) Deny(c *gin.Context) {
	h.decision(c, h.service.Deny)
}

func (h *Handler) lifecycle(c *gin.Context, fn func(ctx context.Context, actor middleware.Actor, id string) (*models.ContentModel, error)) {
	content, err := fn(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, content)
}

func (h *Handler) decision(c *gin.Context, fn func(ctx context.Context, actor middleware.Actor, id string, dto DecisionDTO) (*models.ContentModel, error)) {
	var dto DecisionDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}
	content, err := fn(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, content)
}
