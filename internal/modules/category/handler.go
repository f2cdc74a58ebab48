package category

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

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	g := r.Group("/categories")
	g.Use(auth)
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.GET("/:id/children", h.Children)
		g.GET("/:id/subtree", h.Subtree)

		staff := g.Group("", middleware.RequireStaff())
		staff.POST("", h.Create)
		staff.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.Create(c.Request.Context(), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Created(c, m)
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
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) Children(c *gin.Context) {
	rows, err := h.service.Children(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) Subtree(c *gin.Context) {
	rows, err := h.service.Subtree(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}
