package user

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

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	me := r.Group("/me", auth)
	{
		me.GET("", h.Me)
		me.POST("/password", h.ChangePassword)
	}

	users := r.Group("/users", auth, middleware.RequireStaff())
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.Get)
		users.PATCH("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}

	roles := r.Group("/roles", auth, middleware.RequireStaff())
	{
		roles.GET("", h.Roles)
		roles.DELETE("/:id", h.DeleteRole)
	}
}

func (h *Handler) Me(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, m)
}

type changePasswordDTO struct {
	Current string `json:"current_password" binding:"required"`
	Next    string `json:"new_password" binding:"required"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var dto changePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	err := h.service.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), dto.Current, dto.Next)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Create(c *gin.Context) {
	var dto CreateUserDTO
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
	pq := pagination.FromContext(c)
	rows, total, err := h.service.List(c.Request.Context(), pq)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Paged(c, rows, pq.Page, pq.Size, total)
}

func (h *Handler) Update(c *gin.Context) {
	var dto UpdateUserDTO
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

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Roles(c *gin.Context) {
	rows, err := h.service.Roles(c.Request.Context())
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) DeleteRole(c *gin.Context) {
	if err := h.service.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}
