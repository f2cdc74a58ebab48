package feedback

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
	"github.com/aghamazing/quest-core/internal/pkg/pagination"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type SubmitDTO struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (s *Service) Submit(ctx context.Context, userID string, dto SubmitDTO) (*models.FeedbackModel, error) {
	if dto.Rating < 1 || dto.Rating > 5 {
		return nil, apperr.New(apperr.KindValidation, "rating must be between 1 and 5")
	}
	if len(dto.Comment) > 1000 {
		return nil, apperr.New(apperr.KindValidation, "comment too long")
	}
	m := models.FeedbackModel{
		UserID:  userID,
		Rating:  dto.Rating,
		Comment: dto.Comment,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) List(ctx context.Context, pq pagination.Query) ([]models.FeedbackModel, int64, error) {
	var rows []models.FeedbackModel
	q := s.db.WithContext(ctx).Model(&models.FeedbackModel{}).
		Order("created_at DESC")
	total, err := pagination.Paginate(q, pq, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// AverageRating is the overall rating across all feedback.
func (s *Service) AverageRating(ctx context.Context) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).Model(&models.FeedbackModel{}).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	g := r.Group("/feedback")
	{
		g.POST("", auth, h.Submit)

		staff := g.Group("", auth, middleware.RequireStaff())
		staff.GET("", h.List)
		staff.GET("/summary", h.Summary)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	m, err := h.service.Submit(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Created(c, m)
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

func (h *Handler) Summary(c *gin.Context) {
	avg, err := h.service.AverageRating(c.Request.Context())
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, gin.H{"average_rating": avg})
}
