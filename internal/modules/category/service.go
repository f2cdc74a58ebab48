package category

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateDTO struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// Create inserts a category and materializes its ancestor path as
// "/parent-id/.../self-id". Names are unique per parent, not globally.
func (s *Service) Create(ctx context.Context, dto CreateDTO) (*models.CategoryModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "name is required")
	}
	var parent *models.CategoryModel
	if dto.ParentID != nil {
		p, err := s.Get(ctx, *dto.ParentID)
		if err != nil {
			return nil, err
		}
		parent = p
	}
	m := models.CategoryModel{
		Name:        name,
		Description: dto.Description,
		ParentID:    dto.ParentID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		q := tx.Model(&models.CategoryModel{}).Where("name = ?", name)
		if dto.ParentID == nil {
			q = q.Where("parent_id IS NULL")
		} else {
			q = q.Where("parent_id = ?", *dto.ParentID)
		}
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Newf(apperr.KindValidation, "category %q already exists under this parent", name)
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		path := "/" + m.ID
		if parent != nil {
			path = parent.Path + "/" + m.ID
		}
		m.Path = path
		return tx.Model(&m).Update("path", path).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.CategoryModel, error) {
	var m models.CategoryModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "category not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) List(ctx context.Context) ([]models.CategoryModel, error) {
	var rows []models.CategoryModel
	err := s.db.WithContext(ctx).Order("path ASC").Find(&rows).Error
	return rows, err
}

// Children lists the direct children of one category.
func (s *Service) Children(ctx context.Context, id string) ([]models.CategoryModel, error) {
	var rows []models.CategoryModel
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", id).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// Subtree lists a category and all its descendants via the materialized path.
func (s *Service) Subtree(ctx context.Context, id string) ([]models.CategoryModel, error) {
	root, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var rows []models.CategoryModel
	err = s.db.WithContext(ctx).
		Where("path = ? OR path LIKE ?", root.Path, root.Path+"/%").
		Order("path ASC").
		Find(&rows).Error
	return rows, err
}

// Delete removes an empty leaf category. Categories with children or with
// content still assigned are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.CategoryModel{}).Where("parent_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.New(apperr.KindState, "category has child categories")
		}
		if err := tx.Model(&models.ContentModel{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.New(apperr.KindState, "category is still assigned to content")
		}
		res := tx.Delete(&models.CategoryModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.KindNotFound, "category not found")
		}
		return nil
	})
}
