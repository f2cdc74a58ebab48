package workflow

import (
	"context"
	"errors"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the content repository the workflow engine runs on. The
// production implementation is GORM-backed; tests substitute an in-memory
// fake.
type Store interface {
	// Create persists a content row and its empty analytics row atomically.
	// Content must never exist without its analytics record.
	Create(ctx context.Context, content *models.ContentModel) error

	// Get loads one content item with its analytics. Soft-deleted rows are
	// invisible unless includeDeleted is set (admin audit path).
	Get(ctx context.Context, id string, includeDeleted bool) (*models.ContentModel, error)

	// List returns a filtered page of content plus the total row count.
	// Soft-deleted rows are always excluded.
	List(ctx context.Context, q ListQuery) ([]models.ContentModel, int64, error)

	// Transition loads the row under a per-item lock, applies mutate, and
	// persists the result. Concurrent transitions on the same item are
	// serialized; mutate errors abort without writing.
	Transition(ctx context.Context, id string, mutate func(*models.ContentModel) error) (*models.ContentModel, error)

	// Update persists draft edits on the row under the same per-item lock.
	Update(ctx context.Context, id string, updates map[string]interface{}) (*models.ContentModel, error)

	// SoftDelete tombstones the row.
	SoftDelete(ctx context.Context, id string) error

	// RecordApproval appends one audit-trail row.
	RecordApproval(ctx context.Context, row *models.ContentApprovalModel) error
}

// ErrNotFound is returned by Get/Transition for unknown or invisible ids.
var ErrNotFound = apperr.New(apperr.KindNotFound, "content not found")

// GormStore is the production Store.
type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, content *models.ContentModel) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(content).Error; err != nil {
			return err
		}
		analytics := &models.ContentAnalytics{ContentID: content.ID}
		if err := tx.Create(analytics).Error; err != nil {
			return err
		}
		content.Analytics = analytics
		return nil
	})
}

func (s *GormStore) Get(ctx context.Context, id string, includeDeleted bool) (*models.ContentModel, error) {
	q := s.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var m models.ContentModel
	err := q.Preload("Analytics").Preload("Category").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) List(ctx context.Context, q ListQuery) ([]models.ContentModel, int64, error) {
	db := s.db.WithContext(ctx).Model(&models.ContentModel{})
	if q.AuthorID != "" {
		db = db.Where("author_id = ?", q.AuthorID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := q.Page, q.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	var rows []models.ContentModel
	err := db.Preload("Analytics").
		Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&rows).Error
	return rows, total, err
}

func (s *GormStore) Transition(ctx context.Context, id string, mutate func(*models.ContentModel) error) (*models.ContentModel, error) {
	var out *models.ContentModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.ContentModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := mutate(&m); err != nil {
			return err
		}
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		out = &m
		return nil
	})
	return out, err
}

func (s *GormStore) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.ContentModel, error) {
	var out *models.ContentModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.ContentModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return err
		}
		out = &m
		return nil
	})
	return out, err
}

func (s *GormStore) SoftDelete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.ContentModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) RecordApproval(ctx context.Context, row *models.ContentApprovalModel) error {
	return s.db.WithContext(ctx).Create(row).Error
}
