package analytics

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

// ErrNotFound is returned for content ids with no analytics row.
var ErrNotFound = apperr.New(apperr.KindNotFound, "content not found")

// ActivityRow is one user activity joined with the actor's role name. Role
// is empty when the user row is gone or carries no role.
type ActivityRow struct {
	UserID    string
	Role      string
	Timestamp time.Time
}

// Store supplies the raw event reads the aggregator runs on. The production
// implementation is GORM-backed; tests substitute an in-memory fake.
type Store interface {
	// PageViews returns page view events at or after since.
	PageViews(ctx context.Context, since time.Time) ([]models.PageViewModel, error)

	// Activities returns user activities at or after since, joined with
	// each actor's role name.
	Activities(ctx context.Context, since time.Time) ([]ActivityRow, error)

	// Interactions returns content interaction events at or after since.
	Interactions(ctx context.Context, since time.Time) ([]models.ContentInteractionModel, error)

	// StatusCounts returns the number of content rows per status.
	StatusCounts(ctx context.Context) ([]StatusCount, error)

	// UserCount returns the total number of accounts.
	UserCount(ctx context.Context) (int64, error)

	// IncrementView bumps a content item's denormalized view counter.
	IncrementView(ctx context.Context, contentID string, at time.Time) error

	// ContentAnalytics loads the denormalized read-model for one item.
	ContentAnalytics(ctx context.Context, contentID string) (*models.ContentAnalytics, error)
}

// GormStore is the production Store.
type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) PageViews(ctx context.Context, since time.Time) ([]models.PageViewModel, error) {
	var rows []models.PageViewModel
	err := s.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) Activities(ctx context.Context, since time.Time) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := s.db.WithContext(ctx).Table("user_activities").
		Select("user_activities.user_id, roles.name as role, user_activities.timestamp").
		Joins("LEFT JOIN users ON users.id = user_activities.user_id").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("user_activities.timestamp >= ?", since).
		Scan(&rows).Error
	return rows, err
}

func (s *GormStore) Interactions(ctx context.Context, since time.Time) ([]models.ContentInteractionModel, error) {
	var rows []models.ContentInteractionModel
	err := s.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := s.db.WithContext(ctx).Model(&models.ContentModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (s *GormStore) UserCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.UserModel{}).Count(&n).Error
	return n, err
}

func (s *GormStore) IncrementView(ctx context.Context, contentID string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.ContentAnalytics{}).
		Where("content_id = ?", contentID).
		Updates(map[string]interface{}{
			"view_count":     gorm.Expr("view_count + 1"),
			"last_viewed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ContentAnalytics(ctx context.Context, contentID string) (*models.ContentAnalytics, error) {
	var m models.ContentAnalytics
	err := s.db.WithContext(ctx).First(&m, "content_id = ?", contentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
