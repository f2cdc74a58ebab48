package gateway

import (
	"context"
	"errors"

	"github.com/aghamazing/quest-core/internal/models"
	"gorm.io/gorm"
)

// IntegrationStore resolves presented API keys against the registry. The
// gateway depends on this interface so tests run against an in-memory fake.
type IntegrationStore interface {
	// FindByKey returns the integration owning key, or (nil, nil) when the
	// key is unknown.
	FindByKey(ctx context.Context, key string) (*models.IntegrationModel, error)
}

// LogStore appends gateway request logs. Rows are append-only.
type LogStore interface {
	Append(ctx context.Context, row *models.IntegrationLogModel) error
}

// GormIntegrationStore is the production IntegrationStore.
type GormIntegrationStore struct {
	db *gorm.DB
}

func NewIntegrationStore(db *gorm.DB) *GormIntegrationStore {
	return &GormIntegrationStore{db: db}
}

func (s *GormIntegrationStore) FindByKey(ctx context.Context, key string) (*models.IntegrationModel, error) {
	var m models.IntegrationModel
	err := s.db.WithContext(ctx).Where("api_key = ?", key).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GormLogStore is the production LogStore.
type GormLogStore struct {
	db *gorm.DB
}

func NewLogStore(db *gorm.DB) *GormLogStore {
	return &GormLogStore{db: db}
}

func (s *GormLogStore) Append(ctx context.Context, row *models.IntegrationLogModel) error {
	return s.db.WithContext(ctx).Create(row).Error
}
