package integration

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apikey"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
	"github.com/aghamazing/quest-core/internal/pkg/pagination"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateDTO struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	AllowedEndpoints []string `json:"allowed_endpoints"`
	IPWhitelist      []string `json:"ip_whitelist"`
	RateLimit        int      `json:"rate_limit"`
}

type UpdateDTO struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	IsActive         *bool     `json:"is_active"`
	AllowedEndpoints *[]string `json:"allowed_endpoints"`
	IPWhitelist      *[]string `json:"ip_whitelist"`
	RateLimit        *int      `json:"rate_limit"`
}

// CreatedIntegration carries the plaintext key back to the caller. The key is
// shown exactly once; list and get responses mask it.
type CreatedIntegration struct {
	models.IntegrationModel
	APIKey string `json:"api_key"`
}

// View is the admin read model. The stored key never leaves the server;
// only a masked form is shown so staff can match a key against its logs.
type View struct {
	models.IntegrationModel
	KeyMask string `json:"api_key_mask"`
}

func newView(m models.IntegrationModel) View {
	return View{IntegrationModel: m, KeyMask: apikey.Mask(m.APIKey)}
}

func (s *Service) Create(ctx context.Context, createdBy string, dto CreateDTO) (*CreatedIntegration, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "name is required")
	}
	if dto.RateLimit < 0 {
		return nil, apperr.New(apperr.KindValidation, "rate_limit cannot be negative")
	}
	key, err := apikey.New()
	if err != nil {
		return nil, err
	}
	m := models.IntegrationModel{
		Name:             name,
		Description:      dto.Description,
		APIKey:           key,
		IsActive:         true,
		AllowedEndpoints: dto.AllowedEndpoints,
		IPWhitelist:      dto.IPWhitelist,
		RateLimit:        dto.RateLimit,
	}
	if m.RateLimit == 0 {
		m.RateLimit = models.DefaultRateLimit
	}
	if createdBy != "" {
		m.CreatedByID = &createdBy
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &CreatedIntegration{IntegrationModel: m, APIKey: key}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	var m models.IntegrationModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "integration not found")
	}
	if err != nil {
		return nil, err
	}
	v := newView(m)
	return &v, nil
}

func (s *Service) List(ctx context.Context, pq pagination.Query) ([]View, int64, error) {
	var rows []models.IntegrationModel
	q := s.db.WithContext(ctx).Model(&models.IntegrationModel{}).
		Order("created_at DESC")
	total, err := pagination.Paginate(q, pq, &rows)
	if err != nil {
		return nil, 0, err
	}
	views := make([]View, len(rows))
	for i, m := range rows {
		views[i] = newView(m)
	}
	return views, total, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateDTO) (*View, error) {
	var m models.IntegrationModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "integration not found")
	}
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		if strings.TrimSpace(*dto.Name) == "" {
			return nil, apperr.New(apperr.KindValidation, "name is required")
		}
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if dto.AllowedEndpoints != nil {
		updates["allowed_endpoints"] = models.StringSlice(*dto.AllowedEndpoints)
	}
	if dto.IPWhitelist != nil {
		updates["ip_whitelist"] = models.StringSlice(*dto.IPWhitelist)
	}
	if dto.RateLimit != nil {
		if *dto.RateLimit < 0 {
			return nil, apperr.New(apperr.KindValidation, "rate_limit cannot be negative")
		}
		updates["rate_limit"] = *dto.RateLimit
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&m).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	v := newView(m)
	return &v, nil
}

// Revoke deactivates an integration without deleting its audit trail.
func (s *Service) Revoke(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.IntegrationModel{}).
		Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "integration not found")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.IntegrationModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "integration not found")
	}
	return nil
}

// Logs returns the request trail for one integration, newest first.
func (s *Service) Logs(ctx context.Context, id string, pq pagination.Query) ([]models.IntegrationLogModel, int64, error) {
	var rows []models.IntegrationLogModel
	q := s.db.WithContext(ctx).Model(&models.IntegrationLogModel{}).
		Where("integration_id = ?", id).
		Order("requested_at DESC")
	total, err := pagination.Paginate(q, pq, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
