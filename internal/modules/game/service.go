package game

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
	"github.com/aghamazing/quest-core/internal/pkg/pagination"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type MarkerDTO struct {
	Code       string   `json:"code" binding:"required"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	ContentURL string   `json:"content_url"`
}

type ChallengeDTO struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Type        models.ChallengeType `json:"type" binding:"required"`
	Points      int                  `json:"points"`
	MarkerID    *string              `json:"marker_id"`
}

type ProgressDTO struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
	Score       int    `json:"score"`
	Completed   bool   `json:"completed"`
}

func (s *Service) CreateMarker(ctx context.Context, dto MarkerDTO) (*models.MarkerModel, error) {
	code := strings.TrimSpace(dto.Code)
	if code == "" {
		return nil, apperr.New(apperr.KindValidation, "code is required")
	}
	m := models.MarkerModel{
		Code:       code,
		Latitude:   dto.Latitude,
		Longitude:  dto.Longitude,
		ContentURL: dto.ContentURL,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Newf(apperr.KindValidation, "marker code %q already exists", code)
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) GetMarker(ctx context.Context, id string) (*models.MarkerModel, error) {
	var m models.MarkerModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "marker not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMarkerByCode resolves a scanned marker code.
func (s *Service) GetMarkerByCode(ctx context.Context, code string) (*models.MarkerModel, error) {
	var m models.MarkerModel
	err := s.db.WithContext(ctx).First(&m, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "marker not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) ListMarkers(ctx context.Context, pq pagination.Query) ([]models.MarkerModel, int64, error) {
	var rows []models.MarkerModel
	q := s.db.WithContext(ctx).Model(&models.MarkerModel{}).
		Order("code ASC")
	total, err := pagination.Paginate(q, pq, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Service) UpdateMarker(ctx context.Context, id string, dto MarkerDTO) (*models.MarkerModel, error) {
	m, err := s.GetMarker(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"content_url": dto.ContentURL,
		"latitude":    dto.Latitude,
		"longitude":   dto.Longitude,
	}
	if code := strings.TrimSpace(dto.Code); code != "" {
		updates["code"] = code
	}
	if err := s.db.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) DeleteMarker(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a marker with challenges still pointing at it cannot be removed
		var n int64
		if err := tx.Model(&models.ChallengeModel{}).Where("marker_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Newf(apperr.KindState, "marker has %d linked challenges", n)
		}
		res := tx.Delete(&models.MarkerModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.KindNotFound, "marker not found")
		}
		return nil
	})
}

// MarkerChallenges is the reverse side of the challenge-to-marker link,
// answered as a query instead of a stored back-reference.
func (s *Service) MarkerChallenges(ctx context.Context, markerID string) ([]models.ChallengeModel, error) {
	var rows []models.ChallengeModel
	err := s.db.WithContext(ctx).
		Where("marker_id = ?", markerID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Service) CreateChallenge(ctx context.Context, authorID string, dto ChallengeDTO) (*models.ChallengeModel, error) {
	if !models.ValidChallengeType(dto.Type) {
		return nil, apperr.Newf(apperr.KindValidation, "unknown challenge type %q", dto.Type)
	}
	if dto.Points < 0 {
		return nil, apperr.New(apperr.KindValidation, "points cannot be negative")
	}
	if dto.MarkerID != nil {
		if _, err := s.GetMarker(ctx, *dto.MarkerID); err != nil {
			return nil, err
		}
	}
	m := models.ChallengeModel{
		Title:       dto.Title,
		Description: dto.Description,
		Type:        dto.Type,
		Points:      dto.Points,
		MarkerID:    dto.MarkerID,
		AuthorID:    authorID,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) GetChallenge(ctx context.Context, id string) (*models.ChallengeModel, error) {
	var m models.ChallengeModel
	err := s.db.WithContext(ctx).Preload("Marker").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "challenge not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) ListChallenges(ctx context.Context, pq pagination.Query) ([]models.ChallengeModel, int64, error) {
	var rows []models.ChallengeModel
	q := s.db.WithContext(ctx).Model(&models.ChallengeModel{}).
		Preload("Marker").
		Order("created_at DESC")
	total, err := pagination.Paginate(q, pq, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Service) DeleteChallenge(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.ChallengeModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "challenge not found")
	}
	return nil
}

// RecordProgress creates or updates one user's progress on a challenge.
// The (user, challenge) pair is unique; repeat submissions keep the best
// score and the earliest completion time.
func (s *Service) RecordProgress(ctx context.Context, userID string, dto ProgressDTO) (*models.ChallengeProgressModel, error) {
	if dto.Score < 0 {
		return nil, apperr.New(apperr.KindValidation, "score cannot be negative")
	}
	if _, err := s.GetChallenge(ctx, dto.ChallengeID); err != nil {
		return nil, err
	}
	var out models.ChallengeProgressModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ChallengeProgressModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "user_id = ? AND challenge_id = ?", userID, dto.ChallengeID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = models.ChallengeProgressModel{
				UserID:      userID,
				ChallengeID: dto.ChallengeID,
				Score:       dto.Score,
			}
			if dto.Completed {
				now := time.Now().UTC()
				out.CompletedAt = &now
			}
			return tx.Create(&out).Error
		case err != nil:
			return err
		}
		updates := map[string]interface{}{}
		if dto.Score > existing.Score {
			updates["score"] = dto.Score
		}
		if dto.Completed && existing.CompletedAt == nil {
			updates["completed_at"] = time.Now().UTC()
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UserProgress lists one user's progress rows, most recent first.
func (s *Service) UserProgress(ctx context.Context, userID string) ([]models.ChallengeProgressModel, error) {
	var rows []models.ChallengeProgressModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// Leaderboard ranks users by total score across completed challenges.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var rows []LeaderboardEntry
	err := s.db.WithContext(ctx).Table("challenge_progress").
		Select("user_id, SUM(score) as total_score, COUNT(completed_at) as completed").
		Group("user_id").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type LeaderboardEntry struct {
	UserID     string `json:"user_id"`
	TotalScore int    `json:"total_score"`
	Completed  int    `json:"completed"`
}
