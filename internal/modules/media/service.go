package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
	"github.com/aghamazing/quest-core/internal/pkg/pagination"
)

type Service struct {
	db    *gorm.DB
	blobs BlobStore
}

func NewService(db *gorm.DB, blobs BlobStore) *Service {
	return &Service{db: db, blobs: blobs}
}

type UploadInput struct {
	FileName    string
	MimeType    string
	Size        int64
	Description string
	Tags        []string
	UploaderID  string
	Body        io.Reader
}

// Upload stores the blob and its library row. The object key embeds a UUID
// so colliding file names never overwrite each other.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.MediaModel, error) {
	name := path.Base(strings.TrimSpace(in.FileName))
	if name == "" || name == "." || name == "/" {
		return nil, apperr.New(apperr.KindValidation, "file name is required")
	}
	key := fmt.Sprintf("%s/%s_%s", time.Now().UTC().Format("2006/01"), uuid.New().String()[:8], name)
	if err := s.blobs.Put(ctx, key, in.Body, in.MimeType); err != nil {
		return nil, fmt.Errorf("store media object: %w", err)
	}
	m := models.MediaModel{
		FileName:    name,
		FilePath:    key,
		FileSize:    in.Size,
		MimeType:    in.MimeType,
		Description: in.Description,
		Tags:        in.Tags,
		UploaderID:  in.UploaderID,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		// keep the store consistent if the row insert fails
		_ = s.blobs.Delete(ctx, key)
		return nil, err
	}
	return &m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.MediaModel, error) {
	var m models.MediaModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "media not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Open returns the stored blob for streaming to the client.
func (s *Service) Open(ctx context.Context, id string) (*models.MediaModel, io.ReadCloser, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, m.FilePath)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindNotFound, "media object missing from storage", err)
	}
	return m, rc, nil
}

func (s *Service) List(ctx context.Context, tag string, pq pagination.Query) ([]models.MediaModel, int64, error) {
	var rows []models.MediaModel
	q := s.db.WithContext(ctx).Model(&models.MediaModel{})
	if tag != "" {
		q = q.Where("tags LIKE ?", "%"+tag+"%")
	}
	q = q.Order("created_at DESC")
	total, err := pagination.Paginate(q, pq, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes the library row, its content attachments, and the blob.
// Blob removal is best-effort after the row is gone.
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ContentMediaModel{}, "media_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MediaModel{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	_ = s.blobs.Delete(ctx, m.FilePath)
	return nil
}

// Attach links a media file to a content item at the given display position.
// Re-attaching updates the position.
func (s *Service) Attach(ctx context.Context, contentID, mediaID string, order int) error {
	if _, err := s.Get(ctx, mediaID); err != nil {
		return err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.ContentModel{}).Where("id = ?", contentID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.New(apperr.KindNotFound, "content not found")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_id"}, {Name: "media_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_order"}),
	}).Create(&models.ContentMediaModel{
		ContentID:    contentID,
		MediaID:      mediaID,
		DisplayOrder: order,
	}).Error
}

func (s *Service) Detach(ctx context.Context, contentID, mediaID string) error {
	res := s.db.WithContext(ctx).
		Delete(&models.ContentMediaModel{}, "content_id = ? AND media_id = ?", contentID, mediaID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "attachment not found")
	}
	return nil
}

// ContentMedia lists the media attached to one content item in display order.
func (s *Service) ContentMedia(ctx context.Context, contentID string) ([]models.MediaModel, error) {
	var rows []models.MediaModel
	err := s.db.WithContext(ctx).Table("media_library").
		Select("media_library.*").
		Joins("JOIN content_media ON content_media.media_id = media_library.id").
		Where("content_media.content_id = ?", contentID).
		Order("content_media.display_order ASC").
		Find(&rows).Error
	return rows, err
}

// PublicURL resolves the addressable URL for a media row.
func (s *Service) PublicURL(m *models.MediaModel) string {
	return s.blobs.URL(m.FilePath)
}
