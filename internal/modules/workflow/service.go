package workflow

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

// ActivitySink records user actions for the analytics module. Implementations
// must not block the caller for long; failures are logged and swallowed.
type ActivitySink interface {
	Record(ctx context.Context, userID, action, detail, ip string)
}

type Service struct {
	store    Store
	activity ActivitySink
	log      *zap.Logger
}

func NewService(store Store, activity ActivitySink, log *zap.Logger) *Service {
	return &Service{store: store, activity: activity, log: log}
}

// maxExcerptLen matches the excerpt column width. Longer input must fail
// as a validation error, not a driver error.
const maxExcerptLen = 500

func validateExcerpt(excerpt string) error {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return apperr.Newf(apperr.KindValidation, "excerpt must be %d characters or fewer", maxExcerptLen)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor middleware.Actor, dto CreateContentDTO) (*models.ContentModel, error) {
	if err := Decide(actor, ActionCreate, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(dto.Title) == "" {
		return nil, apperr.New(apperr.KindValidation, "title is required")
	}
	if !models.ValidContentType(dto.ContentType) {
		return nil, apperr.Newf(apperr.KindValidation, "unknown content type %q", dto.ContentType)
	}
	if err := validateExcerpt(dto.Excerpt); err != nil {
		return nil, err
	}
	content := &models.ContentModel{
		Title:       dto.Title,
		Body:        dto.Body,
		Excerpt:     dto.Excerpt,
		ContentType: dto.ContentType,
		FilePath:    dto.FilePath,
		Status:      models.StatusDraft,
		AuthorID:    actor.UserID,
		CategoryID:  dto.CategoryID,
	}
	if err := s.store.Create(ctx, content); err != nil {
		return nil, err
	}
	s.track(ctx, actor, "content.create", content.ID)
	return content, nil
}

func (s *Service) Update(ctx context.Context, actor middleware.Actor, id string, dto UpdateContentDTO) (*models.ContentModel, error) {
	current, err := s.store.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := Decide(actor, ActionCreate, current); err != nil {
		return nil, err
	}
	if !CanSee(actor, current) {
		return nil, apperr.New(apperr.KindNotFound, "content not found")
	}
	updates := map[string]interface{}{}
	if dto.Title != nil {
		if strings.TrimSpace(*dto.Title) == "" {
			return nil, apperr.New(apperr.KindValidation, "title is required")
		}
		updates["title"] = *dto.Title
	}
	if dto.Body != nil {
		updates["body"] = *dto.Body
	}
	if dto.Excerpt != nil {
		if err := validateExcerpt(*dto.Excerpt); err != nil {
			return nil, err
		}
		updates["excerpt"] = *dto.Excerpt
	}
	if dto.FilePath != nil {
		updates["file_path"] = *dto.FilePath
	}
	if dto.CategoryID != nil {
		updates["category_id"] = dto.CategoryID
	}
	if len(updates) == 0 {
		return current, nil
	}
	out, err := s.store.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.track(ctx, actor, "content.update", id)
	return out, nil
}

// Submit moves a draft into the review queue.
func (s *Service) Submit(ctx context.Context, actor middleware.Actor, id string) (*models.ContentModel, error) {
	return s.transition(ctx, actor, id, ActionSubmit)
}

// Review marks pending content as reviewed by an editor.
func (s *Service) Review(ctx context.Context, actor middleware.Actor, id string) (*models.ContentModel, error) {
	return s.transition(ctx, actor, id, ActionReview)
}

// Approve records an approver's sign-off and stamps the approval metadata.
func (s *Service) Approve(ctx context.Context, actor middleware.Actor, id string, dto DecisionDTO) (*models.ContentModel, error) {
	content, err := s.transition(ctx, actor, id, ActionApprove)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, content.ID, actor.UserID, models.ApprovalApproved, dto.Comments)
	return content, nil
}

// Deny sends content back to draft, clearing any previous approval.
func (s *Service) Deny(ctx context.Context, actor middleware.Actor, id string, dto DecisionDTO) (*models.ContentModel, error) {
	content, err := s.transition(ctx, actor, id, ActionDeny)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, content.ID, actor.UserID, models.ApprovalRejected, dto.Comments)
	return content, nil
}

// Publish makes approved content live.
func (s *Service) Publish(ctx context.Context, actor middleware.Actor, id string) (*models.ContentModel, error) {
	return s.transition(ctx, actor, id, ActionPublish)
}

// transition applies a lifecycle action under the store's per-item lock.
// The policy check runs inside the closure so the decision sees the row's
// current state and an authorization failure never mutates it.
func (s *Service) transition(ctx context.Context, actor middleware.Actor, id string, action Action) (*models.ContentModel, error) {
	content, err := s.store.Transition(ctx, id, func(c *models.ContentModel) error {
		if err := Decide(actor, action, c); err != nil {
			return err
		}
		return Apply(c, action, actor.UserID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	s.track(ctx, actor, "content."+string(action), id)
	return content, nil
}

// Delete soft-removes content. The row keeps its lifecycle status and can be
// recovered by an administrator.
func (s *Service) Delete(ctx context.Context, actor middleware.Actor, id string) error {
	content, err := s.store.Get(ctx, id, false)
	if err != nil {
		return err
	}
	if err := Decide(actor, ActionDelete, content); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.track(ctx, actor, "content.delete", id)
	return nil
}

func (s *Service) Get(ctx context.Context, actor middleware.Actor, id string, includeDeleted bool) (*models.ContentModel, error) {
	if includeDeleted && !(actor.IsSuperuser || actor.Role == models.RoleAdmin) {
		includeDeleted = false
	}
	content, err := s.store.Get(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	if !CanSee(actor, content) {
		return nil, apperr.New(apperr.KindNotFound, "content not found")
	}
	return content, nil
}

func (s *Service) List(ctx context.Context, actor middleware.Actor, q ListQuery) ([]models.ContentModel, int64, error) {
	if !(actor.IsStaff || actor.IsSuperuser || actor.Role == models.RoleAdmin) {
		q.AuthorID = actor.UserID
	}
	return s.store.List(ctx, q)
}

func (s *Service) audit(ctx context.Context, contentID, approverID string, status models.ApprovalStatus, comments string) {
	now := time.Now().UTC()
	if err := s.store.RecordApproval(ctx, &models.ContentApprovalModel{
		ContentID:  contentID,
		ApproverID: approverID,
		Status:     status,
		DecidedAt:  &now,
		Comments:   comments,
	}); err != nil {
		s.log.Warn("failed to record approval decision",
			zap.String("content_id", contentID), zap.Error(err))
	}
}

func (s *Service) track(ctx context.Context, actor middleware.Actor, action, detail string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, actor.UserID, action, detail, "")
}
