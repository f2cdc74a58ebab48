package workflow

import "github.com/aghamazing/quest-core/internal/models"

// Action is one operation on the content lifecycle.
type Action string

const (
	ActionCreate  Action = "create"
	ActionSubmit  Action = "submit_for_approval"
	ActionReview  Action = "review"
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
	ActionPublish Action = "publish"
	ActionDelete  Action = "soft_delete"
)

// CreateContentDTO is the payload for creating a content item.
type CreateContentDTO struct {
	Title       string             `json:"title" binding:"required"`
	Body        string             `json:"body"`
	Excerpt     string             `json:"excerpt"`
	FilePath    string             `json:"file_path"`
	ContentType models.ContentType `json:"content_type" binding:"required"`
	CategoryID  *string            `json:"category_id"`
}

// UpdateContentDTO is the payload for editing a draft.
type UpdateContentDTO struct {
	Title      *string `json:"title"`
	Body       *string `json:"body"`
	Excerpt    *string `json:"excerpt"`
	FilePath   *string `json:"file_path"`
	CategoryID *string `json:"category_id"`
}

// DecisionDTO carries optional reviewer comments on approve/deny.
type DecisionDTO struct {
	Comments string `json:"comments"`
}

// ListQuery filters and paginates content listings.
type ListQuery struct {
	AuthorID string
	Status   models.ContentStatus
	Page     int
	Size     int
}
