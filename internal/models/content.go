package models

import "time"

// ContentStatus is the editorial lifecycle state of a content item.
type ContentStatus string

const (
	StatusDraft         ContentStatus = "draft"
	StatusPendingReview ContentStatus = "pending_review"
	StatusReviewed      ContentStatus = "reviewed"
	StatusApproved      ContentStatus = "approved"
	StatusPublished     ContentStatus = "published"
)

// ContentType classifies what kind of asset a content item carries.
type ContentType string

const (
	TypeARMarker ContentType = "ar_marker"
	TypeVideo    ContentType = "video"
	TypeMusic    ContentType = "music"
	TypeImage    ContentType = "image"
)

// ValidContentType reports whether t is one of the known content types.
func ValidContentType(t ContentType) bool {
	switch t {
	case TypeARMarker, TypeVideo, TypeMusic, TypeImage:
		return true
	}
	return false
}

// ContentModel is the unit of editorial work. A content row never exists
// without its ContentAnalytics row; both are created in one transaction.
type ContentModel struct {
	Base
	Title       string        `json:"title"        gorm:"size:255;not null"`
	Body        string        `json:"body"         gorm:"type:longtext"`
	Excerpt     string        `json:"excerpt"      gorm:"size:500"`
	FilePath    string        `json:"file_path"    gorm:"type:text"`
	Status      ContentStatus `json:"status"       gorm:"size:20;index;default:draft"`
	ContentType ContentType   `json:"content_type" gorm:"size:20;not null"`

	AuthorID   string            `json:"author_id"   gorm:"type:char(36);index;not null"`
	Author     *UserModel        `json:"author,omitempty"   gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	CategoryID *string           `json:"category_id" gorm:"type:char(36);index"`
	Category   *CategoryModel    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Analytics  *ContentAnalytics `json:"analytics,omitempty" gorm:"foreignKey:ContentID"`

	ApprovedByID *string    `json:"approved_by_id" gorm:"type:char(36)"`
	ApprovedAt   *time.Time `json:"approved_at"`
	DeniedAt     *time.Time `json:"denied_at"`
	PublishedAt  *time.Time `json:"published_at"`
}

func (ContentModel) TableName() string { return "contents" }

// ContentAnalytics is the denormalized read-model tracking engagement for one
// content item, one-to-one with contents.
type ContentAnalytics struct {
	Base
	ContentID       string     `json:"content_id" gorm:"type:char(36);uniqueIndex;not null"`
	ViewCount       int64      `json:"view_count" gorm:"default:0"`
	EngagementScore float64    `json:"engagement_score" gorm:"type:decimal(5,2);default:0"`
	ConversionRate  float64    `json:"conversion_rate"  gorm:"type:decimal(5,2);default:0"`
	LastViewedAt    *time.Time `json:"last_viewed_at"`
}

func (ContentAnalytics) TableName() string { return "content_analytics" }

// ApprovalStatus is the outcome recorded in the approval audit trail.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ContentApprovalModel is the append-style audit trail of approval decisions.
type ContentApprovalModel struct {
	Base
	ContentID  string         `json:"content_id"  gorm:"type:char(36);index;not null"`
	ApproverID string         `json:"approver_id" gorm:"type:char(36);index;not null"`
	Status     ApprovalStatus `json:"status"      gorm:"size:20;default:pending"`
	DecidedAt  *time.Time     `json:"decided_at"`
	Comments   string         `json:"comments"    gorm:"type:text"`
}

func (ContentApprovalModel) TableName() string { return "content_approvals" }

// CategoryModel is a hierarchical content category. Path is the materialized
// chain of ancestor IDs, maintained on create.
type CategoryModel struct {
	Base
	Name        string  `json:"name"        gorm:"size:100;not null;uniqueIndex:idx_cat_name_parent"`
	Description string  `json:"description" gorm:"type:text"`
	ParentID    *string `json:"parent_id"   gorm:"type:char(36);uniqueIndex:idx_cat_name_parent"`
	Path        string  `json:"path"        gorm:"type:text"`
}

func (CategoryModel) TableName() string { return "content_categories" }
