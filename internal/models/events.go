package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// eventBase is shared by the append-only event tables. They carry no
// updated/deleted columns: rows are never mutated after insert.
type eventBase struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}

func (e *eventBase) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return nil
}

// PageViewModel records one page view, consumed only by the dashboard
// aggregator. IP is the unique-visitor proxy; it is not identity-accurate.
type PageViewModel struct {
	eventBase
	UserID     *string `json:"user_id"    gorm:"type:char(36);index"`
	SessionKey string  `json:"session_key" gorm:"size:64;index"`
	Path       string  `json:"path"       gorm:"size:255;index"`
	PageTitle  string  `json:"page_title" gorm:"size:255"`
	IPAddress  string  `json:"ip_address" gorm:"size:45;index"`
	UserAgent  string  `json:"user_agent" gorm:"type:text"`
}

func (PageViewModel) TableName() string { return "page_views" }

// UserActivityModel records one staff action (login, content edit, ...).
type UserActivityModel struct {
	eventBase
	UserID    string     `json:"user_id"   gorm:"type:char(36);index;not null"`
	User      *UserModel `json:"-"         gorm:"foreignKey:UserID"`
	Action    string     `json:"action"    gorm:"size:100;not null"`
	Detail    string     `json:"detail"    gorm:"type:text"`
	IPAddress string     `json:"ip_address" gorm:"size:45"`
}

func (UserActivityModel) TableName() string { return "user_activities" }

// ContentInteractionModel records one content interaction from the mobile
// client (view, like, share, scan, ...).
type ContentInteractionModel struct {
	eventBase
	ContentID       *string `json:"content_id" gorm:"type:char(36);index"`
	UserID          *string `json:"user_id"    gorm:"type:char(36);index"`
	InteractionType string  `json:"interaction_type" gorm:"size:50;index;not null"`
	IPAddress       string  `json:"ip_address" gorm:"size:45"`
}

func (ContentInteractionModel) TableName() string { return "content_interactions" }
