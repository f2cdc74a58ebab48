package models

import "time"

// MarkerModel is a physical AR marker placed on the tour route.
type MarkerModel struct {
	Base
	Code       string   `json:"code"      gorm:"size:100;uniqueIndex;not null"`
	Latitude   *float64 `json:"latitude"  gorm:"type:decimal(9,6)"`
	Longitude  *float64 `json:"longitude" gorm:"type:decimal(9,6)"`
	ContentURL string   `json:"content_url" gorm:"type:text"`
}

func (MarkerModel) TableName() string { return "markers" }

// ChallengeType classifies the gamified activity behind a marker.
type ChallengeType string

const (
	ChallengeScavengerHunt ChallengeType = "scavenger_hunt"
	ChallengeQuiz          ChallengeType = "quiz"
	ChallengePhoto         ChallengeType = "photo_challenge"
	ChallengeARExperience  ChallengeType = "ar_experience"
)

// ValidChallengeType reports whether t is one of the known challenge types.
func ValidChallengeType(t ChallengeType) bool {
	switch t {
	case ChallengeScavengerHunt, ChallengeQuiz, ChallengePhoto, ChallengeARExperience:
		return true
	}
	return false
}

// ChallengeModel is one gamified challenge. The challenge-to-marker link is
// stored in one direction only; a marker's challenges are a query over this
// foreign key rather than a stored back-reference.
type ChallengeModel struct {
	Base
	Title       string        `json:"title"       gorm:"size:255;not null"`
	Description string        `json:"description" gorm:"type:text"`
	Type        ChallengeType `json:"type"        gorm:"size:20;not null"`
	Points      int           `json:"points"      gorm:"default:0"`
	MarkerID    *string       `json:"marker_id"   gorm:"type:char(36);index"`
	Marker      *MarkerModel  `json:"marker,omitempty" gorm:"foreignKey:MarkerID"`
	AuthorID    string        `json:"author_id"   gorm:"type:char(36);index;not null"`
}

func (ChallengeModel) TableName() string { return "challenges" }

// ChallengeProgressModel tracks one user's progress on one challenge,
// unique per (user, challenge).
type ChallengeProgressModel struct {
	Base
	UserID      string     `json:"user_id"      gorm:"type:char(36);uniqueIndex:idx_user_challenge;not null"`
	ChallengeID string     `json:"challenge_id" gorm:"type:char(36);uniqueIndex:idx_user_challenge;not null"`
	Score       int        `json:"score"        gorm:"default:0"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (ChallengeProgressModel) TableName() string { return "challenge_progress" }

// FeedbackModel is a user rating with an optional bounded comment.
type FeedbackModel struct {
	Base
	UserID  string `json:"user_id" gorm:"type:char(36);index;not null"`
	Rating  int    `json:"rating"  gorm:"not null"`
	Comment string `json:"comment" gorm:"size:1000"`
}

func (FeedbackModel) TableName() string { return "feedback" }
