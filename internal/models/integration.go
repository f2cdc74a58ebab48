package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRateLimit is the hourly per-IP request allowance a new integration
// gets when none is specified.
const DefaultRateLimit = 1000

// IntegrationModel is the identity of an external client admitted through the
// API gateway. The key is generated once at creation and never rotated in
// place; revocation means deactivating the row and issuing a new one.
type IntegrationModel struct {
	Base
	Name        string `json:"name"        gorm:"size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	APIKey      string `json:"-"           gorm:"uniqueIndex;size:191;not null"`
	IsActive    bool   `json:"is_active"   gorm:"default:true"`

	// AllowedEndpoints restricts which paths under the API prefix the key may
	// call. Patterns are matched exactly or with a trailing wildcard
	// ("/content/*"). Empty means every endpoint.
	AllowedEndpoints StringSlice `json:"allowed_endpoints" gorm:"type:json;serializer:json"`

	// IPWhitelist restricts caller addresses. Empty means unrestricted.
	IPWhitelist StringSlice `json:"ip_whitelist" gorm:"type:json;serializer:json"`

	// RateLimit is the number of requests allowed per hour per caller IP.
	RateLimit int `json:"rate_limit" gorm:"default:1000"`

	CreatedByID *string    `json:"created_by_id" gorm:"type:char(36)"`
	CreatedBy   *UserModel `json:"-"             gorm:"foreignKey:CreatedByID"`
}

func (IntegrationModel) TableName() string { return "api_integrations" }

// AllowsIP reports whether the caller address passes the whitelist.
// An empty whitelist admits every address.
func (m IntegrationModel) AllowsIP(ip string) bool {
	if len(m.IPWhitelist) == 0 {
		return true
	}
	for _, allowed := range m.IPWhitelist {
		if allowed == ip {
			return true
		}
	}
	return false
}

// IntegrationLogModel records one gatewayed request. Rows are append-only:
// the gateway never updates or deletes them.
type IntegrationLogModel struct {
	ID            string    `json:"id"          gorm:"type:char(36);primaryKey"`
	IntegrationID string    `json:"integration_id" gorm:"type:char(36);index;not null"`
	Endpoint      string    `json:"endpoint"    gorm:"size:255;not null"`
	Method        string    `json:"method"      gorm:"size:10;not null"`
	IPAddress     string    `json:"ip_address"  gorm:"size:45"`
	UserAgent     string    `json:"user_agent"  gorm:"type:text"`
	Status        int       `json:"response_status"`
	ResponseTime  float64   `json:"response_time"`
	RequestedAt   time.Time `json:"request_time" gorm:"index"`
}

func (IntegrationLogModel) TableName() string { return "api_integration_logs" }

func (l *IntegrationLogModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.RequestedAt.IsZero() {
		l.RequestedAt = time.Now()
	}
	return nil
}
