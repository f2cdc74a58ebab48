package models

import "time"

// Well-known role names seeded by the role bootstrap.
const (
	RoleAdmin     = "Admin"
	RoleEncoder   = "Encoder"
	RoleEditor    = "Editor"
	RoleApprover  = "Approver"
	RolePublisher = "Publisher"
	RoleDefault   = "Default"
)

// RoleModel is a named permission bundle assigned to users.
type RoleModel struct {
	Base
	Name        string      `json:"name"        gorm:"size:45;uniqueIndex;not null"`
	Description string      `json:"description" gorm:"type:text"`
	Permissions StringSlice `json:"permissions" gorm:"type:json;serializer:json"`
}

func (RoleModel) TableName() string { return "roles" }

// UserModel is a CMS staff account. Every user references exactly one role;
// role deletion is restricted while users still point at it.
type UserModel struct {
	Base
	Email       string     `json:"email"      gorm:"uniqueIndex;not null"`
	Username    string     `json:"username"   gorm:"size:45;uniqueIndex;not null"`
	Password    string     `json:"-"          gorm:"column:password_hash;not null"`
	FirstName   string     `json:"first_name" gorm:"size:45"`
	LastName    string     `json:"last_name"  gorm:"size:45"`
	AvatarURL   string     `json:"avatar_url" gorm:"type:text"`
	IsStaff     bool       `json:"is_staff"   gorm:"default:false"`
	IsSuperuser bool       `json:"is_superuser" gorm:"default:false"`
	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"-"`
	RoleID      string     `json:"role_id"    gorm:"type:char(36);index;not null"`
	Role        *RoleModel `json:"role,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
}

func (UserModel) TableName() string { return "users" }

// RoleName returns the preloaded role name, or "" when the role was not loaded.
func (u UserModel) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}
