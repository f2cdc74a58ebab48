package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

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

type CreateUserDTO struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	RoleID    string `json:"role_id"`
	RoleName  string `json:"role_name"`
	IsStaff   bool   `json:"is_staff"`
}

type UpdateUserDTO struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
	RoleID    *string `json:"role_id"`
	IsStaff   *bool   `json:"is_staff"`
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*models.UserModel, error) {
	roleID := dto.RoleID
	if roleID == "" {
		name := dto.RoleName
		if name == "" {
			name = models.RoleDefault
		}
		role, err := s.RoleByName(ctx, name)
		if err != nil {
			return nil, err
		}
		roleID = role.ID
	} else if _, err := s.roleByID(ctx, roleID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	m := models.UserModel{
		Email:     strings.ToLower(strings.TrimSpace(dto.Email)),
		Username:  strings.TrimSpace(dto.Username),
		Password:  string(hash),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		IsStaff:   dto.IsStaff,
		RoleID:    roleID,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.KindValidation, "email or username already taken")
		}
		return nil, err
	}
	m.Password = ""
	return &m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.UserModel, error) {
	var m models.UserModel
	err := s.db.WithContext(ctx).Preload("Role").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByLogin resolves a user by email or username, with the password hash
// loaded for credential checks.
func (s *Service) FindByLogin(ctx context.Context, login string) (*models.UserModel, error) {
	login = strings.TrimSpace(login)
	var m models.UserModel
	err := s.db.WithContext(ctx).Preload("Role").
		Where("email = ? OR username = ?", strings.ToLower(login), login).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindAuthentication, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) List(ctx context.Context, pq pagination.Query) ([]models.UserModel, int64, error) {
	var rows []models.UserModel
	q := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Preload("Role").
		Order("created_at DESC")
	total, err := pagination.Paginate(q, pq, &rows)
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].Password = ""
	}
	return rows, total, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateUserDTO) (*models.UserModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if dto.FirstName != nil {
		updates["first_name"] = *dto.FirstName
	}
	if dto.LastName != nil {
		updates["last_name"] = *dto.LastName
	}
	if dto.AvatarURL != nil {
		updates["avatar_url"] = *dto.AvatarURL
	}
	if dto.RoleID != nil {
		if _, err := s.roleByID(ctx, *dto.RoleID); err != nil {
			return nil, err
		}
		updates["role_id"] = *dto.RoleID
	}
	if dto.IsStaff != nil {
		updates["is_staff"] = *dto.IsStaff
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	m.Password = ""
	return m, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	if len(next) < 8 {
		return apperr.New(apperr.KindValidation, "password must be at least 8 characters")
	}
	var m models.UserModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(current)) != nil {
		return apperr.New(apperr.KindAuthentication, "invalid credentials")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&m).Update("password_hash", string(hash)).Error
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	return nil
}

func (s *Service) Roles(ctx context.Context) ([]models.RoleModel, error) {
	var rows []models.RoleModel
	err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (s *Service) RoleByName(ctx context.Context, name string) (*models.RoleModel, error) {
	var m models.RoleModel
	err := s.db.WithContext(ctx).First(&m, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "role %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) roleByID(ctx context.Context, id string) (*models.RoleModel, error) {
	var m models.RoleModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "role not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteRole refuses while users still reference the role.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.UserModel{}).Where("role_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Newf(apperr.KindState, "role is assigned to %d users", n)
		}
		res := tx.Delete(&models.RoleModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.KindNotFound, "role not found")
		}
		return nil
	})
}

// TouchLogin records a successful login.
func (s *Service) TouchLogin(ctx context.Context, id, ip string) error {
	return s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_login_ip": ip,
		}).Error
}
