package database

import (
	"fmt"

	"github.com/aghamazing/quest-core/internal/config"
	"github.com/aghamazing/quest-core/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a MySQL connection and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.Database.DSNValue(),
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return db, nil
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.RoleModel{},
		&models.UserModel{},
		&models.IntegrationModel{},
		&models.IntegrationLogModel{},
		&models.CategoryModel{},
		&models.ContentModel{},
		&models.ContentAnalytics{},
		&models.ContentApprovalModel{},
		&models.MediaModel{},
		&models.ContentMediaModel{},
		&models.MarkerModel{},
		&models.ChallengeModel{},
		&models.ChallengeProgressModel{},
		&models.FeedbackModel{},
		&models.PageViewModel{},
		&models.UserActivityModel{},
		&models.ContentInteractionModel{},
	)
}

// SeedRoles ensures the built-in role bundle exists. Safe to run on every
// boot; existing rows are left untouched.
func SeedRoles(db *gorm.DB) error {
	roles := []models.RoleModel{
		{Name: models.RoleAdmin, Description: "Full access", Permissions: models.StringSlice{"*"}},
		{Name: models.RoleEncoder, Description: "Creates and submits content", Permissions: models.StringSlice{"content.create", "content.submit"}},
		{Name: models.RoleEditor, Description: "Edits and reviews content", Permissions: models.StringSlice{"content.create", "content.submit", "content.review"}},
		{Name: models.RoleApprover, Description: "Approves or denies submissions", Permissions: models.StringSlice{"content.review", "content.approve", "content.deny", "content.publish"}},
		{Name: models.RolePublisher, Description: "Publishes approved content", Permissions: models.StringSlice{"content.publish"}},
		{Name: models.RoleDefault, Description: "Read-only", Permissions: models.StringSlice{}},
	}
	for i := range roles {
		var count int64
		if err := db.Model(&models.RoleModel{}).Where("name = ?", roles[i].Name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&roles[i]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
