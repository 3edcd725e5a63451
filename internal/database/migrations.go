package database

import (
	"AutosValle-Backend/internal/auth"
	"AutosValle-Backend/internal/config"
	"AutosValle-Backend/internal/domain"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs automatic migrations for all domain models.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database auto-migration")

	// Migration order matters because of foreign keys.
	models := []interface{}{
		&domain.Admin{},
		&domain.ClientRequest{},
		&domain.Vehicle{},
		&domain.Click{},
		&domain.View{},
		&domain.PageVisit{},
	}

	for i, model := range models {
		modelName := fmt.Sprintf("%T", model)
		log.Info("migrating model",
			zap.String("model", modelName),
			zap.Int("step", i+1),
			zap.Int("total", len(models)))

		if err := db.AutoMigrate(model); err != nil {
			log.Error("failed to migrate model",
				zap.String("model", modelName),
				zap.Error(err))
			return fmt.Errorf("failed to migrate model %s: %w", modelName, err)
		}
	}

	log.Info("database auto-migration completed successfully", zap.Int("migrated_models", len(models)))
	return nil
}

// SeedData creates the bootstrap admin identity exactly once.
func SeedData(db *gorm.DB, cfg *config.Auth, log *zap.Logger) error {
	log.Info("starting database seeding")

	var count int64
	if err := db.Model(&domain.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		log.Info("admin identity already exists, skipping seeding", zap.Int64("existing_count", count))
		return nil
	}

	passwordService := auth.NewPasswordService()
	passwordHash, err := passwordService.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := domain.Admin{
		Username:     cfg.AdminUsername,
		PasswordHash: passwordHash,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Error("failed to seed admin identity", zap.Error(err))
		return fmt.Errorf("failed to seed admin identity: %w", err)
	}

	log.Info("database seeding completed successfully", zap.String("admin_username", admin.Username))
	return nil
}
