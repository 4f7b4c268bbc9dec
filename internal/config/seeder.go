package config

import (
	"log"

	"labops-backend/internal/adapters/persistence/models"
	"labops-backend/internal/pkg/password"

	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@biotech.com"
	defaultAdminPassword = "admin123"
)

// SeedDefaultAdmin creates the default admin account if no user with
// the default email exists yet.
func SeedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", defaultAdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        defaultAdminEmail,
		PasswordHash: hash,
		FullName:     "Admin User",
		Role:         models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Default admin user created: %s", defaultAdminEmail)
	return nil
}
