package database

import (
	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Lead{},
		&models.Contract{},
		&models.SignedDocument{},
		&models.ChatMessage{},
		&models.LeadNotification{},
		&models.SupportQuery{},
		&models.AdminAccount{},
		&models.PageViewCounter{},
	)
}

// SeedData ensures singleton rows exist, currently just the page-view counter.
func SeedData(db *gorm.DB) error {
	counter := models.PageViewCounter{
		BaseModel: models.BaseModel{ID: "landing"},
	}
	return db.Where(models.PageViewCounter{BaseModel: models.BaseModel{ID: counter.ID}}).
		Attrs(counter).
		FirstOrCreate(&models.PageViewCounter{}).Error
}
