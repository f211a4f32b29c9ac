package database

import (
	"fmt"

	"sitrus/server/internal/models"
)

func (d *Database) RunMigrations() error {
	err := d.db.AutoMigrate(
		&models.Property{},
		&models.FAQ{},
		&models.TeamMember{},
		&models.StaticContent{},
		&models.ContactSubmission{},
		&models.Admin{},
		&models.TelegramConfig{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Create index on coordinates for the map feed
	err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_coordinates
		ON properties(latitude, longitude);
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create coordinates index: %w", err)
	}

	return d.ensureStaticContent()
}

// ensureStaticContent seeds the single static pages document
func (d *Database) ensureStaticContent() error {
	var count int64
	if err := d.db.Model(&models.StaticContent{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count static content: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := d.db.Create(&models.StaticContent{}).Error; err != nil {
		return fmt.Errorf("failed to seed static content: %w", err)
	}
	d.logger.Info("Seeded empty static content document")
	return nil
}
