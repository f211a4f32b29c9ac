package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sitrus/server/internal/models"
)

const telegramConfigID = 1

// GetTelegramConfig returns the stored bot configuration, or a disabled
// empty one when none was saved yet
func (d *Database) GetTelegramConfig(ctx context.Context) (*models.TelegramConfig, error) {
	var cfg models.TelegramConfig
	err := d.db.WithContext(ctx).First(&cfg, telegramConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.TelegramConfig{ID: telegramConfigID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get telegram config: %w", err)
	}
	return &cfg, nil
}

func (d *Database) UpdateTelegramConfig(ctx context.Context, cfg *models.TelegramConfig) error {
	cfg.ID = telegramConfigID
	if err := d.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to update telegram config: %w", err)
	}
	return nil
}
