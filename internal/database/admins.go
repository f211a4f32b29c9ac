package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"sitrus/server/internal/models"
)

func (d *Database) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := d.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

func (d *Database) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	return getByID[models.Admin](ctx, d.db, id)
}

// EnsureAdmin creates the admin account if no admin with that email exists.
// An existing account is left untouched.
func (d *Database) EnsureAdmin(ctx context.Context, email, name, passwordHash string) (*models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := d.GetAdminByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	admin := &models.Admin{Email: email, Name: name, PasswordHash: passwordHash}
	if err := d.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	d.logger.WithField("email", email).Info("Seeded admin account")
	return admin, nil
}
