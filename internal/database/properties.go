package database

import (
	"context"
	"fmt"

	"sitrus/server/internal/models"
)

// GetAllProperties returns every property in insertion order
func (d *Database) GetAllProperties(ctx context.Context) ([]models.Property, error) {
	properties, err := listAll[models.Property](ctx, d.db, "created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (d *Database) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	return getByID[models.Property](ctx, d.db, id)
}

func (d *Database) CreateProperty(ctx context.Context, property *models.Property) error {
	if err := d.db.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (d *Database) UpdateProperty(ctx context.Context, property *models.Property) error {
	if err := d.db.WithContext(ctx).Save(property).Error; err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

func (d *Database) DeleteProperty(ctx context.Context, id string) error {
	return deleteByID[models.Property](ctx, d.db, id)
}

// UpdatePropertyCoordinates stores the geocoded position of a property.
// The position is only written while the property still has the location
// it was geocoded from, otherwise ErrStaleLocation is returned.
func (d *Database) UpdatePropertyCoordinates(ctx context.Context, id, location string, lat, lng float64) error {
	result := d.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ? AND location = ?", id, location).
		Updates(map[string]interface{}{"latitude": lat, "longitude": lng})
	if result.Error != nil {
		return fmt.Errorf("failed to update coordinates: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := d.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check property: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStaleLocation
}

// GetPropertiesWithoutCoordinates returns properties that still need geocoding
func (d *Database) GetPropertiesWithoutCoordinates(ctx context.Context) ([]models.Property, error) {
	properties := make([]models.Property, 0)
	err := d.db.WithContext(ctx).
		Where("(latitude IS NULL OR longitude IS NULL) AND location <> ''").
		Order("created_at ASC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list properties without coordinates: %w", err)
	}
	return properties, nil
}

// GetGeocodedProperties returns properties that have both coordinates
func (d *Database) GetGeocodedProperties(ctx context.Context) ([]models.Property, error) {
	properties := make([]models.Property, 0)
	err := d.db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("created_at ASC, id ASC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list geocoded properties: %w", err)
	}
	return properties, nil
}
