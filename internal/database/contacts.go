package database

import (
	"context"
	"fmt"

	"sitrus/server/internal/models"
)

// GetAllContacts returns contact submissions, newest first
func (d *Database) GetAllContacts(ctx context.Context) ([]models.ContactSubmission, error) {
	contacts, err := listAll[models.ContactSubmission](ctx, d.db, "created_at DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (d *Database) GetContactByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	return getByID[models.ContactSubmission](ctx, d.db, id)
}

func (d *Database) CreateContact(ctx context.Context, contact *models.ContactSubmission) error {
	if err := d.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (d *Database) DeleteContact(ctx context.Context, id string) error {
	return deleteByID[models.ContactSubmission](ctx, d.db, id)
}
