package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sitrus/server/internal/models"
)

func (d *Database) GetAllFAQs(ctx context.Context) ([]models.FAQ, error) {
	faqs, err := listAll[models.FAQ](ctx, d.db, "created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	return faqs, nil
}

func (d *Database) GetFAQByID(ctx context.Context, id string) (*models.FAQ, error) {
	return getByID[models.FAQ](ctx, d.db, id)
}

func (d *Database) CreateFAQ(ctx context.Context, faq *models.FAQ) error {
	if err := d.db.WithContext(ctx).Create(faq).Error; err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	return nil
}

func (d *Database) UpdateFAQ(ctx context.Context, faq *models.FAQ) error {
	if err := d.db.WithContext(ctx).Save(faq).Error; err != nil {
		return fmt.Errorf("failed to update faq: %w", err)
	}
	return nil
}

func (d *Database) DeleteFAQ(ctx context.Context, id string) error {
	return deleteByID[models.FAQ](ctx, d.db, id)
}

func (d *Database) GetAllTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	members, err := listAll[models.TeamMember](ctx, d.db, "created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func (d *Database) GetTeamMemberByID(ctx context.Context, id string) (*models.TeamMember, error) {
	return getByID[models.TeamMember](ctx, d.db, id)
}

func (d *Database) CreateTeamMember(ctx context.Context, member *models.TeamMember) error {
	if err := d.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("failed to create team member: %w", err)
	}
	return nil
}

func (d *Database) UpdateTeamMember(ctx context.Context, member *models.TeamMember) error {
	if err := d.db.WithContext(ctx).Save(member).Error; err != nil {
		return fmt.Errorf("failed to update team member: %w", err)
	}
	return nil
}

func (d *Database) DeleteTeamMember(ctx context.Context, id string) error {
	return deleteByID[models.TeamMember](ctx, d.db, id)
}

// GetAllStatics returns the static pages documents; normally exactly one
func (d *Database) GetAllStatics(ctx context.Context) ([]models.StaticContent, error) {
	statics, err := listAll[models.StaticContent](ctx, d.db, "created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list static content: %w", err)
	}
	return statics, nil
}

func (d *Database) GetStaticByID(ctx context.Context, id string) (*models.StaticContent, error) {
	return getByID[models.StaticContent](ctx, d.db, id)
}

// UpdateStatic applies partial page updates and returns the stored document
func (d *Database) UpdateStatic(ctx context.Context, id string, updates map[string]interface{}) (*models.StaticContent, error) {
	var static *models.StaticContent
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		static, err = getByID[models.StaticContent](ctx, tx, id)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(static).Updates(updates).Error; err != nil {
			return err
		}
		static, err = getByID[models.StaticContent](ctx, tx, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update static content: %w", err)
	}
	return static, nil
}
