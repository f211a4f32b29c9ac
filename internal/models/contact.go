package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactSubmission is a message left through the public contact form
type ContactSubmission struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	FirstName string    `gorm:"size:128;not null" json:"firstName"`
	LastName  string    `gorm:"size:128;not null" json:"lastName"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// FullName joins first and last name
func (c *ContactSubmission) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type ContactRequest struct {
	FirstName string `json:"firstName" binding:"required,notblank,max=128"`
	LastName  string `json:"lastName" binding:"required,notblank,max=128"`
	Phone     string `json:"phone" binding:"max=32"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Subject   string `json:"subject" binding:"required,notblank,max=255"`
	Message   string `json:"message" binding:"required,notblank"`
}

// ToModel converts the request into a new submission
func (r *ContactRequest) ToModel() *ContactSubmission {
	return &ContactSubmission{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Phone:     strings.TrimSpace(r.Phone),
		Email:     strings.TrimSpace(r.Email),
		Subject:   strings.TrimSpace(r.Subject),
		Message:   strings.TrimSpace(r.Message),
	}
}
