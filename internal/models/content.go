package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FAQ struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *FAQ) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type FAQRequest struct {
	Question string `json:"question" binding:"required,notblank"`
	Answer   string `json:"answer" binding:"required,notblank"`
}

type TeamMember struct {
	ID          string    `gorm:"primaryKey;size:36" json:"_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Role        string    `gorm:"size:255" json:"role"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"type:text" json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Initials builds a short avatar label like "NR" from the member's name.
// Members without a usable name get a dash.
func (t TeamMember) Initials() string {
	parts := strings.Fields(t.Name)
	if len(parts) > 2 {
		parts = parts[:2]
	}

	var b strings.Builder
	for _, part := range parts {
		r := []rune(part)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "—"
	}
	return b.String()
}

type TeamMemberRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=255"`
	Role        string `json:"role" binding:"max=255"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"omitempty,url"`
}

// Apply copies the request onto t with surrounding whitespace removed
func (r *TeamMemberRequest) Apply(t *TeamMember) {
	t.Name = strings.TrimSpace(r.Name)
	t.Role = strings.TrimSpace(r.Role)
	t.Description = strings.TrimSpace(r.Description)
	t.Image = strings.TrimSpace(r.Image)
}

// StaticContent holds the site's legal and about pages. The site uses a
// single document.
type StaticContent struct {
	ID           string    `gorm:"primaryKey;size:36" json:"_id"`
	About        string    `gorm:"type:text" json:"about"`
	Privacy      string    `gorm:"type:text" json:"privacy"`
	Terms        string    `gorm:"type:text" json:"terms"`
	RefundPolicy string    `gorm:"type:text" json:"refundPolicy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (s *StaticContent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StaticContentRequest updates only the pages that are present
type StaticContentRequest struct {
	About        *string `json:"about"`
	Privacy      *string `json:"privacy"`
	Terms        *string `json:"terms"`
	RefundPolicy *string `json:"refundPolicy"`
}

// Updates returns the column updates for the fields present in the request
func (r *StaticContentRequest) Updates() map[string]interface{} {
	updates := make(map[string]interface{})
	if r.About != nil {
		updates["about"] = *r.About
	}
	if r.Privacy != nil {
		updates["privacy"] = *r.Privacy
	}
	if r.Terms != nil {
		updates["terms"] = *r.Terms
	}
	if r.RefundPolicy != nil {
		updates["refund_policy"] = *r.RefundPolicy
	}
	return updates
}
