package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Property struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Images    []string  `gorm:"serializer:json" json:"images"`
	Type      string    `gorm:"size:64;index" json:"type"`
	Status    string    `gorm:"size:32;index" json:"status"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Location  string    `gorm:"size:255" json:"location"`
	Price     Price     `gorm:"type:text" json:"price"`
	Features  string    `gorm:"type:text" json:"features"`
	Amenities []string  `gorm:"serializer:json" json:"amenities"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// HasCoordinates reports whether the property was geocoded
func (p *Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// PropertyView is a property as served to the site, with its price rendered
type PropertyView struct {
	Property
	PriceDisplay string `json:"price_display"`
}

// FeatureText accepts either free text or a list of feature labels.
// Lists are joined into comma separated text.
type FeatureText string

func (f *FeatureText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("features must be text or a list of text: %w", err)
		}
		*f = FeatureText(strings.Join(cleanList(items), ", "))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("features must be text or a list of text: %w", err)
	}
	*f = FeatureText(strings.TrimSpace(s))
	return nil
}

// ParseFeatures splits comma separated feature text into trimmed labels,
// dropping empty entries.
func ParseFeatures(text string) []string {
	return cleanList(strings.Split(text, ","))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PropertyRequest is the admin payload for creating or replacing a property
type PropertyRequest struct {
	Images    []string    `json:"images" binding:"omitempty,dive,url"`
	Type      string      `json:"type" binding:"required,property_type"`
	Status    string      `json:"status" binding:"required,property_status"`
	Title     string      `json:"title" binding:"required,notblank,max=255"`
	Location  string      `json:"location" binding:"required,notblank,max=255"`
	Price     Price       `json:"price"`
	Features  FeatureText `json:"features"`
	Amenities []string    `json:"amenities"`
}

// Apply copies the request onto p, normalizing text fields.
// Coordinates are cleared when the location changes.
func (r *PropertyRequest) Apply(p *Property) {
	location := strings.TrimSpace(r.Location)
	if p.Location != location {
		p.Latitude = nil
		p.Longitude = nil
	}

	p.Images = cleanList(r.Images)
	p.Type = strings.ToLower(strings.TrimSpace(r.Type))
	p.Status = r.Status
	p.Title = strings.TrimSpace(r.Title)
	p.Location = location
	p.Price = r.Price
	p.Features = string(r.Features)
	if r.Amenities != nil {
		p.Amenities = cleanList(r.Amenities)
	} else {
		p.Amenities = nil
	}
}
