package database

import (
	"context"
	"fmt"

	"sitrus/server/internal/models"
)

// Stats summarizes the site content for the admin dashboard
type Stats struct {
	Properties       int64            `json:"properties"`
	PropertiesByType map[string]int64 `json:"properties_by_type"`
	ByStatus         map[string]int64 `json:"properties_by_status"`
	FAQs             int64            `json:"faqs"`
	TeamMembers      int64            `json:"team_members"`
	Contacts         int64            `json:"contacts"`
	Geocoded         int64            `json:"geocoded"`
}

type groupCount struct {
	Label string
	Count int64
}

func (d *Database) GetStats(ctx context.Context) (*Stats, error) {
	db := d.db.WithContext(ctx)
	stats := &Stats{
		PropertiesByType: make(map[string]int64),
		ByStatus:         make(map[string]int64),
	}

	counts := []struct {
		model interface{}
		dest  *int64
		where string
	}{
		{&models.Property{}, &stats.Properties, ""},
		{&models.Property{}, &stats.Geocoded, "latitude IS NOT NULL AND longitude IS NOT NULL"},
		{&models.FAQ{}, &stats.FAQs, ""},
		{&models.TeamMember{}, &stats.TeamMembers, ""},
		{&models.ContactSubmission{}, &stats.Contacts, ""},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count records: %w", err)
		}
	}

	var rows []groupCount
	if err := db.Model(&models.Property{}).
		Select("status AS label, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count properties by status: %w", err)
	}
	for _, r := range rows {
		stats.ByStatus[r.Label] = r.Count
	}

	rows = nil
	if err := db.Model(&models.Property{}).
		Select("type AS label, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count properties by type: %w", err)
	}
	for _, r := range rows {
		stats.PropertiesByType[r.Label] = r.Count
	}

	return stats, nil
}
