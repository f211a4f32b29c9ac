package catalog

import (
	"sort"
	"strings"

	"sitrus/server/config"
	"sitrus/server/internal/models"
)

// TypeGroup is one section of the listing: every property of a type
type TypeGroup struct {
	Type       string            `json:"type"`
	Properties []models.Property `json:"properties"`
}

// CatalogViewModel is the grouped listing served to the site
type CatalogViewModel struct {
	ActiveStatusFilter string      `json:"active_status_filter"`
	Groups             []TypeGroup `json:"groups"`
	Total              int         `json:"total"`
}

// IsEmpty reports whether no property matched the filter
func (v CatalogViewModel) IsEmpty() bool {
	return len(v.Groups) == 0
}

// Flatten returns the properties of all groups in display order
func (v CatalogViewModel) Flatten() []models.Property {
	out := make([]models.Property, 0, v.Total)
	for _, g := range v.Groups {
		out = append(out, g.Properties...)
	}
	return out
}

// BuildView filters records by status and groups them by type.
//
// With the "all" filter (or an empty one) every record is kept and ongoing
// properties are moved to the front, keeping relative order otherwise. Any
// other filter keeps only exact status matches. Groups follow order; types
// missing from order come last, in the order they were first seen. A nil
// order uses config.TypePriority.
//
// records is never modified.
func BuildView(records []models.Property, statusFilter string, order []string) CatalogViewModel {
	if statusFilter == "" {
		statusFilter = config.StatusAll
	}
	if order == nil {
		order = config.TypePriority()
	}

	filtered := filterByStatus(records, statusFilter)
	groups := groupByType(filtered, order)

	return CatalogViewModel{
		ActiveStatusFilter: statusFilter,
		Groups:             groups,
		Total:              len(filtered),
	}
}

func filterByStatus(records []models.Property, statusFilter string) []models.Property {
	if statusFilter == config.StatusAll {
		out := make([]models.Property, 0, len(records))
		for _, p := range records {
			if p.Status == config.StatusOngoing {
				out = append(out, p)
			}
		}
		for _, p := range records {
			if p.Status != config.StatusOngoing {
				out = append(out, p)
			}
		}
		return out
	}

	out := make([]models.Property, 0)
	for _, p := range records {
		if p.Status == statusFilter {
			out = append(out, p)
		}
	}
	return out
}

// GroupKey returns the group a property type belongs to
func GroupKey(propertyType string) string {
	key := strings.ToLower(strings.TrimSpace(propertyType))
	if key == "" {
		return config.OthersType
	}
	return key
}

func groupByType(records []models.Property, order []string) []TypeGroup {
	rank := make(map[string]int, len(order))
	for i, key := range order {
		if _, seen := rank[key]; !seen {
			rank[key] = i
		}
	}

	index := make(map[string]int)
	groups := make([]TypeGroup, 0)
	for _, p := range records {
		key := GroupKey(p.Type)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TypeGroup{Type: key})
		}
		groups[i].Properties = append(groups[i].Properties, p)
	}

	// Unlisted keys share the rank after the last listed key; the stable sort
	// keeps them in first-seen order.
	unlisted := len(order)
	rankOf := func(key string) int {
		if r, ok := rank[key]; ok {
			return r
		}
		return unlisted
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return rankOf(groups[a].Type) < rankOf(groups[b].Type)
	})
	return groups
}
