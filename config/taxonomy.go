package config

import "strings"

// StatusAll selects every property regardless of status.
const StatusAll = "all"

// Property statuses accepted by the admin forms.
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusUpcoming  = "upcoming"
)

// OthersType is the group key for properties without a type.
const OthersType = "others"

// PropertyType describes a category offered on the site
type PropertyType struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SupportedTypes is the list of property types, in display priority order
var SupportedTypes = []PropertyType{
	{Key: "villa", Label: "Villa"},
	{Key: "house", Label: "House"},
	{Key: "penthouse", Label: "Penthouse"},
	{Key: "apartment", Label: "Apartment"},
	{Key: "studio", Label: "Studio"},
	{Key: "townhouse", Label: "Townhouse"},
	{Key: "bungalow", Label: "Bungalow"},
	{Key: "land", Label: "Land"},
	{Key: "commercial", Label: "Commercial"},
	{Key: "arena_sports", Label: "Arena & Sports"},
}

// SupportedStatuses lists the lifecycle stages a property can be in
var SupportedStatuses = []string{StatusCompleted, StatusOngoing, StatusUpcoming}

// StatusTabs are the filters offered on the public listing, "all" first
var StatusTabs = []string{StatusAll, StatusOngoing, StatusCompleted}

// TypePriority returns the group ordering used by the catalog view.
// The returned slice is a fresh copy.
func TypePriority() []string {
	order := make([]string, 0, len(SupportedTypes)+1)
	for _, t := range SupportedTypes {
		order = append(order, t.Key)
	}
	return append(order, OthersType)
}

// GetTypeKeys returns the keys of all supported property types
func GetTypeKeys() []string {
	keys := make([]string, len(SupportedTypes))
	for i, t := range SupportedTypes {
		keys[i] = t.Key
	}
	return keys
}

// GetTypeByKey returns a property type by key, case-insensitive
func GetTypeByKey(key string) *PropertyType {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, t := range SupportedTypes {
		if t.Key == key {
			return &t
		}
	}
	return nil
}

// IsValidType reports whether key names a supported property type
func IsValidType(key string) bool {
	return GetTypeByKey(key) != nil
}

// IsValidStatus reports whether status is one of the supported statuses.
// The comparison is exact.
func IsValidStatus(status string) bool {
	for _, s := range SupportedStatuses {
		if s == status {
			return true
		}
	}
	return false
}
