package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"sitrus/server/internal/catalog"
	"sitrus/server/internal/models"
)

// PriceLabel renders a property's price for the map popups
type PriceLabel func(models.Property) string

// PropertyFeature converts a geocoded property into a point feature. It
// returns nil for properties without coordinates.
func PropertyFeature(p models.Property, label PriceLabel) *geojson.Feature {
	if !p.HasCoordinates() {
		return nil
	}

	feature := geojson.NewFeature(orb.Point{*p.Longitude, *p.Latitude})
	feature.ID = p.ID
	feature.Properties = geojson.Properties{
		"id":       p.ID,
		"title":    p.Title,
		"type":     catalog.GroupKey(p.Type),
		"status":   p.Status,
		"location": p.Location,
	}
	if label != nil {
		feature.Properties["price_display"] = label(p)
	}
	if len(p.Images) > 0 {
		feature.Properties["image"] = p.Images[0]
	}
	return feature
}

// FeatureCollection builds the map feed. With hulls set, one coverage
// polygon is added per status that has at least three distinct points.
func FeatureCollection(properties []models.Property, label PriceLabel, hulls bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	byStatus := make(map[string][]orb.Point)
	for _, p := range properties {
		feature := PropertyFeature(p, label)
		if feature == nil {
			continue
		}
		fc.Append(feature)
		byStatus[p.Status] = append(byStatus[p.Status], feature.Point())
	}

	if !hulls {
		return fc
	}

	statuses := make([]string, 0, len(byStatus))
	for status := range byStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	for _, status := range statuses {
		hull := ConvexHull(byStatus[status])
		if hull == nil {
			continue
		}
		feature := geojson.NewFeature(orb.Polygon{hull})
		feature.Properties = geojson.Properties{
			"status":        status,
			"point_count":   len(byStatus[status]),
			"geometry_type": "hull",
			"hull_type":     "convex",
		}
		fc.Append(feature)
	}
	return fc
}
