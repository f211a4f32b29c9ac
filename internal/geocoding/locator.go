package geocoding

import (
	"context"

	"github.com/sirupsen/logrus"

	"sitrus/server/internal/models"
)

// PropertyStore is the part of the database the locator writes to
type PropertyStore interface {
	GetPropertiesWithoutCoordinates(ctx context.Context) ([]models.Property, error)
	UpdatePropertyCoordinates(ctx context.Context, id, location string, lat, lng float64) error
}

// Locator stores coordinates for properties that lack them
type Locator struct {
	geocoder *Geocoder
	store    PropertyStore
	logger   *logrus.Logger
}

func NewLocator(geocoder *Geocoder, store PropertyStore, logger *logrus.Logger) *Locator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Locator{geocoder: geocoder, store: store, logger: logger}
}

// Locate geocodes one property and stores the result
func (l *Locator) Locate(ctx context.Context, property models.Property) error {
	lat, lng, err := l.geocoder.GeocodeLocation(ctx, property.Location)
	if err != nil {
		return err
	}
	return l.store.UpdatePropertyCoordinates(ctx, property.ID, property.Location, lat, lng)
}

// UpdateMissingCoordinates geocodes every property without coordinates.
// Failures are logged and skipped. It returns how many were updated.
func (l *Locator) UpdateMissingCoordinates(ctx context.Context) (int, error) {
	properties, err := l.store.GetPropertiesWithoutCoordinates(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range properties {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		if err := l.Locate(ctx, p); err != nil {
			l.logger.WithError(err).WithFields(logrus.Fields{
				"property_id": p.ID,
				"location":    p.Location,
			}).Warn("Failed to geocode property")
			continue
		}
		updated++
	}

	l.logger.WithFields(logrus.Fields{
		"pending": len(properties),
		"updated": updated,
	}).Info("Finished updating property coordinates")
	return updated, nil
}
