package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sitrus/server/config"
	"sitrus/server/internal/catalog"
	"sitrus/server/internal/database"
	"sitrus/server/internal/finance"
	"sitrus/server/internal/geometry"
	"sitrus/server/internal/metrics"
	"sitrus/server/internal/models"
)

func (h *Handler) view(p models.Property) models.PropertyView {
	return models.PropertyView{Property: p, PriceDisplay: h.formatter.Format(p.Price)}
}

// GetProperties returns every property, or one page of them when asked
func (h *Handler) GetProperties(c *gin.Context) {
	properties, err := h.db.GetAllProperties(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get properties")
		return
	}

	views := make([]models.PropertyView, len(properties))
	for i, p := range properties {
		views[i] = h.view(p)
	}

	respondList(h, c, views, "Invalid pagination parameters")
}

func (h *Handler) GetProperty(c *gin.Context) {
	property, err := h.db.GetPropertyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}

	respond(c, http.StatusOK, h.view(*property))
}

// GetCatalog returns properties grouped by type for a status tab. Views for
// known filters are cached until the next property write.
func (h *Handler) GetCatalog(c *gin.Context) {
	ctx := c.Request.Context()
	status := c.DefaultQuery("status", config.StatusAll)
	cacheable := status == config.StatusAll || config.IsValidStatus(status)

	if cacheable {
		var cached catalog.CatalogViewModel
		hit, err := h.cache.GetJSON(ctx, status, &cached)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to read catalog cache")
		}
		if hit {
			metrics.CatalogCache.WithLabelValues("hit").Inc()
			respond(c, http.StatusOK, cached)
			return
		}
		metrics.CatalogCache.WithLabelValues("miss").Inc()
	}

	// Taken before reading so a write in between keeps this view out of the cache
	generation, genErr := h.cache.Generation(ctx)
	if genErr != nil {
		h.logger.WithError(genErr).Warn("Failed to read catalog cache generation")
	}

	properties, err := h.db.GetAllProperties(ctx)
	if err != nil {
		h.fail(c, err, "Failed to get properties")
		return
	}

	view := catalog.BuildView(properties, status, nil)

	if cacheable && genErr == nil {
		if _, err := h.cache.SetJSON(ctx, status, view, generation); err != nil {
			h.logger.WithError(err).Warn("Failed to write catalog cache")
		}
	}

	respond(c, http.StatusOK, view)
}

// GetGeoJSON returns geocoded properties as a FeatureCollection
func (h *Handler) GetGeoJSON(c *gin.Context) {
	properties, err := h.db.GetGeocodedProperties(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get geocoded properties")
		return
	}

	label := func(p models.Property) string { return h.formatter.Format(p.Price) }
	fc := geometry.FeatureCollection(properties, label, c.Query("hulls") == "true")

	// Served bare so map libraries can load the URL directly
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var req models.PropertyRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid property payload")
		return
	}
	if req.Price.IsZero() {
		h.fail(c, errPriceRequired, "Invalid property payload")
		return
	}

	property := &models.Property{}
	req.Apply(property)
	if err := h.db.CreateProperty(c.Request.Context(), property); err != nil {
		h.fail(c, err, "Failed to create property")
		return
	}

	h.afterPropertyWrite(c.Request.Context(), property)
	respondMessage(c, http.StatusCreated, h.view(*property), "Property created successfully")
}

func (h *Handler) UpdateProperty(c *gin.Context) {
	var req models.PropertyRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid property payload")
		return
	}
	if req.Price.IsZero() {
		h.fail(c, errPriceRequired, "Invalid property payload")
		return
	}

	ctx := c.Request.Context()
	property, err := h.db.GetPropertyByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}

	req.Apply(property)
	if err := h.db.UpdateProperty(ctx, property); err != nil {
		h.fail(c, err, "Failed to update property")
		return
	}

	h.afterPropertyWrite(ctx, property)
	respondMessage(c, http.StatusOK, h.view(*property), "Property updated successfully")
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.db.DeleteProperty(ctx, c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete property")
		return
	}

	h.invalidateCatalog(ctx)
	respondMessage(c, http.StatusOK, nil, "Property deleted successfully")
}

func (h *Handler) invalidateCatalog(ctx context.Context) {
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate catalog cache")
	}
}

// afterPropertyWrite drops cached views and geocodes the property in the
// background when it has no coordinates yet
func (h *Handler) afterPropertyWrite(ctx context.Context, property *models.Property) {
	h.invalidateCatalog(ctx)

	if h.locator == nil || property.HasCoordinates() || property.Location == "" {
		return
	}

	p := *property
	h.jobs.Add(1)
	go func() {
		defer h.jobs.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.locator.Locate(ctx, p); err != nil {
			if errors.Is(err, database.ErrStaleLocation) {
				h.logger.WithField("property_id", p.ID).Debug("Discarded coordinates for a replaced location")
				return
			}
			h.logger.WithError(err).WithFields(logrus.Fields{
				"property_id": p.ID,
				"location":    p.Location,
			}).Warn("Failed to geocode property")
			return
		}
		// The map feed and cached views now carry stale coordinates
		h.invalidateCatalog(ctx)
	}()
}

// UpdateCoordinates geocodes every property still missing coordinates
func (h *Handler) UpdateCoordinates(c *gin.Context) {
	if h.locator == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   apiError{Code: "geocoder_disabled", Message: "geocoding is not enabled"},
		})
		return
	}

	h.jobs.Add(1)
	go func() {
		defer h.jobs.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if _, err := h.locator.UpdateMissingCoordinates(ctx); err != nil {
			h.logger.WithError(err).Error("Failed to update coordinates")
			return
		}
		h.invalidateCatalog(ctx)
	}()

	respondMessage(c, http.StatusAccepted, nil, "Coordinates update process started")
}

type loanRequest struct {
	Price             models.Price `json:"price"`
	DownPayment       float64      `json:"down_payment"`
	TenureMonths      int          `json:"tenure_months"`
	AnnualRatePercent *float64     `json:"annual_rate_percent"`
}

type loanQuoteResponse struct {
	finance.LoanQuoteResult
	Display map[string]string `json:"display"`
}

func (h *Handler) quote(c *gin.Context, price models.Price, req loanRequest) {
	if !price.Numeric {
		metrics.LoanQuotes.WithLabelValues("rejected").Inc()
		h.fail(c, finance.ErrPriceNotNumeric, "Rejected loan quote")
		return
	}

	rate := h.config.Catalog.AnnualRatePercent
	if req.AnnualRatePercent != nil {
		rate = *req.AnnualRatePercent
	}

	result, err := finance.Quote(finance.LoanQuoteInput{
		Price:             price.Amount,
		DownPayment:       req.DownPayment,
		TenureMonths:      req.TenureMonths,
		AnnualRatePercent: rate,
	})
	if err != nil {
		metrics.LoanQuotes.WithLabelValues("rejected").Inc()
		h.fail(c, err, "Rejected loan quote")
		return
	}

	metrics.LoanQuotes.WithLabelValues("ok").Inc()
	respond(c, http.StatusOK, loanQuoteResponse{
		LoanQuoteResult: result,
		Display: map[string]string{
			"principal":       h.formatter.FormatAmount(result.Principal),
			"monthly_payment": h.formatter.FormatAmount(result.MonthlyPayment),
			"total_payable":   h.formatter.FormatAmount(result.TotalPayable),
			"total_interest":  h.formatter.FormatAmount(result.TotalInterest),
		},
	})
}

// QuoteLoan prices a loan for an arbitrary price
func (h *Handler) QuoteLoan(c *gin.Context) {
	var req loanRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid loan payload")
		return
	}
	h.quote(c, req.Price, req)
}

// QuoteProperty prices a loan for a stored property's price
func (h *Handler) QuoteProperty(c *gin.Context) {
	var req loanRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid loan payload")
		return
	}

	property, err := h.db.GetPropertyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get property")
		return
	}
	h.quote(c, property.Price, req)
}
