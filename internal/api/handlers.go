package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sitrus/server/config"
	"sitrus/server/internal/auth"
	"sitrus/server/internal/cache"
	"sitrus/server/internal/catalog"
	"sitrus/server/internal/database"
	"sitrus/server/internal/finance"
	"sitrus/server/internal/geocoding"
	"sitrus/server/internal/models"
	"sitrus/server/internal/telegram"
)

// ContactNotifier hands new contact submissions to the background dispatcher
type ContactNotifier interface {
	Enqueue(contact *models.ContactSubmission) error
}

// Options carries the optional collaborators of a Handler
type Options struct {
	Logger    *logrus.Logger
	Cache     cache.Cache
	Telegram  *telegram.Service
	Notifier  ContactNotifier
	Locator   *geocoding.Locator
	Formatter *finance.Formatter
}

type Handler struct {
	db        *database.Database
	config    *config.Config
	logger    *logrus.Logger
	cache     cache.Cache
	formatter *finance.Formatter
	tokens    *auth.TokenService
	telegram  *telegram.Service
	notifier  ContactNotifier
	locator   *geocoding.Locator

	// Background jobs such as geocoding
	jobs sync.WaitGroup
}

func NewHandler(db *database.Database, cfg *config.Config, opts Options) (*Handler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	formatter := opts.Formatter
	if formatter == nil {
		var err error
		formatter, err = finance.NewFormatter(finance.FormatterConfig{
			Locale:       cfg.Catalog.CurrencyLocale,
			CurrencyCode: cfg.Catalog.CurrencyCode,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create currency formatter: %w", err)
		}
	}

	c := opts.Cache
	if c == nil {
		c = cache.Nop{}
	}

	telegramService := opts.Telegram
	if telegramService == nil {
		telegramService = telegram.NewService(logger)
	}

	return &Handler{
		db:        db,
		config:    cfg,
		logger:    logger,
		cache:     c,
		formatter: formatter,
		tokens:    auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		telegram:  telegramService,
		notifier:  opts.Notifier,
		locator:   opts.Locator,
	}, nil
}

// Wait blocks until background jobs started by requests have finished
func (h *Handler) Wait() {
	h.jobs.Wait()
}

// respondList serves items as a plain array, the shape the site frontend
// reads, unless the query asks for a page.
func respondList[T any](h *Handler, c *gin.Context, items []T, action string) {
	_, hasPage := c.GetQuery("page")
	_, hasSize := c.GetQuery("pageSize")
	if !hasPage && !hasSize {
		respond(c, http.StatusOK, items)
		return
	}

	page, pageSize, err := h.pageParams(c)
	if err != nil {
		h.fail(c, err, action)
		return
	}
	result, err := catalog.Paginate(items, pageSize, page)
	if err != nil {
		h.fail(c, err, action)
		return
	}
	respond(c, http.StatusOK, result)
}

// pageParams reads page and pageSize from the query string
func (h *Handler) pageParams(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, errInvalidPage
	}
	pageSize := h.config.Catalog.PageSize
	if raw, ok := c.GetQuery("pageSize"); ok {
		pageSize, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errInvalidPage
		}
	}
	return page, pageSize, nil
}

// Healthz reports whether the database and cache are reachable
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "cache": "ok"}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("Cache health check failed")
		checks["cache"] = "unavailable"
	}

	c.JSON(status, gin.H{"success": status == http.StatusOK, "data": checks})
}
