package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sitrus/server/internal/auth"
	"sitrus/server/internal/database"
	"sitrus/server/internal/models"
)

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid login payload")
		return
	}

	admin, err := h.db.GetAdminByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, database.ErrNotFound) {
		h.fail(c, errInvalidCredentials, "Login with unknown email")
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to get admin")
		return
	}

	if !auth.CheckPasswordHash(req.Password, admin.PasswordHash) {
		h.fail(c, errInvalidCredentials, "Login with wrong password")
		return
	}

	token, err := h.tokens.Issue(admin.ID)
	if err != nil {
		h.fail(c, err, "Failed to issue token")
		return
	}

	h.logger.WithField("admin_id", admin.ID).Info("Admin logged in")
	respondMessage(c, http.StatusOK, models.LoginResponse{Token: token, Admin: admin}, "Login successful")
}

// Me returns the admin the request's token belongs to
func (h *Handler) Me(c *gin.Context) {
	admin, err := h.db.GetAdminByID(c.Request.Context(), c.GetString(adminIDKey))
	if err != nil {
		h.fail(c, err, "Failed to get admin")
		return
	}
	respond(c, http.StatusOK, admin)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.db.GetStats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get stats")
		return
	}
	respond(c, http.StatusOK, stats)
}

// GetTelegramConfig returns the current Telegram configuration
func (h *Handler) GetTelegramConfig(c *gin.Context) {
	config, err := h.db.GetTelegramConfig(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get Telegram config")
		return
	}

	// Don't send the full bot token back to the client
	if config.BotToken != "" {
		config.BotToken = config.MaskedToken()
	}
	respond(c, http.StatusOK, config)
}

// UpdateTelegramConfig validates and stores the Telegram configuration.
// Enabling it sends a test message first so broken credentials are never
// saved as active.
func (h *Handler) UpdateTelegramConfig(c *gin.Context) {
	var req models.TelegramConfigRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid Telegram config payload")
		return
	}

	req.BotToken = strings.TrimSpace(req.BotToken)
	req.ChatID = strings.TrimSpace(req.ChatID)
	if len(req.BotToken) < 20 || !strings.Contains(req.BotToken, ":") {
		h.fail(c, errInvalidBotToken, "Invalid bot token format")
		return
	}

	ctx := c.Request.Context()
	config, err := h.db.GetTelegramConfig(ctx)
	if err != nil {
		h.fail(c, err, "Failed to get Telegram config")
		return
	}
	config.IsEnabled = req.IsEnabled
	config.BotToken = req.BotToken
	config.ChatID = req.ChatID

	if config.IsEnabled {
		if err := h.telegram.SendTestMessage(ctx, config); err != nil {
			h.logger.WithError(err).Warn("Failed to send test message")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   apiError{Code: "telegram_test_failed", Message: err.Error()},
			})
			return
		}
	}

	if err := h.db.UpdateTelegramConfig(ctx, config); err != nil {
		h.fail(c, err, "Failed to update Telegram config")
		return
	}
	h.telegram.UpdateConfig(config)

	masked := *config
	masked.BotToken = config.MaskedToken()
	respondMessage(c, http.StatusOK, masked, "Telegram configuration updated successfully")
}

// TestTelegramConfig sends a test message with the stored configuration
func (h *Handler) TestTelegramConfig(c *gin.Context) {
	ctx := c.Request.Context()
	config, err := h.db.GetTelegramConfig(ctx)
	if err != nil {
		h.fail(c, err, "Failed to get Telegram config")
		return
	}

	if !config.IsEnabled {
		h.fail(c, errTelegramDisabled, "Telegram test on disabled config")
		return
	}

	if err := h.telegram.SendTestMessage(ctx, config); err != nil {
		h.logger.WithError(err).Warn("Failed to send test notification")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   apiError{Code: "telegram_test_failed", Message: err.Error()},
		})
		return
	}

	respondMessage(c, http.StatusOK, nil, "Test notification sent successfully")
}
