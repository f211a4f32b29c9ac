package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sitrus/server/internal/models"
)

const defaultAPIURL = "https://api.telegram.org"

var (
	ErrNotConfigured = errors.New("telegram is not configured")
	ErrDisabled      = errors.New("telegram notifications are disabled")
)

type Service struct {
	logger  *logrus.Logger
	client  *http.Client
	baseURL string

	mu     sync.RWMutex
	config models.TelegramConfig
}

func NewService(logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		logger:  logger,
		baseURL: defaultAPIURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the service at another Bot API host
func (s *Service) WithBaseURL(baseURL string) *Service {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	if config == nil {
		return
	}
	s.mu.Lock()
	s.config = *config
	s.mu.Unlock()
}

// Config returns a copy of the active configuration
func (s *Service) Config() models.TelegramConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Enabled reports whether notifications would currently be sent
func (s *Service) Enabled() bool {
	cfg := s.Config()
	return cfg.IsEnabled && cfg.BotToken != "" && cfg.ChatID != ""
}

// SendMessage sends a message to the configured Telegram chat. Nothing is
// sent while the integration is disabled.
func (s *Service) SendMessage(ctx context.Context, message string) error {
	cfg := s.Config()
	if !cfg.IsEnabled {
		return nil
	}
	return s.send(ctx, cfg, message)
}

// SendTestMessage sends a message even when notifications are disabled, so
// credentials can be checked before they are switched on
func (s *Service) SendTestMessage(ctx context.Context, cfg *models.TelegramConfig) error {
	message := "🔔 Test notification from Sitrus\n\nIf you see this message, your Telegram configuration is working correctly!"
	return s.send(ctx, *cfg, message)
}

func (s *Service) send(ctx context.Context, cfg models.TelegramConfig, message string) error {
	if cfg.BotToken == "" {
		return fmt.Errorf("%w: bot token is missing", ErrNotConfigured)
	}
	if cfg.ChatID == "" {
		return fmt.Errorf("%w: chat ID is missing", ErrNotConfigured)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, cfg.BotToken)
	payload := map[string]interface{}{
		"chat_id":    cfg.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyNewContact announces a contact form submission
func (s *Service) NotifyNewContact(ctx context.Context, contact *models.ContactSubmission) error {
	if !s.Config().IsEnabled {
		return nil
	}

	phone := contact.Phone
	if phone == "" {
		phone = "N/A"
	}

	message := fmt.Sprintf(
		"<b>New enquiry received!</b>\n\n"+
			"👤 %s\n"+
			"📧 %s\n"+
			"📞 %s\n"+
			"📝 <b>%s</b>\n\n"+
			"%s",
		html.EscapeString(contact.FullName()),
		html.EscapeString(contact.Email),
		html.EscapeString(phone),
		html.EscapeString(contact.Subject),
		html.EscapeString(contact.Message),
	)

	s.logger.WithField("contact_id", contact.ID).Debug("Sending contact notification")
	return s.SendMessage(ctx, message)
}
