package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitrus/server/internal/models"
)

type botAPI struct {
	mu       sync.Mutex
	paths    []string
	payloads []map[string]interface{}
	status   int
}

func (b *botAPI) handler(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.payloads = append(b.payloads, payload)
	status := b.status
	b.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func setupService(t *testing.T, api *botAPI) *Service {
	server := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(server.Close)
	return NewService(logrus.New()).WithBaseURL(server.URL)
}

func TestNotifyNewContact(t *testing.T) {
	api := &botAPI{}
	svc := setupService(t, api)
	svc.UpdateConfig(&models.TelegramConfig{IsEnabled: true, BotToken: "123:abc", ChatID: "42"})

	contact := &models.ContactSubmission{
		ID:        "c1",
		FirstName: "Asha",
		LastName:  "Kumar",
		Email:     "asha@example.com",
		Subject:   "Site visit <today>",
		Message:   "Can I visit?",
	}
	require.NoError(t, svc.NotifyNewContact(context.Background(), contact))

	require.Len(t, api.payloads, 1)
	assert.Equal(t, "/bot123:abc/sendMessage", api.paths[0])
	assert.Equal(t, "42", api.payloads[0]["chat_id"])
	assert.Equal(t, "HTML", api.payloads[0]["parse_mode"])

	text := api.payloads[0]["text"].(string)
	assert.Contains(t, text, "Asha Kumar")
	assert.Contains(t, text, "Site visit &lt;today&gt;")
	assert.Contains(t, text, "N/A")
}

func TestNotifyNewContact_Disabled(t *testing.T) {
	api := &botAPI{}
	svc := setupService(t, api)
	svc.UpdateConfig(&models.TelegramConfig{IsEnabled: false, BotToken: "123:abc", ChatID: "42"})

	require.NoError(t, svc.NotifyNewContact(context.Background(), &models.ContactSubmission{}))
	assert.Empty(t, api.payloads)
	assert.False(t, svc.Enabled())
}

func TestSendMessage_Errors(t *testing.T) {
	t.Run("Missing token", func(t *testing.T) {
		svc := NewService(nil)
		svc.UpdateConfig(&models.TelegramConfig{IsEnabled: true, ChatID: "42"})
		err := svc.SendMessage(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		api := &botAPI{status: http.StatusUnauthorized}
		svc := setupService(t, api)
		svc.UpdateConfig(&models.TelegramConfig{IsEnabled: true, BotToken: "bad", ChatID: "42"})
		err := svc.SendMessage(context.Background(), "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid bot token")
	})

	t.Run("Server error", func(t *testing.T) {
		api := &botAPI{status: http.StatusBadGateway}
		svc := setupService(t, api)
		svc.UpdateConfig(&models.TelegramConfig{IsEnabled: true, BotToken: "t", ChatID: "42"})
		err := svc.SendMessage(context.Background(), "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	})
}

func TestSendTestMessage_IgnoresEnabledFlag(t *testing.T) {
	api := &botAPI{}
	svc := setupService(t, api)

	cfg := &models.TelegramConfig{IsEnabled: false, BotToken: "123:abc", ChatID: "42"}
	require.NoError(t, svc.SendTestMessage(context.Background(), cfg))
	assert.Len(t, api.payloads, 1)
}
