package models

import "time"

// TelegramConfig stores the bot credentials used to notify admins about new
// contact submissions
type TelegramConfig struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	IsEnabled bool      `json:"is_enabled"`
	BotToken  string    `gorm:"size:255" json:"bot_token"`
	ChatID    string    `gorm:"size:64" json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TelegramConfigRequest is used when updating the configuration
type TelegramConfigRequest struct {
	IsEnabled bool   `json:"is_enabled"`
	BotToken  string `json:"bot_token" binding:"required"`
	ChatID    string `json:"chat_id" binding:"required"`
}

// MaskedToken hides all but the last four characters of the bot token
func (c *TelegramConfig) MaskedToken() string {
	if len(c.BotToken) <= 4 {
		return "••••"
	}
	return "••••" + c.BotToken[len(c.BotToken)-4:]
}
