package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"4000"`

		// Comma separated list of origins allowed to call the API
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`

		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/sitrus.db"`
	}

	Auth struct {
		JWTSecret string        `env:"JWT_SECRET,required"`
		TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`

		// Seed admin, created on startup when no admin with this email exists
		AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@sitrusgroup.com"`
		AdminPassword string `env:"ADMIN_PASSWORD"`
		AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	}

	Catalog struct {
		// Default page size for admin and team lists
		PageSize int `env:"PAGE_SIZE" envDefault:"20"`

		CurrencyCode   string `env:"CURRENCY_CODE" envDefault:"INR"`
		CurrencyLocale string `env:"CURRENCY_LOCALE" envDefault:"en-IN"`

		// Annual interest rate (percent) used by the EMI calculator when the
		// request does not carry one
		AnnualRatePercent float64 `env:"EMI_ANNUAL_RATE" envDefault:"9.0"`
	}

	Cache struct {
		RedisAddr     string        `env:"REDIS_ADDR"`
		RedisPassword string        `env:"REDIS_PASSWORD"`
		RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
		CatalogTTL    time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	}

	Geocoder struct {
		Enabled  bool   `env:"GEOCODER_ENABLED" envDefault:"false"`
		CacheDir string `env:"GEOCODER_CACHE_DIR"`

		// Cron schedule for retrying properties without coordinates, empty runs once at startup
		SweepSchedule string `env:"GEOCODER_SWEEP_SCHEDULE" envDefault:"@every 6h"`
	}

	Notifications struct {
		// Buffered contact submissions waiting for delivery
		QueueSize int `env:"NOTIFY_QUEUE_SIZE" envDefault:"100"`

		// Maximum number of retries for a failed delivery
		MaxRetries int `env:"NOTIFY_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"NOTIFY_RETRY_DELAY" envDefault:"5"`
	}
}

// Placeholder secrets from sample env files
var weakSecrets = map[string]struct{}{
	"change-me": {},
	"changeme":  {},
	"secret":    {},
}

// LoadConfig reads an optional .env file and then parses the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	// A missing .env file is not an error, the process environment still applies
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.AnnualRatePercent < 0 {
		return fmt.Errorf("EMI_ANNUAL_RATE must not be negative, got %v", c.Catalog.AnnualRatePercent)
	}
	secret := strings.TrimSpace(c.Auth.JWTSecret)
	if secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if _, weak := weakSecrets[strings.ToLower(secret)]; weak {
		return fmt.Errorf("JWT_SECRET must be changed from the placeholder value")
	}
	if c.Notifications.QueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1, got %d", c.Notifications.QueueSize)
	}
	if c.Notifications.MaxRetries < 0 {
		return fmt.Errorf("NOTIFY_MAX_RETRIES must not be negative, got %d", c.Notifications.MaxRetries)
	}
	if c.Notifications.RetryDelay < 0 {
		return fmt.Errorf("NOTIFY_RETRY_DELAY must not be negative, got %d", c.Notifications.RetryDelay)
	}
	return nil
}
