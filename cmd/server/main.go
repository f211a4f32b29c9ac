package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"sitrus/server/config"
	"sitrus/server/internal/api"
	"sitrus/server/internal/auth"
	"sitrus/server/internal/cache"
	"sitrus/server/internal/database"
	"sitrus/server/internal/geocoding"
	"sitrus/server/internal/notify"
	"sitrus/server/internal/queue"
	"sitrus/server/internal/scheduler"
	"sitrus/server/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	if cfg.Auth.AdminPassword != "" {
		hash, err := auth.HashPassword(cfg.Auth.AdminPassword)
		if err != nil {
			logger.WithError(err).Fatal("Failed to hash admin password")
		}
		if _, err := db.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminName, hash); err != nil {
			logger.WithError(err).Fatal("Failed to seed admin")
		}
	}

	catalogCache := newCache(ctx, cfg, logger)
	defer catalogCache.Close()

	// Telegram settings live in the database so admins can change them at runtime
	telegramService := telegram.NewService(logger)
	if tgConfig, err := db.GetTelegramConfig(ctx); err != nil {
		logger.WithError(err).Error("Failed to load telegram config")
	} else {
		telegramService.UpdateConfig(tgConfig)
	}

	contactQueue := queue.NewContactQueue(cfg.Notifications.QueueSize, logger)
	dispatcher := notify.NewDispatcher(contactQueue, telegramService, cfg, logger)
	dispatcher.Start()

	var locator *geocoding.Locator
	var sweeper *scheduler.Scheduler
	if cfg.Geocoder.Enabled {
		cacheDir := cfg.Geocoder.CacheDir
		if cacheDir == "" {
			cacheDir = filepath.Join(os.TempDir(), "sitrus", "geocode_cache")
		}
		locator = geocoding.NewLocator(geocoding.NewGeocoder(logger, cacheDir), db, logger)

		// Geocode properties saved while the geocoder was off or Nominatim was down
		sweeper, err = scheduler.NewScheduler(cfg.Geocoder.SweepSchedule, logger, scheduler.Job{
			Name: "geocode_missing",
			Run: func(ctx context.Context) error {
				_, err := locator.UpdateMissingCoordinates(ctx)
				return err
			},
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to create geocoding schedule")
		}
		sweeper.Start()
	}

	handler, err := api.NewHandler(db, cfg, api.Options{
		Logger:   logger,
		Cache:    catalogCache,
		Telegram: telegramService,
		Notifier: dispatcher,
		Locator:  locator,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize handler")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down server")
	}
	handler.Wait()
	if sweeper != nil {
		sweeper.Stop()
	}
	dispatcher.Stop(shutdownCtx)

	logger.Info("Server stopped")
}

// newCache connects to Redis when configured and falls back to no caching
func newCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) cache.Cache {
	if cfg.Cache.RedisAddr == "" {
		return cache.Nop{}
	}

	redisCache := cache.NewRedis(cache.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		TTL:      cfg.Cache.CatalogTTL,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.WithError(err).Warn("Redis unavailable, catalog caching disabled")
		redisCache.Close()
		return cache.Nop{}
	}
	return redisCache
}
