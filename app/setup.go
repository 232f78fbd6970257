package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahilchouksey/bursary-hub/api"
	"github.com/sahilchouksey/bursary-hub/config"
	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/router"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/services/cron"
	"github.com/sahilchouksey/bursary-hub/utils/auth"
	"github.com/sahilchouksey/bursary-hub/utils/cache"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(getEnv.GO_ENV)
	if err != nil {
		return err
	}
	defer log.Sync()

	if getEnv.JWT_SECRET == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	loc, err := time.LoadLocation(getEnv.TIMEZONE)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", getEnv.TIMEZONE, err)
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv, log)
	if err != nil {
		log.Error("Check whether the Postgres is running or not", "error", err)
		return err
	}

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables", "error", err)
		return err
	}

	// Redis is optional: without it views are counted on every request and
	// the dashboard overview is recomputed each time
	var appCache services.Cache
	redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
	if err != nil {
		log.Warn("Failed to connect to Redis, caching disabled", "error", err)
	} else {
		appCache = redisCache
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.JWT_SECRET,
		Issuer: getEnv.JWT_ISSUER,
		Expiry: 24 * time.Hour,
	})

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), log)
	app := server.GetEngine()

	// Setup Routes
	svc := router.SetupRoutes(app, router.Dependencies{
		Store:      store,
		Cache:      appCache,
		JWTManager: jwtManager,
		Logger:     log,
		Config:     getEnv,
		AccessLog:  true,
	})

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.DB(), svc.Bursaries, svc.Analytics, log, loc)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warn("Failed to start cron jobs", "error", err)
			cronManager = nil
		}
	}

	// Defer Closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Error("Server shutdown failed", "error", err)
		}
	}()

	// Get the PORT & Start the Server
	return server.Run()
}
