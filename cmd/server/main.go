package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/kinetikids/motionhub/internal/api"
	"github.com/kinetikids/motionhub/internal/factory"
	"github.com/kinetikids/motionhub/internal/games"
	"github.com/kinetikids/motionhub/internal/model"
	redisstorage "github.com/kinetikids/motionhub/internal/storage/redis"
)

// envConfig is the server configuration read from the environment
type envConfig struct {
	Host         string     `env:"HOST" envDefault:""`
	Port         int        `env:"PORT" envDefault:"8080"`
	StorageType  string     `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL     string     `env:"REDIS_URL"`
	EstimatorURL string     `env:"ESTIMATOR_URL"`
	LogLevel     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

func main() {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		slog.Error("parsing environment", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: envCfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:       logger,
		StorageType:  envCfg.StorageType,
		EstimatorURL: envCfg.EstimatorURL,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if envCfg.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = envCfg.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	seedCatalog(app)

	// Start the event fan-out
	go app.EventHub.Run()
	defer app.EventHub.Close()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		AuthService:       app.AuthService,
		ProfileStore:      app.ProfileStore,
		CatalogService:    app.CatalogService,
		SessionController: app.SessionController,
		AdminService:      app.AdminService,
		Storage:           app.Storage,
		EventHub:          app.EventHub,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = envCfg.Host
	serverConfig.Port = envCfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		app.CameraResource.Release()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// seedCatalog registers the built-in game lineup. Entries registered here are
// what new player profiles get access to per the profile bootstrap defaults.
func seedCatalog(app *factory.App) {
	app.CatalogService.Register("dance", "Dance Along", "icons/dance.png", games.NewPoseStub(), model.EntryOptions{
		Camera: model.CameraFront,
		Phases: []model.Phase{
			{ID: "arcade", Name: "Arcade", RequiredLevel: 1},
			{ID: "groove", Name: "Groove", Description: "Faster routines", RequiredLevel: 3},
			{ID: "marathon", Name: "Marathon", Description: "Full-length songs", RequiredLevel: 5},
		},
	})
	app.CatalogService.Register("stretch", "Stretch Coach", "icons/stretch.png", games.NewPoseStub(), model.EntryOptions{
		Camera: model.CameraFront,
	})
	app.CatalogService.Register("explore", "World Explorer", "icons/explore.png", games.NewPassthroughStub(), model.EntryOptions{
		Camera:      model.CameraRear,
		Passthrough: true,
		Phases: []model.Phase{
			{ID: "arcade", Name: "Arcade", RequiredLevel: 1},
			{ID: "safari", Name: "Safari", Description: "Spot and tag animals", RequiredLevel: 2},
		},
	})
}
