package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/kinetikids/motionhub/internal/dependencies/clock"
	"github.com/kinetikids/motionhub/internal/dependencies/random"
	"github.com/kinetikids/motionhub/internal/events"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/pose"
	"github.com/kinetikids/motionhub/internal/services/admin"
	"github.com/kinetikids/motionhub/internal/services/auth"
	"github.com/kinetikids/motionhub/internal/services/camera"
	"github.com/kinetikids/motionhub/internal/services/catalog"
	"github.com/kinetikids/motionhub/internal/services/profile"
	"github.com/kinetikids/motionhub/internal/services/reward"
	"github.com/kinetikids/motionhub/internal/services/session"
	"github.com/kinetikids/motionhub/internal/storage"
	"github.com/kinetikids/motionhub/internal/storage/memory"
	redisstorage "github.com/kinetikids/motionhub/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RewardService     *reward.Service
	CatalogService    *catalog.Service
	CameraResource    *camera.Resource
	ProfileStore      *profile.Store
	AuthService       *auth.Service
	AdminService      *admin.Service
	SessionController *session.Controller
	EventHub          *events.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// ProfileConfig holds configuration for the profile store (optional)
	ProfileConfig profile.Config
	// SessionConfig holds configuration for the session controller (optional)
	SessionConfig session.Config
	// CameraDevice is the capture backend (optional)
	// If nil, a simulated device is used
	CameraDevice camera.Device
	// EstimatorURL points at the external pose estimation service (optional)
	// If empty, a no-detection estimator is used
	EstimatorURL string
	// EstimatorTimeout bounds one estimation request (optional)
	EstimatorTimeout time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	device := cfg.CameraDevice
	if device == nil {
		device = camera.NewSimDevice()
	}

	var estimator pose.Estimator = pose.Nop{}
	if cfg.EstimatorURL != "" {
		estimator = pose.NewRemote(cfg.EstimatorURL, cfg.EstimatorTimeout)
	}

	return newWithDependencies(store, clk, rnd, device, estimator, cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	device camera.Device,
	estimator pose.Estimator,
	cfg Config,
	logger *slog.Logger,
) *App {
	// Create services
	rewardService := reward.New()
	catalogService := catalog.New(logger)
	cameraResource := camera.New(device, logger)
	profileStore := profile.New(store, catalogService, clk, cfg.ProfileConfig, logger)
	authService := auth.New(store, profileStore, clk, rnd, cfg.AuthConfig, logger)
	adminService := admin.New(store, logger)
	eventHub := events.NewHub(logger)

	sessionCfg := cfg.SessionConfig
	if sessionCfg.Emitter == nil {
		sessionCfg.Emitter = eventHub.Publish
	}
	sessionController := session.NewController(
		catalogService,
		cameraResource,
		estimator,
		profileStore,
		rewardService,
		clk,
		sessionCfg,
		logger,
	)

	// Forward profile and catalog changes to connected front-ends
	profileStore.Subscribe(func(p *model.Profile) {
		eventHub.Publish(model.Event{
			Type:      model.EventProfileUpdated,
			Timestamp: clk.Now(),
			Payload: model.ProfileUpdatedPayload{
				UserID: p.ID,
				Level:  p.Level,
				XP:     p.XP,
				Coins:  p.Coins,
			},
		})
	})
	catalogService.OnChange(func() {
		eventHub.Publish(model.Event{
			Type:      model.EventCatalogUpdated,
			Timestamp: clk.Now(),
		})
	})

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		RewardService:     rewardService,
		CatalogService:    catalogService,
		CameraResource:    cameraResource,
		ProfileStore:      profileStore,
		AuthService:       authService,
		AdminService:      adminService,
		SessionController: sessionController,
		EventHub:          eventHub,
	}
}
