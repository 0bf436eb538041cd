package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/musicverse/musicverse-backend-go/internal/config"
	appHTTP "github.com/musicverse/musicverse-backend-go/internal/handler/http"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/cron"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/database"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/eventbus"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/jwt"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/push"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/sse"
	"github.com/musicverse/musicverse-backend-go/internal/pkg/storage"
	"github.com/musicverse/musicverse-backend-go/internal/repository/postgresql"
	authService "github.com/musicverse/musicverse-backend-go/internal/service/auth"
	catalogService "github.com/musicverse/musicverse-backend-go/internal/service/catalog"
	deviceService "github.com/musicverse/musicverse-backend-go/internal/service/device"
	"github.com/musicverse/musicverse-backend-go/internal/service/file"
	notificationService "github.com/musicverse/musicverse-backend-go/internal/service/notification"
	userService "github.com/musicverse/musicverse-backend-go/internal/service/user"
)

// app holds the process-wide dependencies shared by the commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *database.DB
	bus    *eventbus.Bus
	hub    *sse.Hub

	notifications *notificationService.Service

	router    http.Handler
	scheduler *cron.Scheduler
}

func connect(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Type {
	case "local":
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "cloudinary":
		cld, err := storage.NewCloudinaryStorage(storage.CloudinaryConfig{
			URL:       cfg.Cloudinary.URL,
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			Folder:    cfg.Cloudinary.Folder,
		})
		if err != nil {
			return nil, err
		}
		return cld, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		db.Close()
		return nil, err
	}

	fileStorage, err := newFileStorage(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	gateway, err := push.NewGateway(ctx, push.Config{
		Provider: cfg.Push.Provider,
		FCM: push.FCMConfig{
			ProjectID:       cfg.Push.FCMProjectID,
			CredentialsFile: cfg.Push.FCMCredentialsFile,
			CredentialsJSON: cfg.Push.FCMCredentialsJSON,
		},
		ExpoURL:       cfg.Push.ExpoURL,
		ExpoToken:     cfg.Push.ExpoAccessToken,
		ExpoChannelID: cfg.Push.ExpoChannelID,
	}, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize push gateway: %w", err)
	}

	tx := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	followRepo := postgresql.NewFollowRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	trackRepo := postgresql.NewTrackRepository(db)
	albumRepo := postgresql.NewAlbumRepository(db)
	playlistRepo := postgresql.NewPlaylistRepository(db)
	directory := postgresql.NewDirectory(db)

	bus := eventbus.New(logger)
	hub := sse.NewHub(cfg.Notification.SubscriberBuffer)

	notifSvc := notificationService.NewNotificationService(
		notificationRepo,
		directory,
		deviceRepo,
		gateway,
		hub,
		notificationService.Config{
			OperatorTokens:   cfg.Notification.OperatorTokens,
			SubscriberBuffer: cfg.Notification.SubscriberBuffer,
		},
		logger,
	)
	notifSvc.RegisterHandlers(bus)

	fileSvc := file.NewFileService(fileStorage)
	authSvc := authService.NewAuthService(userRepo, jwtService)
	userSvc := userService.NewUserService(tx, userRepo, followRepo, fileSvc, bus)
	deviceSvc := deviceService.NewDeviceService(tx, deviceRepo)
	trackSvc := catalogService.NewTrackService(tx, trackRepo, albumRepo, userRepo, fileSvc, bus)
	albumSvc := catalogService.NewAlbumService(tx, albumRepo, userRepo, fileSvc, bus)
	playlistSvc := catalogService.NewPlaylistService(tx, playlistRepo, fileSvc, bus)

	routerCfg := appHTTP.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         appHTTP.NewRequestLogger(os.Stdout, cfg.App.Name, cfg.App.Version, cfg.App.Env),
	}
	if cfg.Storage.Type == "local" {
		routerCfg.UploadsDir = cfg.Storage.BasePath
	}

	router := appHTTP.NewRouter(routerCfg, jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		Device:       appHTTP.NewDeviceHandler(deviceSvc),
		Catalog:      appHTTP.NewCatalogHandler(trackSvc, albumSvc, playlistSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, jwtService, cfg.CORS.AllowedOrigins),
		Admin:        appHTTP.NewAdminHandler(notifSvc, trackSvc),
	})

	scheduler := cron.NewScheduler(logger)
	cron.NewDeviceJobs(deviceSvc, cfg.Notification.DeviceStaleAfter, logger).RegisterJobs(scheduler)

	return &app{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		bus:           bus,
		hub:           hub,
		notifications: notifSvc,
		router:        router,
		scheduler:     scheduler,
	}, nil
}

// Close drains in-flight event dispatches, disconnects realtime clients and
// closes the pool.
func (a *app) Close() {
	a.bus.Wait()
	a.hub.Close()
	a.db.Close()
}
