package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/database"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/imageprocessor"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/notifier"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/routes"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/storage"
	"jobboard_backend/internal/validator"
	"jobboard_backend/internal/workers"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/ws"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// App - собранное приложение: роутер и фоновые компоненты
type App struct {
	Router     *gin.Engine
	Hub        *ws.Hub
	Dispatcher *email.Dispatcher // nil, если email выключен
	Cleanup    *workers.NotificationCleanupWorker
	Services   *services.ServiceContainer
	Tokens     *auth.TokenManager
}

func Run() {
	if err := run(); err != nil {
		logger.Fatal("Application stopped with error", "error", err)
	}
	logger.Info("Application stopped")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.AppConfig = cfg

	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(ctx, database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Debug:        cfg.IsDevelopment(),
	})
	if err != nil {
		return err
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}

	if err := seedFirstAdmin(ctx, db, cfg); err != nil {
		// Если не удалось создать админа - не запускаем сервер
		return fmt.Errorf("seed first admin: %w", err)
	}

	store, err := storage.NewStorage(ctx, StorageConfig(cfg))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	application, err := New(cfg, db, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	application.Start(gctx, g)

	g.Go(func() error {
		logger.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// New собирает зависимости приложения поверх открытой БД и хранилища
func New(cfg *config.Config, db *gorm.DB, store storage.Storage) (*App, error) {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	hub := ws.NewHub()

	userRepo := repositories.NewUserRepository()
	notificationRepo := repositories.NewNotificationRepository()

	sink := notifier.Fanout{
		notifier.NewStoreSink(notificationRepo),
		notifier.NewPushSink(hub),
	}

	var dispatcher *email.Dispatcher
	if cfg.Email.Enabled {
		sender, err := email.NewSMTPSender(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			return nil, fmt.Errorf("init email sender: %w", err)
		}
		dispatcher = email.NewDispatcher(sender, cfg.Email.QueueSize)
		sink = append(sink, notifier.NewEmailSink(userRepo, dispatcher, email.NewTemplateManager(), cfg.Email.FromName, cfg.Server.ClientURL))
		logger.Info("Email notifications enabled", "smtp_host", cfg.Email.SMTPHost)
	}

	svc := services.NewServiceContainer(tokens, store, sink)

	base := handlers.NewBaseHandler(validator.New(), tokens)
	appHandlers := handlers.NewAppHandlers(base, svc, documentPolicy(cfg))
	wsHandler := ws.NewHandler(hub, cfg.Server.ClientURL)

	router := SetupRouter(cfg, db)
	routes.RegisterRoutes(router, appHandlers, base, wsHandler)

	return &App{
		Router:     router,
		Hub:        hub,
		Dispatcher: dispatcher,
		Cleanup: workers.NewNotificationCleanupWorker(
			db,
			notificationRepo,
			time.Duration(cfg.Notifications.RetentionDays)*24*time.Hour,
			time.Duration(cfg.Notifications.CleanupInterval)*time.Minute,
		),
		Services: svc,
		Tokens:   tokens,
	}, nil
}

// Start запускает фоновые компоненты в группе g; все они завершаются по ctx
func (a *App) Start(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		a.Hub.Run(ctx)
		return nil
	})
	if a.Dispatcher != nil {
		a.Dispatcher.Start(ctx)
		g.Go(func() error {
			a.Dispatcher.Wait()
			return nil
		})
	}
	g.Go(func() error {
		a.Cleanup.Run(ctx)
		return nil
	})
}

func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.ClientURL))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func documentPolicy(cfg *config.Config) handlers.DocumentPolicy {
	policy := handlers.DefaultDocumentPolicy()
	if cfg.Upload.MaxSize > 0 {
		policy.MaxSize = cfg.Upload.MaxSize
	}
	if len(cfg.Upload.AllowedTypes) > 0 {
		policy.AllowedTypes = cfg.Upload.AllowedTypes
	}
	policy.Images = imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.ImageMaxDimension)
	return policy
}

func StorageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	}
}

// seedFirstAdmin создает первого администратора из конфигурации, если его еще нет
func seedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	return repositories.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		_, err := userRepo.FindByEmail(tx, adminEmail)
		if err == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
			return nil
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}

		logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			Name:         "Administrator",
			Email:        adminEmail,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
		}
		if err := userRepo.Create(tx, admin); err != nil {
			return fmt.Errorf("failed to create admin user in database: %w", err)
		}

		logger.Info("Successfully created first admin user", "email", adminEmail)
		return nil
	})
}
