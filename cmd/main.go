package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/poker-dream-api/config"
	"github.com/Dosada05/poker-dream-api/db"
	_ "github.com/Dosada05/poker-dream-api/docs"
	"github.com/Dosada05/poker-dream-api/handlers"
	"github.com/Dosada05/poker-dream-api/live"
	"github.com/Dosada05/poker-dream-api/repositories"
	api "github.com/Dosada05/poker-dream-api/routes"
	"github.com/Dosada05/poker-dream-api/services"
	"github.com/Dosada05/poker-dream-api/storage"
	"github.com/Dosada05/poker-dream-api/utils"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

// @title       Poker Dream API
// @version     1.0
// @BasePath    /api
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("env", cfg.AppEnv))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, dbConn); err != nil {
			logger.Error("failed to apply database schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database schema applied")
	}

	// Хранилище изображений: R2 если настроен, иначе локальный диск.
	var uploader storage.FileUploader
	uploadDir := ""
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		uploader, err = storage.NewLocalDiskUploader(cfg.UploadDir, "/uploads/")
		if err != nil {
			logger.Error("failed to initialize local uploader", slog.Any("error", err))
			os.Exit(1)
		}
		uploadDir = cfg.UploadDir
		logger.Info("local disk uploader initialized", slog.String("dir", cfg.UploadDir))
	}

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run(ctx)

	tokens := utils.NewTokenManager(cfg.JWTSecretKey, cfg.JWTRefreshSecretKey, cfg.JWTExpiresIn, cfg.JWTRefreshExpiresIn)

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)
	videoRepo := repositories.NewPostgresVideoRepository(dbConn)
	sponsorRepo := repositories.NewPostgresSponsorRepository(dbConn)
	galleryRepo := repositories.NewPostgresGalleryRepository(dbConn)
	newsletterRepo := repositories.NewPostgresNewsletterRepository(dbConn)
	contactRepo := repositories.NewPostgresContactRepository(dbConn)

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, standingRepo, videoRepo, logger)
	playerService := services.NewPlayerService(playerRepo, standingRepo)
	standingService := services.NewStandingService(dbConn, standingRepo, tournamentRepo, playerRepo, hub, logger)
	newsService := services.NewNewsService(newsRepo)
	videoService := services.NewVideoService(videoRepo, tournamentRepo)
	sponsorService := services.NewSponsorService(dbConn, sponsorRepo, logger)
	galleryService := services.NewGalleryService(dbConn, galleryRepo, logger)
	newsletterService := services.NewNewsletterService(newsletterRepo)
	contactService := services.NewContactService(contactRepo)
	authService := services.NewAuthService(userRepo, tokens)
	adminUserService := services.NewAdminUserService(userRepo)
	uploadService := services.NewUploadService(uploader)
	dashboardService := services.NewDashboardService(
		tournamentService,
		playerRepo,
		newsRepo,
		videoRepo,
		newsletterRepo,
		contactRepo,
		userRepo,
	)

	// Инициализация обработчиков HTTP
	resp := handlers.NewResponder(logger, cfg.IsDevelopment())
	h := api.Handlers{
		Health:     handlers.NewHealthHandler(resp, dbConn),
		Auth:       handlers.NewAuthHandler(resp, authService),
		Users:      handlers.NewAdminUserHandler(resp, adminUserService),
		Dashboard:  handlers.NewDashboardHandler(resp, dashboardService),
		Tournament: handlers.NewTournamentHandler(resp, tournamentService),
		Player:     handlers.NewPlayerHandler(resp, playerService),
		Standing:   handlers.NewStandingHandler(resp, standingService),
		News:       handlers.NewNewsHandler(resp, newsService),
		Video:      handlers.NewVideoHandler(resp, videoService),
		Sponsor:    handlers.NewSponsorHandler(resp, sponsorService),
		Gallery:    handlers.NewGalleryHandler(resp, galleryService),
		Newsletter: handlers.NewNewsletterHandler(resp, newsletterService),
		Contact:    handlers.NewContactHandler(resp, contactService),
		Upload:     handlers.NewUploadHandler(resp, uploadService),
		WebSocket:  handlers.NewWebSocketHandler(resp, hub, standingService, cfg.AllowedOrigins),
	}

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, tokens, api.Options{AllowedOrigins: cfg.AllowedOrigins, UploadDir: uploadDir})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		// Websocket-соединения Shutdown не закрывает, их закрывает hub.
		stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
