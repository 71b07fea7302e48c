package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sehyunahn/seum-backend/config"
	"github.com/sehyunahn/seum-backend/internal/app/controller"
	"github.com/sehyunahn/seum-backend/internal/app/repository"
	"github.com/sehyunahn/seum-backend/internal/app/service"
	"github.com/sehyunahn/seum-backend/internal/db"
	"github.com/sehyunahn/seum-backend/internal/middleware"
	"github.com/sehyunahn/seum-backend/internal/router"
	"github.com/sehyunahn/seum-backend/internal/scheduler"
	"github.com/sehyunahn/seum-backend/internal/websocket"
	"github.com/sehyunahn/seum-backend/pkg/logger"
	"github.com/sehyunahn/seum-backend/pkg/push/fcm"
	"github.com/sehyunahn/seum-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SEUM Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (권한 기준 데이터 시딩 포함)
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (리프레시 토큰 저장소 / 액세스 토큰 블랙리스트)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize FCM push client (서버 키가 없으면 발송 없이 기동)
	fcmClient := fcm.NewClient(fcm.Config{
		ServerKey: cfg.FCM.ServerKey,
		BaseURL:   cfg.FCM.BaseURL,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	authorityRepo := repository.NewAuthorityRepository(db.GetDB())
	noticeRepo := repository.NewNoticeRepository(db.GetDB())
	testimonyRepo := repository.NewTestimonyRepository(db.GetDB())
	eventRepo := repository.NewEventRepository(db.GetDB())
	orgRepo := repository.NewOrganizationRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Websocket hub + push dispatcher
	hub := websocket.NewHub()
	go hub.Run()

	dispatcher := service.NewPushDispatcher(fcmClient, userRepo)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Initialize services
	tokenStore := redis.NewRefreshTokenStore()
	authService := service.NewAuthService(
		userRepo,
		tokenStore,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	authorityService := service.NewAuthorityService(authorityRepo, userRepo)
	userService := service.NewUserService(userRepo, authorityRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, fcmClient, dispatcher, hub)
	noticeService := service.NewNoticeService(noticeRepo, notificationService)
	testimonyService := service.NewTestimonyService(testimonyRepo, notificationService)
	eventService := service.NewEventService(eventRepo)
	orgService := service.NewOrganizationService(orgRepo, userRepo)

	// Initialize controllers
	blacklist := redis.NewTokenBlacklist()
	authController := controller.NewAuthController(authService, blacklist, cfg.JWT.AccessTokenExpiry)
	userController := controller.NewUserController(userService)
	authorityController := controller.NewAuthorityController(authorityService)
	noticeController := controller.NewNoticeController(noticeService, authService)
	testimonyController := controller.NewTestimonyController(testimonyService, authService)
	eventController := controller.NewEventController(eventService)
	organizationController := controller.NewOrganizationController(orgService)
	notificationController := controller.NewNotificationController(notificationService)
	websocketController := controller.NewWebSocketController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist)
	authorityMiddleware := middleware.NewAuthorityMiddleware(authorityService)

	// Start retention scheduler (읽은 알림 정리)
	notificationScheduler := scheduler.NewNotificationScheduler(notificationRepo)
	if err := notificationScheduler.Start(); err != nil {
		logger.Fatal("Failed to start notification scheduler", err)
	}
	defer notificationScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		authorityController,
		noticeController,
		testimonyController,
		eventController,
		organizationController,
		notificationController,
		websocketController,
		authMiddleware,
		authorityMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
