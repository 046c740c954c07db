package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eduportal-backend/internal/config"
	"eduportal-backend/internal/database"
	adminHandler "eduportal-backend/internal/handler/http/admin"
	chatHandler "eduportal-backend/internal/handler/http/chat"
	pushHandler "eduportal-backend/internal/handler/http/push"
	storageHandler "eduportal-backend/internal/handler/http/storage"
	wsHandler "eduportal-backend/internal/handler/ws"
	"eduportal-backend/internal/identity"
	"eduportal-backend/internal/middleware"
	firestoreRepo "eduportal-backend/internal/repository/firestore"
	postgresRepo "eduportal-backend/internal/repository/postgres"
	redisRepo "eduportal-backend/internal/repository/redis"
	adminService "eduportal-backend/internal/service/admin"
	chatService "eduportal-backend/internal/service/chat"
	notifyService "eduportal-backend/internal/service/notify"
	storageService "eduportal-backend/internal/service/storage"
	"eduportal-backend/pkg/jwt"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/metrics"
	"eduportal-backend/pkg/push"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitDefault()
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Data stores
	firestoreDB, err := database.NewFirestoreDB(ctx, &cfg.Firestore)
	if err != nil {
		logger.Fatal("Failed to connect to Firestore", zap.Error(err))
	}
	defer firestoreDB.Close()
	logger.Info("Connected to Firestore", zap.String("project_id", cfg.Firestore.ProjectID))

	postgresDB, err := database.NewPostgresDB(ctx, &cfg.Postgres)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer postgresDB.Close()
	logger.Info("Connected to Postgres", zap.String("database", cfg.Postgres.Database))

	redisDB, err := database.NewRedisDB(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisDB.Close()
	logger.Info("Connected to Redis", zap.String("host", cfg.Redis.Host))

	minioClient, err := storageService.NewMinIOClient(&storageService.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		UseSSL:    cfg.MinIOUseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to create MinIO client", zap.Error(err))
	}

	// Repositories
	conversationRepo := firestoreRepo.NewConversationRepository(firestoreDB.Client)
	messageRepo := firestoreRepo.NewMessageRepository(firestoreDB.Client)
	vendorRepo := postgresRepo.NewVendorRepository(postgresDB.Pool)
	invoiceRepo := postgresRepo.NewInvoiceRepository(postgresDB.Pool)
	amenityRepo := postgresRepo.NewAmenityRepository(postgresDB.Pool)
	studentRepo := postgresRepo.NewStudentRepository(postgresDB.Pool)
	profileRepo := redisRepo.NewProfileRepository(redisDB.Client)
	pushTokenRepo := redisRepo.NewPushTokenRepository(redisDB.Client)
	presenceRepo := redisRepo.NewPresenceRepository(redisDB.Client)

	// Services
	pushProvider, err := push.NewProvider()
	if err != nil {
		logger.Fatal("Failed to initialize push provider", zap.Error(err))
	}
	pushSvc := push.NewService(pushProvider, pushTokenRepo)
	pushDispatcher := notifyService.NewPushDispatcher(pushSvc, presenceRepo)

	identitySvc := identity.NewService(profileRepo)
	chatSvc := chatService.NewService(conversationRepo, messageRepo, identitySvc, pushDispatcher)
	adminSvc := adminService.NewService(vendorRepo, invoiceRepo, amenityRepo, studentRepo)

	storageSvc, err := storageService.NewService(ctx, minioClient, cfg.MinIOBucket)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	jwtManager := jwt.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenExpiry)
	appMetrics := metrics.NewMetrics("portal-service")

	// Handlers
	chatHdlr := chatHandler.NewHandler(chatSvc)
	adminHdlr := adminHandler.NewHandler(adminSvc)
	storageHdlr := storageHandler.NewHandler(storageSvc, chatSvc)
	pushHdlr := pushHandler.NewHandler(pushSvc)
	sessionHdlr := wsHandler.NewSessionHandler(chatSvc, presenceRepo)

	router := gin.New()
	router.SetTrustedProxies(nil)

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.PrometheusMiddleware(appMetrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "portal-service",
			"time":    time.Now().UTC(),
		})
	})
	router.GET("/metrics", middleware.MetricsHandler(appMetrics))

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(jwtManager, identitySvc))
	{
		// Conversations and messages
		v1.POST("/conversations", chatHdlr.CreateConversation)
		v1.POST("/conversations/direct", chatHdlr.CreateDMConversation)
		v1.POST("/conversations/group", chatHdlr.CreateGroupConversation)
		v1.GET("/conversations", chatHdlr.GetConversations)
		v1.GET("/conversations/:id/messages", chatHdlr.GetMessages)
		v1.POST("/conversations/:id/read", chatHdlr.MarkMessagesAsRead)
		v1.POST("/conversations/:id/leave", chatHdlr.LeaveConversation)
		v1.DELETE("/conversations/:id", chatHdlr.DeactivateConversation)
		v1.POST("/messages", chatHdlr.SendMessage)

		// Attachments
		v1.POST("/attachments/upload-url", storageHdlr.GenerateUploadURL)
		v1.GET("/attachments/download-url", storageHdlr.GenerateDownloadURL)

		// Push tokens
		v1.POST("/push/tokens", pushHdlr.RegisterToken)
		v1.DELETE("/push/tokens", pushHdlr.UnregisterToken)

		// Live session (messages + notification banners)
		v1.GET("/ws", sessionHdlr.ServeWS)

		// Admin portal
		adminGroup := v1.Group("")
		adminGroup.Use(middleware.RequireUserType("admin", "staff"))
		{
			adminGroup.POST("/vendors", adminHdlr.CreateVendor)
			adminGroup.GET("/vendors", adminHdlr.ListVendors)
			adminGroup.GET("/vendors/:id", adminHdlr.GetVendor)
			adminGroup.PUT("/vendors/:id", adminHdlr.UpdateVendor)
			adminGroup.DELETE("/vendors/:id", adminHdlr.DeleteVendor)

			adminGroup.POST("/invoices", adminHdlr.CreateInvoice)
			adminGroup.GET("/invoices", adminHdlr.ListInvoices)
			adminGroup.GET("/invoices/:id", adminHdlr.GetInvoice)
			adminGroup.PUT("/invoices/:id", adminHdlr.UpdateInvoice)
			adminGroup.DELETE("/invoices/:id", adminHdlr.DeleteInvoice)

			adminGroup.POST("/amenities", adminHdlr.CreateAmenity)
			adminGroup.GET("/amenities", adminHdlr.ListAmenities)
			adminGroup.GET("/amenities/:id", adminHdlr.GetAmenity)
			adminGroup.PUT("/amenities/:id", adminHdlr.UpdateAmenity)
			adminGroup.DELETE("/amenities/:id", adminHdlr.DeleteAmenity)

			adminGroup.POST("/students", adminHdlr.CreateStudent)
			adminGroup.GET("/students", adminHdlr.ListStudents)
			adminGroup.GET("/students/:id", adminHdlr.GetStudent)
			adminGroup.PUT("/students/:id", adminHdlr.UpdateStudent)
			adminGroup.DELETE("/students/:id", adminHdlr.DeleteStudent)
		}
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Portal service starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
