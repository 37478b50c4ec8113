package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aveta_backend/internal/ai"
	"aveta_backend/internal/auth"
	"aveta_backend/internal/billing"
	"aveta_backend/internal/config"
	"aveta_backend/internal/email"
	"aveta_backend/internal/handlers"
	"aveta_backend/internal/logger"
	"aveta_backend/internal/middleware"
	"aveta_backend/internal/models"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/routes"
	"aveta_backend/internal/services"
	"aveta_backend/internal/storage"
	"aveta_backend/internal/validator"
)

// Run boots the application: config, logging, database, collaborators,
// HTTP server.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.Character{},
		&models.Chat{},
		&models.Message{},
		&models.Blog{},
		&models.EntityImage{},
	); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services, handlers and middleware
// into a gin engine.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	store, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var mail email.Provider
	if cfg.Email.SMTPHost != "" {
		mail, err = email.NewSMTPProvider(email.Config{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUser:     cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromEmail:    cfg.Email.FromEmail,
			FromName:     cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize email provider", "error", err)
		}
	} else {
		logger.Warn("SMTP not configured, transactional email disabled")
	}

	tokens := auth.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTL)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTL)*time.Minute,
	)
	completion := ai.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.CompletionTimeout())
	gateway := billing.NewBilling(cfg.Stripe)
	v := validator.New()

	userRepo := repositories.NewUserRepository(gormDB)
	characterRepo := repositories.NewCharacterRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)
	messageRepo := repositories.NewMessageRepository(gormDB)
	blogRepo := repositories.NewBlogRepository(gormDB)
	entityImageRepo := repositories.NewEntityImageRepository(gormDB)

	authService := services.NewAuthService(userRepo, tokens, mail, v, cfg.FrontendURL)
	userService := services.NewUserService(userRepo, characterRepo, store, v)
	characterService := services.NewCharacterService(characterRepo, store, v)
	chatService := services.NewChatService(chatRepo, characterRepo, v)
	messageService := services.NewMessageService(userRepo, chatRepo, messageRepo, completion, v)
	blogService := services.NewBlogService(blogRepo, store, v)
	entityImageService := services.NewEntityImageService(entityImageRepo, store, v)
	subscriptionService := services.NewSubscriptionService(userRepo, gateway, v)

	authRequired := middleware.AuthMiddleware(tokens, userRepo)
	authOptional := middleware.OptionalAuthMiddleware(tokens, userRepo)
	base := handlers.NewBaseHandler()

	appHandlers := &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, authService, authRequired),
		UserHandler:         handlers.NewUserHandler(base, userService, authRequired, authOptional),
		CharacterHandler:    handlers.NewCharacterHandler(base, characterService, authRequired, authOptional),
		ChatHandler:         handlers.NewChatHandler(base, chatService, messageService, authRequired),
		BlogHandler:         handlers.NewBlogHandler(base, blogService, authRequired),
		EntityImageHandler:  handlers.NewEntityImageHandler(base, entityImageService, authRequired),
		SubscriptionHandler: handlers.NewSubscriptionHandler(base, subscriptionService, authRequired),
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware(cfg.FrontendURL))

	if cfg.Storage.Type == "local" {
		basePath := cfg.Storage.BasePath
		if basePath == "" {
			basePath = "uploads"
		}
		ginRouter.Static("/uploads", basePath)
	}

	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}
