package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"docuchat/internal/ai"
	appsvc "docuchat/internal/app"
	"docuchat/internal/bootstrap"
	"docuchat/internal/cache"
	"docuchat/internal/platform/rabbitmq"
	"docuchat/internal/repository"
	"docuchat/internal/transport/http/handler"
	"docuchat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	userRepo := repository.NewUserRepository(app.MySQL)
	fileRepo := repository.NewFileRepository(app.MySQL)
	chatMessageRepo := repository.NewChatMessageRepository(app.MySQL)
	contextCache := cache.NewContextCache(app.Redis, time.Duration(cfg.Redis.ContextTTLSeconds)*time.Second)
	transcriptPublisher := rabbitmq.NewChatLogPublisher(app.MQConn, cfg.MQ.ChatLogQueue)
	llmClient := ai.NewOpenAICompatibleClient(time.Duration(cfg.LLM.TimeoutSeconds) * time.Second)

	jwtExpiration := time.Duration(cfg.Auth.JWTExpireDays) * 24 * time.Hour
	authService := appsvc.NewAuthService(userRepo, cfg.Auth.JWTSecret, jwtExpiration)
	fileService := appsvc.NewFileService(fileRepo, app.Blobs, contextCache)
	chatService := appsvc.NewChatService(
		fileRepo,
		app.Blobs,
		contextCache,
		transcriptPublisher,
		chatMessageRepo,
		llmClient,
		ai.ChatConfig{
			BaseURL:   cfg.LLM.BaseURL,
			APIKey:    cfg.LLM.APIKey,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxAnswerTokens,
		},
		cfg.LLM.MaxContextChars,
		app.Logger,
	)

	cookieMaxAge := int(jwtExpiration / time.Second)
	authHandler := handler.NewAuthHandler(authService, cfg.Auth.CookieName, cookieMaxAge, cfg.IsProduction())
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.PublicPath)
	chatHandler := handler.NewChatHandler(chatService)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthz", healthHandler.Check)

	// Read-only retrieval of stored blobs by generated name.
	router.Static(cfg.Storage.PublicPath, cfg.Storage.Dir)

	authMW := middleware.AuthSession(cfg.Auth.JWTSecret, cfg.Auth.CookieName)

	authGroup := router.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/check", authMW, authHandler.Check)
	authGroup.POST("/logout", authHandler.Logout)

	filesGroup := router.Group("/files")
	filesGroup.Use(authMW)
	filesGroup.POST("", fileHandler.Upload)
	filesGroup.GET("", fileHandler.List)
	filesGroup.DELETE("/:id", fileHandler.Delete)

	router.POST("/chat", authMW, chatHandler.Chat)
	router.GET("/chat/history", authMW, chatHandler.History)

	return router
}
