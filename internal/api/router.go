package api

import (
	"log/slog"

	"github.com/bookswap/bookswap-backend/internal/api/handlers"
	"github.com/bookswap/bookswap-backend/internal/api/middleware"
	"github.com/bookswap/bookswap-backend/internal/logger"
	"github.com/bookswap/bookswap-backend/internal/repository"
	"github.com/bookswap/bookswap-backend/internal/services"
	"github.com/bookswap/bookswap-backend/internal/session"
	"github.com/bookswap/bookswap-backend/internal/storage"
	ws "github.com/bookswap/bookswap-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	FileStorage storage.FileStorage
	Sessions    *session.Manager
	Hub         *ws.Hub
	Logger      *slog.Logger
	SecLog      *logger.SecurityLogger
	// Security configuration
	AllowedOrigins []string // Allowed CORS and WebSocket origins
	Production     bool     // Tightens CORS in production
	RateLimit      int      // Requests per second (0 = use env default)
	RateBurst      int      // Burst size for rate limiter
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Security middleware (applied in order)
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(cfg.AllowedOrigins, cfg.Production))

	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(float64(cfg.RateLimit), cfg.RateBurst, cfg.Logger))
	} else {
		e.Use(middleware.RateLimiter(cfg.Logger))
	}

	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Repositories
	accountRepo := repository.NewAccountRepository(cfg.DB)
	bookRepo := repository.NewBookRepository(cfg.DB)
	messageRepo := repository.NewMessageRepository(cfg.DB)

	// Services. The hub doubles as the messaging notifier; a nil hub
	// simply disables realtime push.
	var notifier services.MessageNotifier
	if cfg.Hub != nil {
		notifier = cfg.Hub
	}
	accountService := services.NewAccountService(accountRepo, bookRepo)
	messagingService := services.NewMessagingService(messageRepo, accountRepo, bookRepo, notifier)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	authHandler := handlers.NewAuthHandler(accountService, cfg.Sessions, cfg.SecLog)
	accountHandler := handlers.NewAccountHandler(accountService, cfg.FileStorage, cfg.SecLog)
	bookHandler := handlers.NewBookHandler(bookRepo, cfg.FileStorage, cfg.SecLog)
	conversationHandler := handlers.NewConversationHandler(messagingService)
	messageHandler := handlers.NewMessageHandler(messagingService)
	fileHandler := handlers.NewFileHandler(cfg.FileStorage, cfg.SecLog)

	// Health routes
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// WebSocket stream, authenticated inside the handler off the
	// handshake request's session cookie
	if cfg.Hub != nil {
		upgrader := ws.NewSecureUpgrader(cfg.AllowedOrigins, cfg.Logger)
		wsHandler := handlers.NewWSHandler(cfg.Hub, cfg.Sessions, upgrader, cfg.Logger)
		e.GET("/ws", wsHandler.Connect)
	}

	api := e.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	api.GET("/files/*", fileHandler.Serve)
	api.GET("/accounts/:id", accountHandler.GetProfile)
	api.GET("/accounts/:id/books", bookHandler.ListByAccount)

	books := api.Group("/books")
	books.GET("", bookHandler.List)
	books.GET("/latest", bookHandler.Latest)
	books.GET("/search", bookHandler.Search)
	books.GET("/:id", bookHandler.Get)

	// Session-protected routes
	authed := api.Group("", middleware.RequireSession(cfg.Sessions))

	authed.GET("/me", accountHandler.Me)
	authed.PUT("/me", accountHandler.UpdateMe)
	authed.PATCH("/me", accountHandler.UpdateMe)
	authed.POST("/me/avatar", accountHandler.UploadAvatar)
	authed.DELETE("/me", accountHandler.Deactivate)
	authed.GET("/me/books", bookHandler.ListMine)

	authed.POST("/books", bookHandler.Create)
	authed.PATCH("/books/:id", bookHandler.Update)
	authed.POST("/books/:id/cover", bookHandler.UploadCover)
	authed.DELETE("/books/:id", bookHandler.Delete)

	conversations := authed.Group("/conversations")
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:other_id", conversationHandler.Thread)
	conversations.POST("/:other_id/read", conversationHandler.MarkRead)
	conversations.GET("/:other_id/exists", conversationHandler.Exists)

	authed.POST("/messages", messageHandler.Send)
	authed.DELETE("/messages/:id", messageHandler.Delete)
	authed.GET("/messages/unread/count", conversationHandler.UnreadCount)

	return e
}
