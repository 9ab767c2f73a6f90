package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bookswap/bookswap-backend/internal/api"
	"github.com/bookswap/bookswap-backend/internal/config"
	"github.com/bookswap/bookswap-backend/internal/database"
	"github.com/bookswap/bookswap-backend/internal/logger"
	"github.com/bookswap/bookswap-backend/internal/session"
	"github.com/bookswap/bookswap-backend/internal/storage"
	ws "github.com/bookswap/bookswap-backend/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	log.Info("starting bookswap backend")
	cfg.LogConfig(log)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.UploadStoragePath)
	if err != nil {
		log.Error("failed to initialize file storage", slog.Any("error", err))
		os.Exit(1)
	}

	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		// Development fallback; production requires SESSION_SECRET
		sessionSecret = "bookswap-dev-secret-do-not-use-in-prod"
		log.Warn("SESSION_SECRET not set, using development secret")
	}
	sessions := session.NewManager(sessionSecret, cfg.AppEnv == "production")

	hub := ws.NewHub(log)
	go hub.Run()

	secLog := logger.NewSecurityLoggerWithHandler(log.Handler())

	allowedOrigins := splitOrigins(cfg.AllowedOrigins)

	e := api.NewRouter(&api.RouterConfig{
		DB:             db,
		FileStorage:    fileStorage,
		Sessions:       sessions,
		Hub:            hub,
		Logger:         log,
		SecLog:         secLog,
		AllowedOrigins: allowedOrigins,
		Production:     cfg.AppEnv == "production",
		RateLimit:      int(cfg.RateLimitRequests),
		RateBurst:      cfg.RateLimitBurst,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		log.Info("http server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
	}

	log.Info("server stopped")
}

// logLevel maps the configured level string onto slog levels
func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitOrigins parses the comma-separated ALLOWED_ORIGINS value
func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
