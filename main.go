package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuebook/config"
	"venuebook/database"
	sessionRepo "venuebook/database/repository/session"
	venueRepo "venuebook/database/repository/venue"
	"venuebook/handlers"
	"venuebook/middleware"
	"venuebook/routes"
	"venuebook/services/booking"
	"venuebook/services/session"
	"venuebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// repositories.
	var (
		sessions sessionRepo.SessionRepository
		venues   venueRepo.VenueCache
		ping     func(context.Context) map[string]bool
	)
	switch cfg.SessionStore {
	case "memory":
		logger.Warn("main: browser sessions are kept in memory and lost on restart")
		sessions = sessionRepo.NewMemorySessionRepo(cfg.SessionTTL)
		venues = venueRepo.NoopVenueCache{}
	default:
		if err := database.InitRedis(context.Background()); err != nil {
			logger.Fatal("main: failed to connect to Redis", zap.Error(err))
		}
		defer database.Close()
		sessions = sessionRepo.NewRedisSessionRepo(database.SessionClient, cfg.SessionTTL)
		venues = venueRepo.NewRedisVenueCache(database.CacheClient, cfg.VenueCacheTTL)
		ping = database.Ping
	}

	// services.
	flow := booking.NewBookingFlowService(sessions, logger.Named("booking"))

	handlerBundle := &handlers.HandlerBundle{
		Sessions: sessions,
		Venues:   venues,
		Flow:     flow,
		Backend: session.Config{
			BaseURL:    cfg.APIBaseURL,
			HTTPClient: &http.Client{Timeout: cfg.APITimeout},
		},
		CookieSecure: cfg.CookieSecure,
		Ping:         ping,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	browserSession := middleware.BrowserSession(sessions, middleware.SessionOptions{
		CookieName:  cfg.SessionCookie,
		TTL:         cfg.SessionTTL,
		Secure:      cfg.CookieSecure,
		DefaultLang: cfg.DefaultLang,
	})
	routes.RegisterRoutes(router, handlerBundle, cfg.CORSOrigins, browserSession)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("main: starting server",
		zap.String("addr", srv.Addr),
		zap.String("backend", cfg.APIBaseURL),
		zap.String("sessionStore", cfg.SessionStore))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("main: server stopped gracefully")
}
