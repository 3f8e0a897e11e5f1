package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventify/eventify-api/internal/api/handler"
	"github.com/eventify/eventify-api/internal/api/middleware"
	"github.com/eventify/eventify-api/internal/core/service"
	"github.com/eventify/eventify-api/internal/infrastructure/config"
	mongodb "github.com/eventify/eventify-api/internal/infrastructure/db/mongo"
	redisdb "github.com/eventify/eventify-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("eventify"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	listingCache := redisdb.NewListingCache(rdb, log)

	sessionService := service.NewSessionService(userRepo, cfg.SessionTTL, log)
	authService := service.NewAuthService(userRepo, sessionService, log)
	eventService := service.NewEventService(eventRepo, listingCache, log)
	socialService := service.NewSocialService(userRepo, log)

	authHandler := handler.NewAuthHandler(authService, sessionService, cfg.IsProduction())
	eventHandler := handler.NewEventHandler(eventService)
	socialHandler := handler.NewSocialHandler(socialService)
	requireSession := middleware.Session(sessionService)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout, requireSession)
	e.GET("/verify-token", authHandler.VerifyToken)

	// --- Event routes ---
	e.GET("/events/all", eventHandler.ListAll)
	e.GET("/events", eventHandler.ListMine, requireSession)
	e.POST("/events", eventHandler.Create, requireSession)
	e.PUT("/events/:id", eventHandler.Update, requireSession)
	e.DELETE("/events/:id", eventHandler.Delete, requireSession)
	e.PATCH("/events/all/:id", eventHandler.Join, requireSession)

	// --- Social routes ---
	e.POST("/follow/:userId", socialHandler.Follow, requireSession)
	e.POST("/unfollow/:userId", socialHandler.Unfollow, requireSession)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
