package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/craftmarket/auth-api/internal/api/handler"
	"github.com/craftmarket/auth-api/internal/api/middleware"
	"github.com/craftmarket/auth-api/internal/core/domain"
	"github.com/craftmarket/auth-api/internal/core/service"
	"github.com/craftmarket/auth-api/internal/core/token"
	"github.com/craftmarket/auth-api/internal/infrastructure/config"
	mongodb "github.com/craftmarket/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/craftmarket/auth-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth_api"))

	// --- Dependencies ---
	provider, err := token.NewProvider(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, log)
	if err != nil {
		return nil, err
	}

	memberRepo := mongodb.NewMemberRepository(db)
	tokenRepo := mongodb.NewRefreshTokenRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)

	authService := service.NewAuthService(memberRepo, tokenRepo, provider, throttle, log)
	authHandler := handler.NewAuthHandler(authService)
	memberHandler := handler.NewMemberHandler(memberRepo)
	requireAuth := middleware.Auth(provider)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)
	e.PUT("/auth/password", authHandler.ChangePassword, requireAuth)
	e.POST("/auth/password-reset", authHandler.RequestPasswordReset)
	e.POST("/auth/verify-email", authHandler.VerifyEmail)

	// --- Member routes ---
	e.GET("/members/me", memberHandler.Me, requireAuth)
	e.GET("/members", memberHandler.List, requireAuth, middleware.RequireRole(domain.RoleAdmin))

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e, nil
}
