package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minnseong/security-study/internal/api/handler"
	"github.com/minnseong/security-study/internal/api/middleware"
	"github.com/minnseong/security-study/internal/core/domain"
	"github.com/minnseong/security-study/internal/core/ports"
	"github.com/minnseong/security-study/internal/core/service"
	"github.com/minnseong/security-study/internal/core/token"
	mongodb "github.com/minnseong/security-study/internal/infrastructure/db/mongo"
	"github.com/minnseong/security-study/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Route protection is declared here, per route, rather than inside handlers:
// the auth middleware only binds identities, and RequireRoles decides. The
// authenticate, signup and hello routes are public by construction — they
// simply declare no required roles.
func NewRouter(db *mongo.Database, rdb *redis.Client, tokens *token.Service, loginLimiter ports.LoginLimiter, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(echoprometheus.NewMiddleware("auth"))
	e.Use(middleware.Auth(tokens))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// --- Public routes ---
	e.POST("/api/authenticate", authHandler.Authenticate, middleware.LoginThrottle(loginLimiter, log))
	e.POST("/api/signup", authHandler.Signup)
	e.GET("/api/hello", userHandler.Hello)

	// --- Protected routes ---
	e.GET("/api/user", userHandler.Me, middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin))
	e.GET("/api/user/:username", userHandler.ByUsername, middleware.RequireRoles(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
