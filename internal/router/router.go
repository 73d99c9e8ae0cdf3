package router

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/wavegram/backend/internal/handlers"
	"github.com/wavegram/backend/internal/middleware"
	"github.com/wavegram/backend/internal/monitoring"
	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/internal/session"
	"github.com/wavegram/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(monitoring.Middleware())
	logrus.Info("global middleware configured")
}

// SetupRoutes wires repositories, the session store and all handlers.
func SetupRoutes(e *echo.Echo, clients *config.Clients, cfg config.Config) {
	db := clients.Mongo.Database(cfg.Mongo.Database)

	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logrus.Fatalf("failed to create user indexes: %v", err)
	}

	sessions := session.NewRedisStore(clients.Redis, cfg.Session.TTL)

	// Always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", monitoring.Handler())

	authHandler := handlers.NewAuthHandler(userRepo, sessions, cfg.Session.TTL)
	authHandler.RegisterAuthRoutes(e)

	followHandler := handlers.NewFollowHandler(userRepo, sessions)
	followHandler.RegisterPublicRoutes(e)

	// Session-protected surface
	authed := e.Group("", middleware.RequireSession(sessions))

	authHandler.RegisterSessionRoutes(authed)

	homeHandler := handlers.NewHomeHandler(postRepo, userRepo, sessions)
	homeHandler.RegisterHomeRoutes(authed)

	profileHandler := handlers.NewProfileHandler(userRepo, postRepo, sessions)
	profileHandler.RegisterProfileRoutes(authed)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, sessions)
	postHandler.RegisterPostRoutes(authed)

	followHandler.RegisterFollowRoutes(authed)

	userHandler := handlers.NewUserHandler(userRepo, postRepo, sessions)
	userHandler.RegisterUserRoutes(authed)

	logrus.Info("all routes configured")
}
