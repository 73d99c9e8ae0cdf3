package main

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/wavegram/backend/internal/render"
	"github.com/wavegram/backend/internal/router"
	"github.com/wavegram/backend/pkg/config"
	"github.com/wavegram/backend/pkg/logger"
	"github.com/wavegram/backend/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.Env)

	clients, err := config.Connect(cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize storage: %v", err)
	}
	defer clients.Close()

	e := echo.New()
	e.HideBanner = true

	renderer, err := render.New("web/templates/*.html")
	if err != nil {
		logrus.Fatalf("failed to load templates: %v", err)
	}
	e.Renderer = renderer
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, clients, cfg)

	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout
	e.Server.IdleTimeout = cfg.HTTP.IdleTimeout

	if err := e.Start(":" + cfg.HTTP.Port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
