package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"

	"dtek-schedule/internal/config"
	"dtek-schedule/internal/handlers"
)

// newApp builds the Fiber app with middleware and all routes mounted.
func newApp(cfg *config.Config, snapshots handlers.Snapshots, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New())

	h := handlers.New(snapshots, cfg.DefaultQueue, cfg.ServeStale)
	handlers.RegisterRoutes(app, h, cfg.APIPassword, gatherer)
	return app
}
