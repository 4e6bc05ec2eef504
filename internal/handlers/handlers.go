package handlers

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"dtek-schedule/internal/logging"
	"dtek-schedule/internal/schedule"
)

const (
	ServiceName    = "DTEK Schedule API"
	ServiceVersion = "1.0"

	// StaleHeader marks responses built from an expired snapshot.
	StaleHeader = "X-Schedule-Stale"
)

// Snapshots is the read side of the snapshot cache.
type Snapshots interface {
	Get(ctx context.Context) (*schedule.Snapshot, error)
	Stale() *schedule.Snapshot
}

type Handlers struct {
	Cache        Snapshots
	DefaultQueue string

	// ServeStale answers with the last snapshot when a fetch fails.
	ServeStale bool

	// Now supplies "today" when the snapshot carries none.
	Now func() time.Time

	log zerolog.Logger
}

func New(cache Snapshots, defaultQueue string, serveStale bool) *Handlers {
	if defaultQueue == "" {
		defaultQueue = schedule.DefaultQueue
	}
	return &Handlers{
		Cache:        cache,
		DefaultQueue: defaultQueue,
		ServeStale:   serveStale,
		Now:          time.Now,
		log:          logging.New("api"),
	}
}

// RequirePassword rejects requests whose password query parameter does not
// match secret.
func RequirePassword(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		given := c.Query("password")
		if given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Invalid or missing password",
			})
		}
		return c.Next()
	}
}

// RegisterRoutes mounts the public and password protected endpoints on app.
// A nil gatherer leaves /metrics unmounted.
func RegisterRoutes(app *fiber.App, h *Handlers, secret string, gatherer prometheus.Gatherer) {
	app.Get("/", h.Index)
	app.Get("/health", h.Health)
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	auth := RequirePassword(secret)
	app.Get("/schedule", auth, h.Schedule)
	app.Get("/schedule/simple", auth, h.ScheduleSimple)
	app.Get("/queues", auth, h.Queues)
}

// Index describes the service.
func (h *Handlers) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": ServiceName,
		"version": ServiceVersion,
		"endpoints": fiber.Map{
			"/schedule":        "Get schedule data (requires ?password=xxx)",
			"/schedule/simple": "Compact schedule codes (requires ?password=xxx)",
			"/queues":          "List queues with names (requires ?password=xxx)",
			"/health":          "Health check",
			"/metrics":         "Prometheus metrics",
		},
		"usage": "GET /schedule?password=YOUR_PASSWORD&queue=" + h.DefaultQueue,
	})
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
