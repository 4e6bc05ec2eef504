package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"dtek-schedule/internal/browser"
	"dtek-schedule/internal/cache"
	"dtek-schedule/internal/config"
	"dtek-schedule/internal/logging"
	"dtek-schedule/internal/metrics"
	"dtek-schedule/internal/scrape"
)

// breakerCooldown is how long fetches stay suppressed once the breaker opens.
const breakerCooldown = 2 * time.Minute

func main() {
	// Load .env if present.
	_ = godotenv.Load()

	log := logging.New("main")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	// Pick up the configured level and format.
	log = logging.New("main")

	if cfg.InsecurePassword() {
		log.Warn().Msg("API_PASSWORD is not set, using the built-in default; only run this on a trusted network")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Metrics ---
	rec, err := metrics.NewProm(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics")
	}

	// --- Scrape pipeline ---
	provider := browser.NewProvider(browser.Options{
		ExecPath:  cfg.ChromePath,
		RemoteURL: cfg.ChromeWSURL,
		Headless:  cfg.ChromeHeadless,
		UserAgent: cfg.UserAgent,
	})
	pipeline := scrape.NewPipeline(cfg.SourceURL, scrape.BrowserSessions(provider),
		scrape.RetryPolicy{Interval: cfg.PollInterval, Timeout: cfg.PollTimeout},
	)

	// --- Snapshot cache ---
	opts := []cache.Option{
		cache.WithTTL(cfg.CacheTTL),
		cache.WithFetchTimeout(cfg.FetchTimeout),
		cache.WithBreaker(cfg.FetchBreakerThreshold, breakerCooldown),
		cache.WithRecorder(rec),
	}
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer store.Close()
		opts = append(opts, cache.WithStore(store))
		log.Info().Msg("redis connected")
	}
	snapshots := cache.New(pipeline.Fetch, opts...)
	if err := snapshots.Prime(ctx); err != nil {
		log.Warn().Err(err).Msg("prime cache from redis")
	}

	// --- Warmer ---
	if cfg.WarmCron != "" {
		warmer, err := cache.StartWarmer(cfg.WarmCron, snapshots)
		if err != nil {
			log.Fatal().Err(err).Msg("warmer")
		}
		defer warmer.Stop()
		log.Info().Str("schedule", cfg.WarmCron).Msg("cache warmer started")
	}

	// --- Fiber HTTP Server ---
	app := newApp(cfg, snapshots, prometheus.DefaultGatherer)

	// --- Graceful shutdown ---
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
