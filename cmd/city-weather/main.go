package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/city-weather/internal/api/http"
	"github.com/i474232898/city-weather/internal/config"
	"github.com/i474232898/city-weather/internal/metrics"
	"github.com/i474232898/city-weather/internal/scheduler"
	"github.com/i474232898/city-weather/internal/store"
	"github.com/i474232898/city-weather/internal/ui"
	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(registry)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewAccuWeatherProvider(httpClient, cfg.AccuWeatherAPIKey,
		providers.WithBaseURL(cfg.AccuWeatherBaseURL),
		providers.WithObserver(collector),
	)

	// Lookup pipeline: resolve the city, then fetch its current conditions.
	service := weather.NewProviderService(provider, collector)

	renderer, err := ui.NewRenderer(cfg.IconURLTemplate)
	if err != nil {
		log.Fatalf("failed to parse page template: %v", err)
	}

	// One UI session per visitor, dropped after SESSION_MAX_AGE of inactivity.
	sessions := store.NewSessionStore(cfg.SessionMaxCount, cfg.SessionMaxAge, func() *ui.Session {
		return ui.NewSession(service)
	})

	sched := scheduler.New(cfg.SessionSweepInterval, sessions, collector)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "city-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "city-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpapi.RegisterRoutes(app, httpapi.Dependencies{
		Service:       service,
		Sessions:      sessions,
		Renderer:      renderer,
		SessionMaxAge: cfg.SessionMaxAge,
	})

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
