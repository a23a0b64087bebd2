package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/trendscope/trends-data-service/internal/api/http"
	"github.com/trendscope/trends-data-service/internal/config"
	"github.com/trendscope/trends-data-service/internal/countries"
	"github.com/trendscope/trends-data-service/internal/metrics"
	"github.com/trendscope/trends-data-service/internal/scheduler"
	"github.com/trendscope/trends-data-service/internal/store"
	"github.com/trendscope/trends-data-service/internal/trends"
	"github.com/trendscope/trends-data-service/internal/trends/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// SQLite store with schema applied and the country catalog seeded.
	st, err := store.NewSQLiteStore(cfg.DataDir, countries.All())
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	// Shared HTTP client for outbound provider calls (proxy-aware).
	httpClient := providers.NewHTTPClient(cfg.HTTPTimeout)
	fetcher := providers.NewApifyProvider(httpClient, cfg.ApifyToken, cfg.ApifyTask)

	// Core service orchestrating ingestion and reads.
	service := trends.NewService(st, fetcher, countries.All())

	// Scheduler that periodically ingests trend data.
	if !cfg.DisableCron {
		sched := scheduler.New(cfg.CronSpec, service)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "trends-data-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Minute, // /ingest waits for a whole run
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Health and metrics are open; everything after RequireToken is not.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	app.Use(httpapi.RequireToken(cfg.APIToken))

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
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
