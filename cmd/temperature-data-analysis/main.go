package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/temperature-data-analysis/internal/analysis"
	httpapi "github.com/i474232898/temperature-data-analysis/internal/api/http"
	"github.com/i474232898/temperature-data-analysis/internal/config"
	"github.com/i474232898/temperature-data-analysis/internal/dataset"
	"github.com/i474232898/temperature-data-analysis/internal/logging"
	"github.com/i474232898/temperature-data-analysis/internal/scheduler"
	"github.com/i474232898/temperature-data-analysis/internal/store"
	"github.com/i474232898/temperature-data-analysis/internal/weather"
	"github.com/i474232898/temperature-data-analysis/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger := logging.New(cfg.AppEnv, cfg.LogLevel)

	// Historical dataset. A broken dataset is fatal; there is nothing to
	// analyze without it.
	records, err := dataset.ReadFile(cfg.DatasetPath)
	if err != nil {
		slogger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	slogger.Info("dataset loaded", "path", cfg.DatasetPath, "records", len(records))

	// Run the rolling-window analysis in both execution modes and keep the
	// timing comparison around for the API.
	dispatcher := analysis.NewDispatcher(cfg.AnalysisWindow, 0)
	annotated, analysisCmp, err := dispatcher.Compare(records)
	if err != nil {
		slogger.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	slogger.Info("analysis comparison",
		"records", analysisCmp.Records,
		"anomalies", analysisCmp.Anomalies,
		"sequentialSeconds", analysisCmp.Sequential.ElapsedSeconds,
		"concurrentSeconds", analysisCmp.Concurrent.ElapsedSeconds,
	)

	seasonal := analysis.SeasonalStats(records)

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	memStore.SaveAnalysis(annotated, seasonal)
	memStore.SaveAnalysisComparison(analysisCmp)

	cities := cfg.TrackedCities
	if len(cities) == 0 {
		cities = dataset.Cities(records)
	}
	seasons := dataset.LatestSeasons(records)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := buildProvider(cfg, httpClient)
	harness := weather.NewFetchHarness(provider, slogger)

	sched := scheduler.New(cities, seasons, seasonal, cfg.FetchInterval, harness, memStore, slogger)
	if liveFetchReady(cfg) {
		// One fetch comparison up front so the API has live timings to serve.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		fetchCmp, err := harness.Compare(ctx, cities)
		cancel()
		if err != nil {
			slogger.Error("startup fetch comparison failed", "error", err)
		} else {
			memStore.SaveFetchComparison(fetchCmp)
			slogger.Info("fetch comparison",
				"provider", harness.ProviderName(),
				"cities", len(cities),
				"sequentialSeconds", fetchCmp.Sequential.ElapsedSeconds,
				"concurrentSeconds", fetchCmp.Concurrent.ElapsedSeconds,
			)
		}

		if err := sched.Start(); err != nil {
			slogger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
	} else {
		slogger.Warn("provider credentials missing; live monitoring disabled",
			"provider", cfg.WeatherProvider)
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "temperature-data-analysis",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "temperature-data-analysis",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.API{
		Store:      memStore,
		Dispatcher: dispatcher,
		Harness:    harness,
		Records:    records,
		Cities:     cities,
	})

	go func() {
		slogger.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slogger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slogger.Error("error during shutdown", "error", err)
	}
}

// buildProvider picks the live temperature provider selected in config.
func buildProvider(cfg *config.AppConfig, client *http.Client) weather.Provider {
	switch cfg.WeatherProvider {
	case config.ProviderOpenMeteo:
		// Open-Meteo itself is keyless, but city geocoding needs a Google API key.
		return providers.NewOpenMeteoProvider(client, cfg.GeocoderAPIKey)
	case config.ProviderWeatherAPI:
		return providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey)
	default:
		return providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey)
	}
}

// liveFetchReady reports whether the selected provider has the credentials
// it needs. Without them the service still serves historical analysis.
func liveFetchReady(cfg *config.AppConfig) bool {
	switch cfg.WeatherProvider {
	case config.ProviderOpenMeteo:
		return cfg.GeocoderAPIKey != ""
	case config.ProviderWeatherAPI:
		return cfg.WeatherAPIKey != ""
	default:
		return cfg.OpenWeatherAPIKey != ""
	}
}
