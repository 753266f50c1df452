package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/api/handlers"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/cache/redis"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/metrics"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/middleware/security"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/query"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/report"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/sqlite"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/config"
	appLogger "github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(false); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("starting Africa Energy API server")
	metrics.Init()

	store, err := sqlite.NewClient(cfg.Store.Path)
	if err != nil {
		appLogger.Fatal("failed to open document store", zap.Error(err))
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		appLogger.Fatal("failed to initialize schema", zap.Error(err))
	}
	if err := store.EnsureIndexes(); err != nil {
		appLogger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	var cache *redis.Client
	if cfg.Redis.Enabled {
		cache, err = redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("redis unavailable, caching disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	engine := query.NewEngine(store, cache)
	generator := report.NewGenerator(store)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	queryHandler := handlers.NewQueryHandler(engine)
	exportHandler := handlers.NewExportHandler(store)
	reportHandler := handlers.NewReportHandler(generator)

	api := app.Group("/api/v1")

	api.Get("/countries", queryHandler.GetCountries)
	api.Get("/countries/:name", queryHandler.GetCountryData)
	api.Get("/compare", queryHandler.Compare)
	api.Get("/stats", queryHandler.GetStats)

	api.Get("/export/csv", exportHandler.ExportCSV)
	api.Get("/export/tidy", exportHandler.ExportTidy)
	api.Get("/export/json", exportHandler.ExportJSON)
	api.Get("/export/workbook", exportHandler.ExportWorkbook)
	api.Get("/export/country/:name", exportHandler.ExportCountry)

	api.Get("/report", reportHandler.GetReport)
	api.Get("/report/quick", reportHandler.GetQuickReport)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("server shutting down gracefully")
	app.Shutdown()
	appLogger.Info("server stopped")
}
